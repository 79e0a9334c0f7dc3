package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sakif/careercraft/internal/model"
)

// stubServer fakes just enough of the API for the client round trips.
func stubServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"id": "user-1", "name": req["name"], "email": req["email"], "token": "issued-token",
		})
	})

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret123" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "validation_error", "message": "invalid credentials",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id": "user-1", "email": req["email"], "token": "issued-token",
		})
	})

	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer issued-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "user-1", "email": "ada@example.com"})
	})

	mux.HandleFunc("POST /api/resume", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Data model.ResumeData `json:"data"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]any{"data": req.Data})
	})

	mux.HandleFunc("POST /api/resume/upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("resume")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "validation_error"})
			return
		}
		file.Close()
		json.NewEncoder(w).Encode(map[string]string{
			"pdf_url": "http://example.com/uploads/" + header.Filename,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRegister_StoresToken(t *testing.T) {
	srv := stubServer(t)
	c := New(srv.URL)

	session, err := c.Register(context.Background(), "Ada", "ada@example.com", "secret123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if session.Token != "issued-token" {
		t.Errorf("Token = %q", session.Token)
	}
	if c.Token() != "issued-token" {
		t.Error("client should hold the issued token for later calls")
	}
}

func TestLogin_ThenAuthenticatedCall(t *testing.T) {
	srv := stubServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	if _, err := c.Login(ctx, "ada@example.com", "secret123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	profile, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if profile.Email != "ada@example.com" {
		t.Errorf("Email = %q", profile.Email)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := stubServer(t)
	c := New(srv.URL)

	_, err := c.Login(context.Background(), "ada@example.com", "wrong")
	if err == nil {
		t.Fatal("Login() should fail")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
	if apiErr.Message != "invalid credentials" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestMe_WithoutToken(t *testing.T) {
	srv := stubServer(t)
	c := New(srv.URL)

	if _, err := c.Me(context.Background()); err == nil {
		t.Error("Me() without a session should fail")
	}
}

func TestSaveResume_RoundTrip(t *testing.T) {
	srv := stubServer(t)
	c := New(srv.URL)
	c.SetToken("issued-token")

	data := model.EmptyResumeData()
	data.Name = "Ada"

	env, err := c.SaveResume(context.Background(), data)
	if err != nil {
		t.Fatalf("SaveResume() error = %v", err)
	}
	if env.Data.Name != "Ada" {
		t.Errorf("Data.Name = %q", env.Data.Name)
	}
}

func TestUploadResume(t *testing.T) {
	srv := stubServer(t)
	c := New(srv.URL)
	c.SetToken("issued-token")

	url, err := c.UploadResume(context.Background(), "resume.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("UploadResume() error = %v", err)
	}
	if url != "http://example.com/uploads/resume.pdf" {
		t.Errorf("url = %q", url)
	}
}
