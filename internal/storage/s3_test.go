package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newStubS3 runs an httptest server standing in for a path-style S3
// endpoint, recording the requests it receives.
func newStubS3(t *testing.T) (*httptest.Server, *http.Request) {
	t.Helper()

	got := &http.Request{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = *r.Clone(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestS3Store_Save(t *testing.T) {
	srv, got := newStubS3(t)

	store, err := NewS3Store(context.Background(), S3Config{
		AccessKey:    "test-access",
		SecretKey:    "test-secret",
		Bucket:       "resumes",
		Region:       "us-east-1",
		BaseEndpoint: srv.URL,
		PublicURL:    "https://cdn.example.com/",
	})
	if err != nil {
		t.Fatalf("NewS3Store() error = %v", err)
	}

	url, err := store.Save(context.Background(), "user-1-1234.pdf", strings.NewReader("%PDF-1.4 content"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Trailing slash on the public URL must not double up, and the key
	// carries the uploads/ prefix.
	if url != "https://cdn.example.com/uploads/user-1-1234.pdf" {
		t.Errorf("url = %q", url)
	}

	// Path-style addressing: /<bucket>/<key>.
	if got.Method != http.MethodPut {
		t.Errorf("method = %s, want PUT", got.Method)
	}
	if got.URL.Path != "/resumes/uploads/user-1-1234.pdf" {
		t.Errorf("path = %q, want /resumes/uploads/user-1-1234.pdf", got.URL.Path)
	}
	if ct := got.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
}

func TestS3Store_SaveUploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "AccessDenied", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	store, err := NewS3Store(context.Background(), S3Config{
		AccessKey:    "test-access",
		SecretKey:    "test-secret",
		Bucket:       "resumes",
		Region:       "us-east-1",
		BaseEndpoint: srv.URL,
		PublicURL:    "https://cdn.example.com",
	})
	if err != nil {
		t.Fatalf("NewS3Store() error = %v", err)
	}

	if _, err := store.Save(context.Background(), "user-1-1234.pdf", strings.NewReader("x")); err == nil {
		t.Error("Save() should surface the upload failure")
	}
}
