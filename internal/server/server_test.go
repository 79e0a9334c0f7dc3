package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/careercraft/internal/config"
	"github.com/sakif/careercraft/internal/server"
)

// newTestServer assembles the real router on an in-memory database and a
// temp upload directory. No Google credentials and no SMTP, so Google
// routes are absent and reset emails go to the log.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		Port:      0,
		DBPath:    ":memory:",
		JWTSecret: "integration-test-secret-123456",
		BaseURL:   "http://localhost:8080",
		UploadDir: t.TempDir(),
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	srv, err := server.New(context.Background(), cfg, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any, token string) *http.Response {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(encoded))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerUser creates an account and returns its session token.
func registerUser(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/auth/register", map[string]string{
		"name": "Test User", "email": email, "password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

// =========================================================================
// LIVENESS AND AUTH GATING
// =========================================================================

func TestRoot_Liveness(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "CareerCraft backend is running")
}

func TestProtectedRoutes_RequireAuth(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/auth/me", "/api/resume", "/api/insights/resume"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestGoogleRoutes_AbsentWithoutCredentials(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/auth/google/login")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =========================================================================
// REGISTRATION AND LOGIN
// =========================================================================

func TestRegisterLoginMe_FullFlow(t *testing.T) {
	ts := newTestServer(t)

	token := registerUser(t, ts, "flow@example.com")

	// The token works immediately.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	decode(t, resp, &me)
	assert.Equal(t, "flow@example.com", me.Email)

	// Fresh login works too.
	loginResp := postJSON(t, ts.URL+"/api/auth/login", map[string]string{
		"email": "flow@example.com", "password": "secret123",
	}, "")
	defer loginResp.Body.Close()
	assert.Equal(t, http.StatusOK, loginResp.StatusCode)
}

func TestRegister_DuplicateEmailIs400(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "dup@example.com")

	resp := postJSON(t, ts.URL+"/api/auth/register", map[string]string{
		"name": "Again", "email": "dup@example.com", "password": "other",
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_WrongPasswordIs400(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "wrongpw@example.com")

	resp := postJSON(t, ts.URL+"/api/auth/login", map[string]string{
		"email": "wrongpw@example.com", "password": "not-it",
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForgotPassword_UnknownEmailIs404(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/auth/forgot-password", map[string]string{
		"email": "ghost@example.com",
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// SMTP is unconfigured in tests, so the dispatch "succeeds" by logging.
func TestForgotPassword_KnownEmailIs200(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "forgot@example.com")

	resp := postJSON(t, ts.URL+"/api/auth/forgot-password", map[string]string{
		"email": "forgot@example.com",
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestResetPassword_BadOTPIs400(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "reset@example.com")

	resp := postJSON(t, ts.URL+"/api/auth/reset-password", map[string]string{
		"email": "reset@example.com", "otp": "000000", "newPassword": "new-secret",
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =========================================================================
// RESUME
// =========================================================================

func TestResume_EmptyPlaceholderBeforeFirstSave(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "fresh@example.com")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/resume", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, `{}`, string(raw["data"]))
}

func TestResume_SaveAndGet(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "saver@example.com")

	data := map[string]any{
		"data": map[string]any{
			"name":    "Ada Lovelace",
			"title":   "Engineer",
			"summary": "Writes programs for machines that do not exist yet.",
			"experience": []map[string]string{
				{"company": "Analytical Engines Ltd", "position": "Programmer"},
			},
		},
	}

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/resume", jsonBody(t, data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	getReq, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/resume", nil)
	getReq.Header.Set("Authorization", "Bearer "+token)
	getResp, err := http.DefaultClient.Do(getReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var body struct {
		Data struct {
			Name       string `json:"name"`
			Experience []struct {
				Company string `json:"company"`
			} `json:"experience"`
		} `json:"data"`
	}
	decode(t, getResp, &body)
	assert.Equal(t, "Ada Lovelace", body.Data.Name)
	require.Len(t, body.Data.Experience, 1)
	assert.Equal(t, "Analytical Engines Ltd", body.Data.Experience[0].Company)
}

func TestResume_SaveAcceptsPutAlias(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "put-alias@example.com")

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/resume",
		bytes.NewBufferString(`{"data": {"name": "Ann", "title": "Engineer"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestResume_UnknownFieldRejected(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "typo@example.com")

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/resume",
		bytes.NewBufferString(`{"data": {"nmae": "typo"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResumeUpload_PDFRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "upload@example.com")

	url := uploadFile(t, ts, token, "resume.pdf", "%PDF-1.4 test content")

	// The returned URL is baseURL + /uploads/<name>; fetch the file back
	// through the server's own static route.
	resp, err := http.Get(ts.URL + url[len("http://localhost:8080"):])
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	content, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF-1.4 test content", string(content))
}

func TestResumeUpload_RejectsNonPDF(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "docx@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("resume", "resume.docx")
	require.NoError(t, err)
	fmt.Fprint(part, "not a pdf")
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/resume/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =========================================================================
// INSIGHTS
// =========================================================================

// The analyzer sleeps ~1.2s to mimic a model call, so one request covers
// the whole route group.
func TestInsights_JobMatches(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "insights@example.com")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/insights/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var jobs []struct {
		Company string `json:"company"`
		Match   int    `json:"match"`
	}
	decode(t, resp, &jobs)
	require.Len(t, jobs, 3)
	assert.Equal(t, "TechNova Labs", jobs[0].Company)
	assert.Equal(t, 92, jobs[0].Match)
}

// =========================================================================
// HELPERS
// =========================================================================

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	encoded, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(encoded)
}

func uploadFile(t *testing.T, ts *httptest.Server, token, filename, content string) string {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("resume", filename)
	require.NoError(t, err)
	fmt.Fprint(part, content)
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/resume/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		PDFURL string `json:"pdf_url"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.PDFURL)
	return body.PDFURL
}
