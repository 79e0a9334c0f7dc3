// Package client is a small Go client for the CareerCraft HTTP API. It
// holds the session token issued at login and attaches it as a Bearer
// header on authenticated calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sakif/careercraft/internal/model"
)

// Client talks to a CareerCraft server. Create one with New, sign in with
// Register or Login, then call the authenticated methods.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a client for the server at baseURL (no trailing slash).
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs a previously issued session token, e.g. one persisted
// from an earlier run.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current session token, empty before sign-in.
func (c *Client) Token() string { return c.token }

// Session is the server's response to every sign-in endpoint.
type Session struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
	Token     string `json:"token"`
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Register creates an account and stores the returned session token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	return c.signIn(ctx, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
}

// Login signs in with email and password and stores the session token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.signIn(ctx, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	})
}

// GoogleSignIn exchanges a Google ID token for a session.
func (c *Client) GoogleSignIn(ctx context.Context, idToken string) (*Session, error) {
	return c.signIn(ctx, "/api/auth/google", map[string]string{"idToken": idToken})
}

func (c *Client) signIn(ctx context.Context, path string, body any) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, path, body, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*model.PublicProfile, error) {
	var profile model.PublicProfile
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ForgotPassword asks the server to email a reset OTP.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword sets a new password given the emailed OTP.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": email, "otp": otp, "newPassword": newPassword,
	}, nil)
}

// ResumeEnvelope mirrors the server's resume responses. Data decodes to
// the zero ResumeData for a user who has never saved.
type ResumeEnvelope struct {
	Data   model.ResumeData `json:"data"`
	PDFURL string           `json:"pdf_url"`
}

// GetResume fetches the caller's resume.
func (c *Client) GetResume(ctx context.Context) (*ResumeEnvelope, error) {
	var env ResumeEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/resume", nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// SaveResume upserts the caller's resume data. The server expects the
// document wrapped in a {"data": ...} envelope.
func (c *Client) SaveResume(ctx context.Context, data model.ResumeData) (*ResumeEnvelope, error) {
	body := struct {
		Data model.ResumeData `json:"data"`
	}{Data: data}

	var env ResumeEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/resume", body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// UploadResume uploads a PDF and returns the URL it is served at.
func (c *Client) UploadResume(ctx context.Context, filename string, pdf io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("resume", filename)
	if err != nil {
		return "", fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return "", fmt.Errorf("copying file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/resume/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	var out struct {
		PDFURL string `json:"pdf_url"`
	}
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	return out.PDFURL, nil
}

// AnalyzeResume fetches the resume analysis.
func (c *Client) AnalyzeResume(ctx context.Context) (*ResumeAnalysis, error) {
	var analysis ResumeAnalysis
	if err := c.do(ctx, http.MethodGet, "/api/insights/resume", nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// MatchJobs fetches ranked job matches.
func (c *Client) MatchJobs(ctx context.Context) ([]JobMatch, error) {
	var jobs []JobMatch
	if err := c.do(ctx, http.MethodGet, "/api/insights/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ResumeAnalysis mirrors the server's analysis response.
type ResumeAnalysis struct {
	ResumeScore    int      `json:"resumeScore"`
	PrimaryRole    string   `json:"primaryRole"`
	Recommendation string   `json:"recommendation"`
	TopGaps        []string `json:"topGaps"`
}

// JobMatch mirrors one entry of the server's job match response.
type JobMatch struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	Match    int      `json:"match"`
	Skills   []string `json:"skills"`
	Posted   string   `json:"posted"`
}

// do issues a JSON request and decodes a JSON response into out (skipped
// when out is nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	return c.send(req, out)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = "unexpected response from server"
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
