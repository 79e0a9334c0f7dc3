package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sakif/careercraft/internal/apperror"
	"github.com/sakif/careercraft/internal/model"
)

// =========================================================================
// FAKES
// =========================================================================

// mockResumeRepo keeps one resume per user in memory, like the real table.
type mockResumeRepo struct {
	byUser map[string]*model.Resume
}

func newMockResumeRepo() *mockResumeRepo {
	return &mockResumeRepo{byUser: make(map[string]*model.Resume)}
}

func (m *mockResumeRepo) GetByUserID(_ context.Context, userID string) (*model.Resume, error) {
	r, ok := m.byUser[userID]
	if !ok {
		return nil, apperror.NotFound("resume")
	}
	result := *r
	return &result, nil
}

func (m *mockResumeRepo) UpsertData(_ context.Context, userID string, data model.ResumeData) (*model.Resume, error) {
	r, ok := m.byUser[userID]
	if !ok {
		r = &model.Resume{ID: "resume-" + userID, UserID: userID, CreatedAt: time.Now()}
		m.byUser[userID] = r
	}
	r.Data = data
	r.UpdatedAt = time.Now()
	result := *r
	return &result, nil
}

func (m *mockResumeRepo) SetPDFURL(_ context.Context, userID, pdfURL string) (*model.Resume, error) {
	r, ok := m.byUser[userID]
	if !ok {
		r = &model.Resume{ID: "resume-" + userID, UserID: userID, CreatedAt: time.Now()}
		m.byUser[userID] = r
	}
	r.PDFURL = pdfURL
	r.UpdatedAt = time.Now()
	result := *r
	return &result, nil
}

// mockFileStore records every Save call; fail makes Save error out.
type mockFileStore struct {
	saved []string
	fail  bool
}

func (m *mockFileStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if m.fail {
		return "", errors.New("store: disk full")
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	m.saved = append(m.saved, name)
	return "http://localhost:8080/uploads/" + name, nil
}

func newTestResumeService(t *testing.T) (*ResumeService, *mockResumeRepo, *mockFileStore) {
	t.Helper()
	repo := newMockResumeRepo()
	files := &mockFileStore{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewResumeService(repo, files, logger), repo, files
}

// =========================================================================
// SAVE
// =========================================================================

func TestResumeSave_RoundTrip(t *testing.T) {
	svc, _, _ := newTestResumeService(t)
	ctx := context.Background()

	data := model.EmptyResumeData()
	data.Name = "Ada Lovelace"
	data.Experience[0].Company = "Analytical Engines Ltd"

	saved, err := svc.Save(ctx, "user-1", data)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := svc.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Data.Name != "Ada Lovelace" {
		t.Errorf("Data.Name = %q, want %q", got.Data.Name, "Ada Lovelace")
	}
	if got.ID != saved.ID {
		t.Errorf("Get() ID = %q, want %q", got.ID, saved.ID)
	}
}

// Saving the same document twice leaves the same stored state: the save is
// a wholesale replace, not a merge.
func TestResumeSave_Idempotent(t *testing.T) {
	svc, _, _ := newTestResumeService(t)
	ctx := context.Background()

	data := model.EmptyResumeData()
	data.Name = "Ada"

	first, err := svc.Save(ctx, "user-1", data)
	if err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	second, err := svc.Save(ctx, "user-1", data)
	if err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	if second.Data.Name != first.Data.Name || second.Data.Version != first.Data.Version {
		t.Error("repeated saves should store identical data")
	}
}

func TestResumeSave_StampsVersion(t *testing.T) {
	svc, _, _ := newTestResumeService(t)

	var data model.ResumeData // version 0, as an old client would send
	saved, err := svc.Save(context.Background(), "user-1", data)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.Data.Version != model.CurrentResumeVersion {
		t.Errorf("Version = %d, want %d", saved.Data.Version, model.CurrentResumeVersion)
	}
}

func TestResumeSave_RejectsUnknownVersion(t *testing.T) {
	svc, _, _ := newTestResumeService(t)

	data := model.EmptyResumeData()
	data.Version = 99

	_, err := svc.Save(context.Background(), "user-1", data)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Save() error = %v, want ErrValidation", err)
	}
}

func TestResumeSave_RejectsInvalidFields(t *testing.T) {
	svc, _, _ := newTestResumeService(t)
	ctx := context.Background()

	badEmail := model.EmptyResumeData()
	badEmail.Email = "not-an-email"
	if _, err := svc.Save(ctx, "user-1", badEmail); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("bad email error = %v, want ErrValidation", err)
	}

	tooLong := model.EmptyResumeData()
	tooLong.Phone = strings.Repeat("9", 51)
	if _, err := svc.Save(ctx, "user-1", tooLong); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("oversized phone error = %v, want ErrValidation", err)
	}
}

func TestResumeGet_NothingSavedYet(t *testing.T) {
	svc, _, _ := newTestResumeService(t)

	_, err := svc.Get(context.Background(), "user-never-saved")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// UPLOAD
// =========================================================================

func TestAttachUpload_StoresAndRecordsURL(t *testing.T) {
	svc, repo, files := newTestResumeService(t)
	ctx := context.Background()

	url, err := svc.AttachUpload(ctx, "user-1", "My Resume.PDF", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("AttachUpload() error = %v", err)
	}
	if url == "" {
		t.Fatal("AttachUpload() returned empty URL")
	}

	if len(files.saved) != 1 {
		t.Fatalf("stored %d files, want 1", len(files.saved))
	}
	name := files.saved[0]
	if !strings.HasPrefix(name, "user-1-") || !strings.HasSuffix(name, ".pdf") {
		t.Errorf("stored name = %q, want user-1-<ts>.pdf", name)
	}

	resume, err := repo.GetByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("resume row not created: %v", err)
	}
	if resume.PDFURL != url {
		t.Errorf("PDFURL = %q, want %q", resume.PDFURL, url)
	}
}

// The extension check must run before any bytes reach the store: a
// rejected file that was already written would leak junk into uploads.
func TestAttachUpload_RejectsNonPDFBeforeStorage(t *testing.T) {
	svc, _, files := newTestResumeService(t)

	for _, name := range []string{"resume.docx", "resume", "resume.pdf.exe", "image.png"} {
		_, err := svc.AttachUpload(context.Background(), "user-1", name, strings.NewReader("data"))
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("AttachUpload(%q) error = %v, want ErrValidation", name, err)
		}
	}

	if len(files.saved) != 0 {
		t.Errorf("store received %d files, want 0", len(files.saved))
	}
}

func TestAttachUpload_StoreFailure(t *testing.T) {
	svc, repo, files := newTestResumeService(t)
	files.fail = true

	_, err := svc.AttachUpload(context.Background(), "user-1", "resume.pdf", strings.NewReader("data"))
	if err == nil {
		t.Fatal("AttachUpload() should surface a store failure")
	}

	// No URL recorded for a file that was never stored.
	if _, err := repo.GetByUserID(context.Background(), "user-1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Error("no resume row should exist after a failed store")
	}
}
