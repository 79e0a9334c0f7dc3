package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/careercraft/internal/apperror"
	"github.com/sakif/careercraft/internal/model"
	"github.com/sakif/careercraft/internal/repository"
	"github.com/sakif/careercraft/internal/storage"
)

// MaxUploadBytes bounds the size of an uploaded resume PDF.
const MaxUploadBytes = 10 << 20 // 10 MiB

// ResumeService handles the one-document-per-user resume lifecycle:
// load, whole-blob save, and PDF upload.
type ResumeService struct {
	resumes  repository.ResumeRepository
	files    storage.FileStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewResumeService creates a ResumeService.
func NewResumeService(resumes repository.ResumeRepository, files storage.FileStore, logger *slog.Logger) *ResumeService {
	return &ResumeService{
		resumes:  resumes,
		files:    files,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Get returns the caller's resume. Callers should treat
// apperror.ErrNotFound as "nothing saved yet", not as a failure — the
// handler responds with an empty placeholder in that case.
func (s *ResumeService) Get(ctx context.Context, userID string) (*model.Resume, error) {
	return s.resumes.GetByUserID(ctx, userID)
}

// Save validates the document and upserts it wholesale.
//
// The schema is versioned: documents arriving without a version (older
// clients) are stamped with the current one. There is no merging — the
// stored blob after Save is exactly what was passed in, which is what makes
// the operation idempotent.
func (s *ResumeService) Save(ctx context.Context, userID string, data model.ResumeData) (*model.Resume, error) {
	if data.Version == 0 {
		data.Version = model.CurrentResumeVersion
	}
	if data.Version != model.CurrentResumeVersion {
		return nil, apperror.ValidationFailed("version",
			fmt.Sprintf("unsupported resume schema version %d", data.Version))
	}

	if err := s.validate.Struct(data); err != nil {
		// Report the first offending field, the way the form surfaces it.
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			f := verrs[0]
			return nil, apperror.ValidationFailed(f.Field(),
				fmt.Sprintf("invalid resume field %s", f.Namespace()))
		}
		return nil, apperror.ValidationFailed("data", "invalid resume data")
	}

	resume, err := s.resumes.UpsertData(ctx, userID, data)
	if err != nil {
		s.logger.Error("failed to save resume",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("saving resume: %w", err)
	}

	s.logger.Info("resume saved",
		slog.String("userID", userID),
		slog.String("resumeID", resume.ID),
	)

	return resume, nil
}

// AttachUpload stores an uploaded PDF and records its URL on the resume.
//
// Only ".pdf" names are accepted, and the check happens before a single
// byte reaches the file store. The stored name is
// "<userID>-<unix milliseconds>.pdf" — namespaced per user and
// collision-free for concurrent uploads, though only the newest URL is
// retained on the resume.
func (s *ResumeService) AttachUpload(ctx context.Context, userID, filename string, file io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		return "", apperror.ValidationFailed("resume", "only PDF files are allowed")
	}

	name := fmt.Sprintf("%s-%d%s", userID, time.Now().UnixMilli(), ext)
	url, err := s.files.Save(ctx, name, io.LimitReader(file, MaxUploadBytes))
	if err != nil {
		s.logger.Error("failed to store uploaded resume",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("storing upload: %w", err)
	}

	if _, err := s.resumes.SetPDFURL(ctx, userID, url); err != nil {
		s.logger.Error("failed to record pdf url",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("recording pdf url: %w", err)
	}

	s.logger.Info("resume pdf uploaded",
		slog.String("userID", userID),
		slog.String("url", url),
	)

	return url, nil
}
