package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/careercraft/internal/apperror"
	"github.com/sakif/careercraft/internal/auth"
	"github.com/sakif/careercraft/internal/model"
	"github.com/sakif/careercraft/internal/service"
)

// ResumeHandler serves the single-resume-per-user endpoints: fetch, save
// and PDF upload. All routes sit behind RequireAuth.
type ResumeHandler struct {
	svc    *service.ResumeService
	logger *slog.Logger
}

func NewResumeHandler(svc *service.ResumeService, logger *slog.Logger) *ResumeHandler {
	return &ResumeHandler{svc: svc, logger: logger}
}

// resumeEnvelope wraps resume payloads so a missing resume can be
// expressed as {"data": {}} without inventing a fake row.
type resumeEnvelope struct {
	Data   any    `json:"data"`
	PDFURL string `json:"pdf_url,omitempty"`
}

// HandleGet returns the caller's resume.
//
// HTTP: GET /api/resume
// A user who has never saved gets 200 {"data": {}} rather than a 404, so
// the editor can always start from the response body.
func (h *ResumeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	resume, err := h.svc.Get(r.Context(), userID)
	if errors.Is(err, apperror.ErrNotFound) {
		writeJSON(w, http.StatusOK, resumeEnvelope{Data: struct{}{}})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resumeEnvelope{Data: resume.Data, PDFURL: resume.PDFURL})
}

// HandleSave upserts the caller's resume data.
//
// HTTP: POST /api/resume (PUT accepted as an alias)
// Body: {"data": <ResumeData>}. Unknown fields are rejected so a typo in
// the client cannot silently drop a section.
func (h *ResumeHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req struct {
		Data model.ResumeData `json:"data"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid resume payload: " + err.Error()})
		return
	}

	resume, err := h.svc.Save(r.Context(), userID, req.Data)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resumeEnvelope{Data: resume.Data, PDFURL: resume.PDFURL})
}

// HandleUpload accepts a PDF under the multipart field "resume", stores it
// and records the resulting URL on the caller's resume.
//
// HTTP: POST /api/resume/upload
// Response: {"pdf_url": "..."}
func (h *ResumeHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadBytes)
	if err := r.ParseMultipartForm(service.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid multipart form or file too large"})
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: `file field "resume" is required`})
		return
	}
	defer file.Close()

	url, err := h.svc.AttachUpload(r.Context(), userID, header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("resume uploaded",
		slog.String("userID", userID),
		slog.String("filename", header.Filename))

	writeJSON(w, http.StatusOK, map[string]string{"pdf_url": url})
}
