package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/careercraft/internal/apperror"
	"github.com/sakif/careercraft/internal/model"
	"github.com/sakif/careercraft/internal/repository"
)

// compile-time check that *DB implements repository.ResumeRepository
var _ repository.ResumeRepository = (*DB)(nil)

// GetByUserID retrieves the resume owned by userID.
// Returns apperror.ErrNotFound if the user has never saved one.
func (db *DB) GetByUserID(ctx context.Context, userID string) (*model.Resume, error) {
	var r model.Resume
	var raw string

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, data, pdf_url, created_at, updated_at
		 FROM resumes WHERE user_id = ?`,
		userID,
	).Scan(&r.ID, &r.UserID, &raw, &r.PDFURL, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("resume")
		}
		return nil, fmt.Errorf("sqlite: getting resume for user %s: %w", userID, err)
	}

	if err := json.Unmarshal([]byte(raw), &r.Data); err != nil {
		return nil, fmt.Errorf("sqlite: decoding resume data for user %s: %w", userID, err)
	}

	return &r, nil
}

// UpsertData replaces the resume document for userID wholesale, creating
// the row on first save.
//
// ON CONFLICT(user_id) keys the upsert on the unique owner column and runs
// as one atomic statement, which is exactly the last-write-wins contract:
// concurrent saves do not interleave, the later one simply wins. The
// existing id, pdf_url and created_at survive an update.
func (db *DB) UpsertData(ctx context.Context, userID string, data model.ResumeData) (*model.Resume, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encoding resume data: %w", err)
	}

	now := time.Now()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO resumes (id, user_id, data, pdf_url, created_at, updated_at)
		 VALUES (?, ?, ?, '', ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		     data = excluded.data,
		     updated_at = excluded.updated_at`,
		xid.New().String(), userID, string(raw), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: upserting resume for user %s: %w", userID, err)
	}

	// Read the canonical row back so the caller gets the real id and
	// created_at regardless of which branch the upsert took.
	return db.GetByUserID(ctx, userID)
}

// SetPDFURL records the exported file's URL on the resume, creating the row
// if the user uploads before ever saving data.
func (db *DB) SetPDFURL(ctx context.Context, userID, pdfURL string) (*model.Resume, error) {
	now := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO resumes (id, user_id, data, pdf_url, created_at, updated_at)
		 VALUES (?, ?, '{}', ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		     pdf_url = excluded.pdf_url,
		     updated_at = excluded.updated_at`,
		xid.New().String(), userID, pdfURL, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: setting pdf url for user %s: %w", userID, err)
	}

	return db.GetByUserID(ctx, userID)
}
