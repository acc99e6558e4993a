package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrQuotaExceeded is returned when inserting a resume would exceed the owner's quota.
var ErrQuotaExceeded = errors.New("resume quota exceeded")

const resumeColumns = `id, user_id, title, template_id, content, created_at, updated_at`

// CreateResume inserts a resume. A non-negative quota caps how many resumes
// the owner may have; the count and insert run in one transaction with the
// owner row locked so concurrent inserts cannot both pass the check.
func (db *DB) CreateResume(ctx context.Context, input ResumeInput, quota int) (*Resume, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if quota >= 0 {
		var locked uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, input.UserID).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("user not found: %s", input.UserID)
			}
			return nil, fmt.Errorf("failed to lock user: %w", err)
		}
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM resumes WHERE user_id = $1`, input.UserID).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count resumes: %w", err)
		}
		if count >= quota {
			return nil, ErrQuotaExceeded
		}
	}

	var r Resume
	err = tx.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, template_id, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+resumeColumns,
		input.UserID, input.Title, input.TemplateID, ResumeContent(input.Content),
	).Scan(&r.ID, &r.UserID, &r.Title, &r.TemplateID, &r.Content, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit resume: %w", err)
	}
	return &r, nil
}

// GetResume retrieves a resume owned by userID. Returns nil, nil when not found.
func (db *DB) GetResume(ctx context.Context, id, userID uuid.UUID) (*Resume, error) {
	var r Resume
	err := db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&r.ID, &r.UserID, &r.Title, &r.TemplateID, &r.Content, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &r, nil
}

// ListResumesByUser lists every resume of a user, most recently updated first
func (db *DB) ListResumesByUser(ctx context.Context, userID uuid.UUID) ([]ResumeSummary, error) {
	return db.listResumes(ctx,
		`SELECT id, title, template_id, created_at, updated_at
		 FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
}

// ListRecentResumes lists the n most recently updated resumes of a user
func (db *DB) ListRecentResumes(ctx context.Context, userID uuid.UUID, n int) ([]ResumeSummary, error) {
	if n <= 0 {
		return []ResumeSummary{}, nil
	}
	return db.listResumes(ctx,
		`SELECT id, title, template_id, created_at, updated_at
		 FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2`,
		userID, n,
	)
}

func (db *DB) listResumes(ctx context.Context, query string, args ...any) ([]ResumeSummary, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []ResumeSummary{}
	for rows.Next() {
		var r ResumeSummary
		if err := rows.Scan(&r.ID, &r.Title, &r.TemplateID, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// CountResumesByUser counts the resumes of a user
func (db *DB) CountResumesByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM resumes WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count resumes: %w", err)
	}
	return count, nil
}

// DeleteResume deletes a resume owned by userID. It reports whether a row was removed.
func (db *DB) DeleteResume(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
