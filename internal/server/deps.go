package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
)

// DBClient is the persistence the server needs. *db.DB satisfies it.
type DBClient interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, name, email string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CheckEmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	UpdateUserProfile(ctx context.Context, id uuid.UUID, name, email string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	CreateResume(ctx context.Context, input db.ResumeInput, quota int) (*db.Resume, error)
	GetResume(ctx context.Context, id, userID uuid.UUID) (*db.Resume, error)
	ListResumesByUser(ctx context.Context, userID uuid.UUID) ([]db.ResumeSummary, error)
	ListRecentResumes(ctx context.Context, userID uuid.UUID, n int) ([]db.ResumeSummary, error)
	CountResumesByUser(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteResume(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

var _ DBClient = (*db.DB)(nil)

// PDFExporter prints export HTML to PDF. *rendering.PDFRenderer satisfies it.
type PDFExporter interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// toAPIUser converts db.User to types.User, excluding the password hash.
func toAPIUser(u *db.User) *types.User {
	if u == nil {
		return nil
	}
	return &types.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		AccountTier: u.AccountTier,
		PasswordSet: u.PasswordSet,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
