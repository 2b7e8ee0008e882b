package ports

import (
	"context"

	"github.com/siteforge/intake-system/internal/core/domain"
)

// UserRepository defines persistence operations for registered users.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByTelegramID(ctx context.Context, tgID int64) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// ListAll returns every registered user, newest first.
	ListAll(ctx context.Context) ([]*domain.User, error)
	CountAll(ctx context.Context) (int64, error)
}

// RoleRepository stores the per-identity role. Identities without a stored
// role are guests; the role persists across process restarts so an elevated
// admin stays elevated until an explicit logout.
type RoleRepository interface {
	// Get returns the stored role, or domain.RoleGuest when none is stored.
	Get(ctx context.Context, tgID int64) (string, error)
	Set(ctx context.Context, tgID int64, role string) error
}
