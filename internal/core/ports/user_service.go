package ports

import (
	"context"

	"github.com/siteforge/intake-system/internal/core/domain"
)

// RegisterInput carries the buffered registration form fields.
type RegisterInput struct {
	TelegramID int64  `validate:"required"`
	FirstName  string `validate:"required"`
	LastName   string `validate:"required"`
	Age        int    `validate:"gt=0,lt=120"`
	Contact    string `validate:"required"`
}

// Actor is the resolved caller of a service operation: role plus the
// registered user record when one exists.
type Actor struct {
	TelegramID int64
	Role       string
	User       *domain.User // nil for unregistered identities
}

// UserID returns the actor's persistent user id, or "" when unregistered.
func (a Actor) UserID() string {
	if a.User == nil {
		return ""
	}
	return a.User.ID
}

// UserService covers registration, role resolution, and admin elevation.
type UserService interface {
	// ResolveActor looks up role and profile for an inbound identity.
	ResolveActor(ctx context.Context, tgID int64) (*Actor, error)

	// RegisterManager creates the user and grants the manager role.
	// Returns domain.ErrUserExists when the identity is already registered.
	RegisterManager(ctx context.Context, in RegisterInput) (*domain.User, error)

	// NormalizeRole promotes a registered identity that is not currently
	// admin back to manager (the /start behavior).
	NormalizeRole(ctx context.Context, tgID int64) (string, error)

	// ElevateAdmin grants admin when the supplied secret matches the
	// configured one; domain.ErrBadSecret otherwise. The elevated role
	// persists until Logout.
	ElevateAdmin(ctx context.Context, tgID int64, secret string) error

	// Logout reverts the identity to manager, never to guest.
	Logout(ctx context.Context, tgID int64) error

	// SetRole stores an explicit role (used when a form exit resets the
	// role context to manager).
	SetRole(ctx context.Context, tgID int64, role string) error

	// ListUsers returns all registered users; admin only.
	ListUsers(ctx context.Context, actor Actor) ([]*domain.User, error)

	// FindUser resolves a user record by its persistent id.
	FindUser(ctx context.Context, id string) (*domain.User, error)
}
