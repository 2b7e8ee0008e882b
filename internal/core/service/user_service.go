package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/siteforge/intake-system/internal/core/domain"
	"github.com/siteforge/intake-system/internal/core/ports"
)

// UserService implements registration, role resolution, and admin elevation.
type UserService struct {
	users       ports.UserRepository
	roles       ports.RoleRepository
	adminSecret string
	validate    *validator.Validate
	log         zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, adminSecret string, log zerolog.Logger) *UserService {
	return &UserService{
		users:       users,
		roles:       roles,
		adminSecret: adminSecret,
		validate:    validator.New(),
		log:         log,
	}
}

// ResolveActor looks up the stored role and profile for an inbound identity.
// Unknown identities resolve to a guest actor with no user record.
func (s *UserService) ResolveActor(ctx context.Context, tgID int64) (*ports.Actor, error) {
	role, err := s.roles.Get(ctx, tgID)
	if err != nil {
		return nil, fmt.Errorf("resolve role: %w", err)
	}

	user, err := s.users.FindByTelegramID(ctx, tgID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	return &ports.Actor{TelegramID: tgID, Role: role, User: user}, nil
}

// RegisterManager validates the buffered profile, creates the user, and
// grants the manager role. An already-registered identity is switched back
// to manager and reported via domain.ErrUserExists.
func (s *UserService) RegisterManager(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	if existing, err := s.users.FindByTelegramID(ctx, in.TelegramID); err == nil && existing != nil {
		if err := s.roles.Set(ctx, in.TelegramID, domain.RoleManager); err != nil {
			return nil, fmt.Errorf("restore manager role: %w", err)
		}
		return existing, domain.ErrUserExists
	}

	user := &domain.User{
		TelegramID: in.TelegramID,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Age:        in.Age,
		Contact:    strings.TrimSpace(in.Contact),
		CreatedAt:  time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.roles.Set(ctx, in.TelegramID, domain.RoleManager); err != nil {
		return nil, fmt.Errorf("grant manager role: %w", err)
	}

	s.log.Info().Int64("tg_id", in.TelegramID).Str("user_id", created.ID).Msg("manager registered")
	return created, nil
}

// NormalizeRole switches a registered, non-admin identity to manager and
// returns the effective role. Unregistered identities stay guests.
func (s *UserService) NormalizeRole(ctx context.Context, tgID int64) (string, error) {
	actor, err := s.ResolveActor(ctx, tgID)
	if err != nil {
		return "", err
	}
	if actor.User == nil || actor.Role == domain.RoleAdmin {
		return actor.Role, nil
	}
	if err := s.roles.Set(ctx, tgID, domain.RoleManager); err != nil {
		return "", fmt.Errorf("normalize role: %w", err)
	}
	return domain.RoleManager, nil
}

// ElevateAdmin compares the supplied text against the process-wide secret.
// The stored secret may be a bcrypt hash; plain secrets are compared in
// constant time. No attempt counter, no lockout, no expiry.
func (s *UserService) ElevateAdmin(ctx context.Context, tgID int64, secret string) error {
	if !s.secretMatches(strings.TrimSpace(secret)) {
		s.log.Warn().Int64("tg_id", tgID).Msg("admin elevation rejected")
		return domain.ErrBadSecret
	}
	if err := s.roles.Set(ctx, tgID, domain.RoleAdmin); err != nil {
		return fmt.Errorf("grant admin role: %w", err)
	}
	s.log.Info().Int64("tg_id", tgID).Msg("admin elevated")
	return nil
}

func (s *UserService) secretMatches(supplied string) bool {
	if strings.HasPrefix(s.adminSecret, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(s.adminSecret), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.adminSecret), []byte(supplied)) == 1
}

// Logout reverts the identity to manager, never to guest.
func (s *UserService) Logout(ctx context.Context, tgID int64) error {
	if err := s.roles.Set(ctx, tgID, domain.RoleManager); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// SetRole stores an explicit role.
func (s *UserService) SetRole(ctx context.Context, tgID int64, role string) error {
	return s.roles.Set(ctx, tgID, role)
}

// ListUsers returns all registered users; the capability matrix restricts
// this to admins.
func (s *UserService) ListUsers(ctx context.Context, actor ports.Actor) ([]*domain.User, error) {
	var policy domain.AccessPolicy
	if !policy.Can(actor.Role, domain.ActionListUsers, false) {
		return nil, domain.ErrForbidden
	}
	return s.users.ListAll(ctx)
}

// FindUser resolves a user record by its persistent id.
func (s *UserService) FindUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}
