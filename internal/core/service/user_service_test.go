package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/siteforge/intake-system/internal/core/domain"
	"github.com/siteforge/intake-system/internal/core/ports"
)

const testSecret = "open sesame"

func newTestUserService() (*UserService, *stubUserRepo, *stubRoleRepo) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	return NewUserService(users, roles, testSecret, zerolog.Nop()), users, roles
}

func validRegistration(tgID int64) ports.RegisterInput {
	return ports.RegisterInput{
		TelegramID: tgID,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Age:        36,
		Contact:    "@ada",
	}
}

func TestResolveActorUnknownIdentity(t *testing.T) {
	svc, _, _ := newTestUserService()

	actor, err := svc.ResolveActor(context.Background(), 500)
	if err != nil {
		t.Fatalf("ResolveActor: %v", err)
	}
	if actor.Role != domain.RoleGuest || actor.User != nil {
		t.Errorf("unknown identity = %+v, want guest with no user", actor)
	}
	if actor.UserID() != "" {
		t.Errorf("UserID() = %q, want empty", actor.UserID())
	}
}

func TestRegisterManager(t *testing.T) {
	svc, _, roles := newTestUserService()
	ctx := context.Background()

	user, err := svc.RegisterManager(ctx, validRegistration(500))
	if err != nil {
		t.Fatalf("RegisterManager: %v", err)
	}
	if user.ID == "" {
		t.Error("created user has no id")
	}
	if role, _ := roles.Get(ctx, 500); role != domain.RoleManager {
		t.Errorf("role = %q, want manager", role)
	}
}

func TestRegisterManagerTwice(t *testing.T) {
	svc, _, roles := newTestUserService()
	ctx := context.Background()

	first, err := svc.RegisterManager(ctx, validRegistration(500))
	if err != nil {
		t.Fatalf("first registration: %v", err)
	}

	roles.roles[500] = domain.RoleGuest
	again, err := svc.RegisterManager(ctx, validRegistration(500))
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("second registration err = %v, want ErrUserExists", err)
	}
	if again.ID != first.ID {
		t.Errorf("existing record not returned: %q vs %q", again.ID, first.ID)
	}
	if role, _ := roles.Get(ctx, 500); role != domain.RoleManager {
		t.Errorf("re-registration must restore manager role, got %q", role)
	}
}

func TestRegisterManagerValidation(t *testing.T) {
	svc, _, _ := newTestUserService()

	bad := validRegistration(500)
	bad.Age = 120
	if _, err := svc.RegisterManager(context.Background(), bad); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("age 120 err = %v, want ErrValidation", err)
	}

	bad = validRegistration(500)
	bad.FirstName = ""
	if _, err := svc.RegisterManager(context.Background(), bad); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty first name err = %v, want ErrValidation", err)
	}
}

func TestElevateAdmin(t *testing.T) {
	svc, _, roles := newTestUserService()
	ctx := context.Background()

	if err := svc.ElevateAdmin(ctx, 500, "wrong"); !errors.Is(err, domain.ErrBadSecret) {
		t.Fatalf("wrong secret err = %v, want ErrBadSecret", err)
	}
	if role, _ := roles.Get(ctx, 500); role != domain.RoleGuest {
		t.Errorf("failed elevation changed role to %q", role)
	}

	if err := svc.ElevateAdmin(ctx, 500, testSecret); err != nil {
		t.Fatalf("correct secret: %v", err)
	}
	if role, _ := roles.Get(ctx, 500); role != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", role)
	}
}

func TestElevateAdminTrimsInput(t *testing.T) {
	svc, _, _ := newTestUserService()
	if err := svc.ElevateAdmin(context.Background(), 500, "  "+testSecret+"  "); err != nil {
		t.Errorf("padded secret rejected: %v", err)
	}
}

func TestElevateAdminBcryptSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(testSecret), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewUserService(newStubUserRepo(), newStubRoleRepo(), string(hash), zerolog.Nop())

	if err := svc.ElevateAdmin(context.Background(), 500, testSecret); err != nil {
		t.Errorf("bcrypt secret rejected matching password: %v", err)
	}
	if err := svc.ElevateAdmin(context.Background(), 500, "wrong"); !errors.Is(err, domain.ErrBadSecret) {
		t.Errorf("bcrypt secret accepted wrong password: %v", err)
	}
}

func TestLogoutRevertsToManager(t *testing.T) {
	svc, _, roles := newTestUserService()
	ctx := context.Background()

	if err := svc.ElevateAdmin(ctx, 500, testSecret); err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx, 500); err != nil {
		t.Fatal(err)
	}
	if role, _ := roles.Get(ctx, 500); role != domain.RoleManager {
		t.Errorf("role after logout = %q, want manager (never guest)", role)
	}
}

func TestNormalizeRole(t *testing.T) {
	svc, _, roles := newTestUserService()
	ctx := context.Background()

	// Unregistered identities stay guests.
	role, err := svc.NormalizeRole(ctx, 500)
	if err != nil || role != domain.RoleGuest {
		t.Errorf("unregistered normalize = %q, %v", role, err)
	}

	if _, err := svc.RegisterManager(ctx, validRegistration(500)); err != nil {
		t.Fatal(err)
	}

	// Admins keep their elevation.
	roles.roles[500] = domain.RoleAdmin
	if role, _ = svc.NormalizeRole(ctx, 500); role != domain.RoleAdmin {
		t.Errorf("admin normalize = %q, want admin", role)
	}

	// Any stale non-admin role snaps back to manager.
	roles.roles[500] = domain.RoleGuest
	if role, _ = svc.NormalizeRole(ctx, 500); role != domain.RoleManager {
		t.Errorf("registered normalize = %q, want manager", role)
	}
}

func TestListUsersRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	if _, err := svc.RegisterManager(ctx, validRegistration(500)); err != nil {
		t.Fatal(err)
	}

	_, err := svc.ListUsers(ctx, ports.Actor{TelegramID: 500, Role: domain.RoleManager})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("manager listing users err = %v, want ErrForbidden", err)
	}

	users, err := svc.ListUsers(ctx, ports.Actor{TelegramID: 1, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("admin listing users: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("len(users) = %d, want 1", len(users))
	}
}
