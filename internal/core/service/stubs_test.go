package service

import (
	"context"
	"errors"
	"sort"

	"github.com/siteforge/intake-system/internal/core/domain"
)

// In-memory repositories used across the service tests.

type stubUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.byID {
		if existing.TelegramID == u.TelegramID {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	copied := *u
	copied.ID = userID(r.nextID)
	r.byID[copied.ID] = &copied
	return &copied, nil
}

func (r *stubUserRepo) FindByTelegramID(_ context.Context, tgID int64) (*domain.User, error) {
	for _, u := range r.byID {
		if u.TelegramID == tgID {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func userID(n int) string {
	return "USR-" + string(rune('A'+n-1))
}

type stubRoleRepo struct {
	roles map[int64]string
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[int64]string)}
}

func (r *stubRoleRepo) Get(_ context.Context, tgID int64) (string, error) {
	if role, ok := r.roles[tgID]; ok {
		return role, nil
	}
	return domain.RoleGuest, nil
}

func (r *stubRoleRepo) Set(_ context.Context, tgID int64, role string) error {
	r.roles[tgID] = role
	return nil
}

type stubRequestRepo struct {
	order []string
	byID  map[string]*domain.Request
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{byID: make(map[string]*domain.Request)}
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.Request) (string, error) {
	copied := *req
	r.byID[copied.ID] = &copied
	r.order = append(r.order, copied.ID)
	return copied.ID, nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*domain.Request, error) {
	if req, ok := r.byID[id]; ok {
		copied := *req
		return &copied, nil
	}
	return nil, domain.ErrRequestNotFound
}

func (r *stubRequestRepo) ListByOwner(_ context.Context, ownerID string, offset, limit int) ([]*domain.Request, error) {
	return window(r.matching(ownerID), offset, limit), nil
}

func (r *stubRequestRepo) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	return int64(len(r.matching(ownerID))), nil
}

func (r *stubRequestRepo) ListAll(_ context.Context, offset, limit int) ([]*domain.Request, error) {
	return window(r.matching(""), offset, limit), nil
}

func (r *stubRequestRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *stubRequestRepo) PatchSiteField(_ context.Context, id, field, raw string) error {
	req, ok := r.byID[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	req.Site.Patch(field, raw)
	return nil
}

func (r *stubRequestRepo) Delete(_ context.Context, id, scopeOwnerID string) (bool, error) {
	req, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	if scopeOwnerID != "" && req.ManagerID != scopeOwnerID {
		return false, nil
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *stubRequestRepo) matching(ownerID string) []*domain.Request {
	var out []*domain.Request
	for i := len(r.order) - 1; i >= 0; i-- { // newest first
		req := r.byID[r.order[i]]
		if ownerID == "" || req.ManagerID == ownerID {
			out = append(out, req)
		}
	}
	return out
}

func window(items []*domain.Request, offset, limit int) []*domain.Request {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// stubGenerator records webhook invocations and optionally fails them.
type stubGenerator struct {
	calls int
	last  []byte
	err   error
}

func (g *stubGenerator) GenerateSite(_ context.Context, _ int64, exported []byte) error {
	g.calls++
	g.last = exported
	return g.err
}

var errBackend = errors.New("backend unavailable")
