package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/siteforge/intake-system/internal/core/domain"
	"github.com/siteforge/intake-system/internal/core/ports"
	"github.com/siteforge/intake-system/internal/export"
	"github.com/siteforge/intake-system/internal/metrics"
)

// RequestService implements the role-gated lifecycle of the Request
// aggregate. The capability matrix is evaluated before every restricted
// read or mutation.
type RequestService struct {
	repo      ports.RequestRepository
	users     ports.UserRepository
	generator ports.SiteGenerator // nil when the webhook is not configured
	policy    domain.AccessPolicy
	log       zerolog.Logger
}

func NewRequestService(repo ports.RequestRepository, users ports.UserRepository, generator ports.SiteGenerator, log zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, users: users, generator: generator, log: log}
}

// Create persists the payload assembled at the intake form's terminal step.
// The owner must be a registered user holding the manager or admin role.
func (s *RequestService) Create(ctx context.Context, in ports.CreateRequestInput) (*domain.Request, error) {
	if in.Actor.User == nil {
		return nil, domain.ErrNotRegistered
	}
	if in.Actor.Role != domain.RoleManager && in.Actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	req := &domain.Request{
		ID:        generateRequestID(),
		ManagerID: in.Actor.User.ID,
		Client:    in.Client,
		Site:      in.Site,
		Status:    domain.StatusNew,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.repo.Create(ctx, req); err != nil {
		s.log.Error().Err(err).Str("manager_id", req.ManagerID).Msg("failed to create request")
		return nil, fmt.Errorf("create request: %w", err)
	}

	metrics.RequestsCreatedTotal.Inc()
	s.log.Info().Str("request_id", req.ID).Str("manager_id", req.ManagerID).Msg("request created")
	return req, nil
}

// Get fetches a request after checking read capability against ownership.
func (s *RequestService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.Request, error) {
	return s.authorized(ctx, actor, id, domain.ActionReadRequest)
}

// ListOwn returns one page of the actor's own requests (page size 10).
func (s *RequestService) ListOwn(ctx context.Context, actor ports.Actor, page int) (*ports.RequestPage, error) {
	if actor.User == nil {
		return nil, domain.ErrNotRegistered
	}
	if !s.policy.Can(actor.Role, domain.ActionListOwn, true) {
		return nil, domain.ErrForbidden
	}

	total, err := s.repo.CountByOwner(ctx, actor.User.ID)
	if err != nil {
		return nil, fmt.Errorf("count own requests: %w", err)
	}
	window := domain.NewPageWindow(total, page, domain.OwnerPageSize)

	items, err := s.repo.ListByOwner(ctx, actor.User.ID, window.Offset(), window.Size)
	if err != nil {
		return nil, fmt.Errorf("list own requests: %w", err)
	}
	return &ports.RequestPage{Items: items, Window: window}, nil
}

// ListAll returns one page of the global request list (page size 20, admin only).
func (s *RequestService) ListAll(ctx context.Context, actor ports.Actor, page int) (*ports.RequestPage, error) {
	if !s.policy.Can(actor.Role, domain.ActionListAll, false) {
		return nil, domain.ErrForbidden
	}

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}
	window := domain.NewPageWindow(total, page, domain.GlobalPageSize)

	items, err := s.repo.ListAll(ctx, window.Offset(), window.Size)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return &ports.RequestPage{Items: items, Window: window}, nil
}

// PatchField applies a single named edit to the site sub-record.
func (s *RequestService) PatchField(ctx context.Context, actor ports.Actor, id, field, raw string) error {
	if _, err := s.authorized(ctx, actor, id, domain.ActionEditRequest); err != nil {
		return err
	}
	if err := s.repo.PatchSiteField(ctx, id, field, raw); err != nil {
		return fmt.Errorf("patch %s: %w", field, err)
	}
	s.log.Info().Str("request_id", id).Str("field", field).Msg("request field patched")
	return nil
}

// Delete physically removes a request. Owners delete through the scoped
// path; admins delete unconditionally. Never removes more than one document.
func (s *RequestService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	req, err := s.authorized(ctx, actor, id, domain.ActionDeleteRequest)
	if err != nil {
		return err
	}

	scope := ""
	if actor.Role != domain.RoleAdmin {
		scope = actor.UserID()
	}
	removed, err := s.repo.Delete(ctx, req.ID, scope)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if !removed {
		return domain.ErrRequestNotFound
	}
	s.log.Info().Str("request_id", id).Str("by", actor.Role).Msg("request deleted")
	return nil
}

// Export serializes one request into its canonical JSON projection.
func (s *RequestService) Export(ctx context.Context, actor ports.Actor, id string) (*ports.ExportFile, error) {
	req, err := s.authorized(ctx, actor, id, domain.ActionExportRequest)
	if err != nil {
		return nil, err
	}
	data, err := export.Single(req)
	if err != nil {
		return nil, fmt.Errorf("export request: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues("single").Inc()
	return &ports.ExportFile{Name: export.FileName(req.ID), Data: data}, nil
}

// ExportAll bundles every request into an in-memory ZIP; admin only.
func (s *RequestService) ExportAll(ctx context.Context, actor ports.Actor) (*ports.ExportFile, error) {
	if !s.policy.Can(actor.Role, domain.ActionListAll, false) {
		return nil, domain.ErrForbidden
	}

	all, err := s.repo.ListAll(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("export all: %w", err)
	}
	if len(all) == 0 {
		return nil, domain.ErrRequestNotFound
	}
	data, err := export.Archive(all)
	if err != nil {
		return nil, fmt.Errorf("export all: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues("bulk").Inc()
	return &ports.ExportFile{Name: export.ArchiveName, Data: data}, nil
}

// GenerateSite exports the request and hands it to the site-generation
// webhook. Best effort: the request stays persisted exactly as-is whatever
// the webhook does, and the returned error is only surfaced as a warning.
func (s *RequestService) GenerateSite(ctx context.Context, actor ports.Actor, id string, chatID int64) error {
	file, err := s.Export(ctx, actor, id)
	if err != nil {
		return err
	}
	if s.generator == nil {
		return fmt.Errorf("site generation webhook not configured")
	}
	if err := s.generator.GenerateSite(ctx, chatID, file.Data); err != nil {
		metrics.WebhookTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("request_id", id).Msg("site generation webhook failed")
		return fmt.Errorf("site generation: %w", err)
	}
	metrics.WebhookTotal.WithLabelValues("ok").Inc()
	return nil
}

// Summary returns the admin panel's live counts.
func (s *RequestService) Summary(ctx context.Context, actor ports.Actor) (*ports.AdminSummary, error) {
	if !s.policy.Can(actor.Role, domain.ActionListUsers, false) {
		return nil, domain.ErrForbidden
	}
	users, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	requests, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}
	return &ports.AdminSummary{Users: users, Requests: requests}, nil
}

// authorized fetches the request and checks the capability matrix against
// the actor's ownership of it.
func (s *RequestService) authorized(ctx context.Context, actor ports.Actor, id string, action domain.Action) (*domain.Request, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	isOwner := actor.UserID() != "" && req.ManagerID == actor.UserID()
	if !s.policy.Can(actor.Role, action, isOwner) {
		return nil, domain.ErrForbidden
	}
	return req, nil
}

// generateRequestID returns a unique request id in the format REQ-XXXXXXXX.
func generateRequestID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("REQ-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("REQ-%08X", b)
}
