package ports

import (
	"context"

	"github.com/siteforge/intake-system/internal/core/domain"
)

// RequestRepository defines persistence operations for the Request aggregate.
// Counts are recomputed on every call; there is no caching.
type RequestRepository interface {
	// Create persists a new request and returns its id.
	Create(ctx context.Context, r *domain.Request) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Request, error)

	// ListByOwner returns a page of the owner's requests, newest first.
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*domain.Request, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)

	// ListAll is the privileged global listing, newest first. limit <= 0
	// returns everything.
	ListAll(ctx context.Context, offset, limit int) ([]*domain.Request, error)
	CountAll(ctx context.Context) (int64, error)

	// PatchSiteField applies one named edit to the stored site sub-record
	// via domain.SiteSpec.Patch.
	PatchSiteField(ctx context.Context, id, field, raw string) error

	// Delete removes at most one request. With a non-empty scopeOwnerID the
	// delete only matches a request owned by that id; the boolean reports
	// whether a document was actually removed. An empty scopeOwnerID deletes
	// unconditionally (privileged path).
	Delete(ctx context.Context, id, scopeOwnerID string) (bool, error)
}
