package ports

import (
	"context"

	"github.com/siteforge/intake-system/internal/core/domain"
)

// CreateRequestInput carries the payload assembled at the intake form's
// terminal step.
type CreateRequestInput struct {
	Actor  Actor
	Client domain.ClientInfo
	Site   domain.SiteSpec
}

// RequestPage is one window of a request listing.
type RequestPage struct {
	Items  []*domain.Request
	Window domain.PageWindow
}

// ExportFile is a serialized export ready to be sent as a document.
type ExportFile struct {
	Name string
	Data []byte
}

// AdminSummary is the admin panel headline: live counts, no caching.
type AdminSummary struct {
	Users    int64
	Requests int64
}

// RequestService covers the role-gated lifecycle of the Request aggregate.
// Every operation consults the capability matrix before touching storage.
type RequestService interface {
	Create(ctx context.Context, in CreateRequestInput) (*domain.Request, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.Request, error)

	ListOwn(ctx context.Context, actor Actor, page int) (*RequestPage, error)
	ListAll(ctx context.Context, actor Actor, page int) (*RequestPage, error)

	PatchField(ctx context.Context, actor Actor, id, field, raw string) error
	Delete(ctx context.Context, actor Actor, id string) error

	// Export serializes one request into its canonical JSON projection.
	Export(ctx context.Context, actor Actor, id string) (*ExportFile, error)
	// ExportAll bundles every request into an in-memory ZIP; admin only.
	ExportAll(ctx context.Context, actor Actor) (*ExportFile, error)

	// GenerateSite exports the request and hands it to the site-generation
	// webhook, best effort: a failure is returned for surfacing as a
	// warning and never mutates stored state.
	GenerateSite(ctx context.Context, actor Actor, id string, chatID int64) error

	Summary(ctx context.Context, actor Actor) (*AdminSummary, error)
}

// SiteGenerator is the optional outbound webhook that turns an exported
// request into a generated site. Implementations are fire-and-forget with a
// fixed timeout.
type SiteGenerator interface {
	GenerateSite(ctx context.Context, chatID int64, exported []byte) error
}
