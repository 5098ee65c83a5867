package ports

import (
	"context"

	"github.com/filmfest/catalog-api/internal/core/domain"
)

// AuditRepository appends security audit events. Writes are fire-and-forget
// from the caller's perspective; the queue dispatcher owns retries/logging.
type AuditRepository interface {
	Insert(ctx context.Context, ev *domain.AuditEvent) error
}
