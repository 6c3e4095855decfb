package ports

import (
	"context"

	"github.com/isukupay/waste-platform/internal/core/domain"
)

// AuditRepository persists and queries audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	// List returns entries newest-first, capped at limit. An empty userEmail
	// matches all accounts.
	List(ctx context.Context, userEmail string, limit int64) ([]domain.AuditEntry, error)
}

// AuditRecorder accepts audit entries for (possibly asynchronous) recording.
// Implementations must never block the auth path on persistence.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}
