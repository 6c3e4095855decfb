package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/isukupay/waste-platform/internal/core/domain"
	"github.com/isukupay/waste-platform/internal/core/ports"
)

// AuditService persists audit entries handed over by the queue dispatcher.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Process stamps and persists a single audit entry.
func (s *AuditService) Process(ctx context.Context, entry domain.AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Insert(ctx, &entry); err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}

	s.log.Debug().
		Str("action", entry.Action).
		Str("user_email", entry.UserEmail).
		Msg("audit entry recorded")

	return nil
}
