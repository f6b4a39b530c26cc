package repositories

import (
	"context"

	"github.com/SscSPs/smb_books/internal/core/domain"
)

// SequenceRepository hands out per-organization counters.
type SequenceRepository interface {
	// NextValue atomically increments and returns the counter, starting at 1.
	NextValue(ctx context.Context, orgID string, kind domain.SequenceKind) (int64, error)
}
