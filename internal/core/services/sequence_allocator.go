package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
)

// sequenceAllocator formats atomic per-organization counters as document numbers.
type sequenceAllocator struct {
	repo portsrepo.SequenceRepository
}

func newSequenceAllocator(repo portsrepo.SequenceRepository) *sequenceAllocator {
	return &sequenceAllocator{repo: repo}
}

// Next returns the next number of kind for the organization, e.g. BTX-000042.
func (a *sequenceAllocator) Next(ctx context.Context, orgID string, kind domain.SequenceKind) (string, error) {
	n, err := a.repo.NextValue(ctx, orgID, kind)
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s number: %w", kind, err)
	}
	return domain.FormatSequenceNumber(kind, n)
}
