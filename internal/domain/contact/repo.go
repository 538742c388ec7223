package contact

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("contact record not found")

// Repository stores call log entries and in-person attempts. Both sets are
// append-only; there is deliberately no update or delete.
type Repository interface {
	CreateEntry(ctx context.Context, e *CallLogEntry) error
	GetEntry(ctx context.Context, id uuid.UUID) (*CallLogEntry, error)
	ListEntriesBySubject(ctx context.Context, studyIdentifier string) ([]*CallLogEntry, error)
	ListEntries(ctx context.Context, limit, offset int) ([]*CallLogEntry, int, error)

	CreateAttempt(ctx context.Context, a *InPersonContactAttempt) error
	ListAttemptsBySubject(ctx context.Context, studyIdentifier string) ([]*InPersonContactAttempt, error)
}
