package locator

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no locator row matches. Having no locator on
// file is a normal state for a subject, so callers branch on it.
var ErrNotFound = errors.New("locator not found")

type Repository interface {
	Create(ctx context.Context, l *LocatorInfo) error
	GetByID(ctx context.Context, id uuid.UUID) (*LocatorInfo, error)
	// LatestBySubject returns the locator row with the newest reported_at
	// for the subject, or ErrNotFound.
	LatestBySubject(ctx context.Context, studyIdentifier string) (*LocatorInfo, error)
	ListBySubject(ctx context.Context, studyIdentifier string) ([]*LocatorInfo, error)
	List(ctx context.Context, limit, offset int) ([]*LocatorInfo, int, error)
}
