package booking

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("booking not found")

type Repository interface {
	// Upsert inserts the booking or refreshes the existing row for the
	// subject. The subject never ends up with more than one booking.
	Upsert(ctx context.Context, b *Booking) error
	GetBySubject(ctx context.Context, studyIdentifier string) (*Booking, error)
	List(ctx context.Context, limit, offset int) ([]*Booking, int, error)
	Delete(ctx context.Context, studyIdentifier string) error
}
