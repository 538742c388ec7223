package booking

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Upsert(ctx context.Context, b *Booking) error {
	if b.StudyIdentifier == "" {
		return fmt.Errorf("study_identifier is required")
	}
	if b.BookingDate.IsZero() {
		return fmt.Errorf("booking_date is required")
	}
	return s.repo.Upsert(ctx, b)
}

func (s *Service) GetBySubject(ctx context.Context, studyIdentifier string) (*Booking, error) {
	return s.repo.GetBySubject(ctx, studyIdentifier)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Booking, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Delete(ctx context.Context, studyIdentifier string) error {
	return s.repo.Delete(ctx, studyIdentifier)
}
