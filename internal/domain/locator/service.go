package locator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, l *LocatorInfo) error {
	if l.StudyIdentifier == "" {
		return fmt.Errorf("study_identifier is required")
	}
	if l.ReportedAt.IsZero() {
		return fmt.Errorf("reported_at is required")
	}
	return s.repo.Create(ctx, l)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*LocatorInfo, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) LatestBySubject(ctx context.Context, studyIdentifier string) (*LocatorInfo, error) {
	return s.repo.LatestBySubject(ctx, studyIdentifier)
}

func (s *Service) ListBySubject(ctx context.Context, studyIdentifier string) ([]*LocatorInfo, error) {
	return s.repo.ListBySubject(ctx, studyIdentifier)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*LocatorInfo, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ChannelsBySubject resolves the latest locator and returns its callable
// channels. ErrNotFound passes through untouched.
func (s *Service) ChannelsBySubject(ctx context.Context, studyIdentifier string) ([]Channel, error) {
	l, err := s.repo.LatestBySubject(ctx, studyIdentifier)
	if err != nil {
		return nil, err
	}
	return AvailableChannels(l), nil
}
