package identity

import (
	"context"
	"errors"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateWorker(ctx context.Context, w *Worker) error {
	if w.Username == "" {
		return fmt.Errorf("username is required")
	}
	return s.repo.CreateWorker(ctx, w)
}

func (s *Service) GetWorker(ctx context.Context, username string) (*Worker, error) {
	return s.repo.GetWorkerByUsername(ctx, username)
}

func (s *Service) ListWorkers(ctx context.Context, limit, offset int) ([]*Worker, int, error) {
	return s.repo.ListWorkers(ctx, limit, offset)
}

func (s *Service) ListGroupMembers(ctx context.Context, groupName string) ([]*Worker, error) {
	return s.repo.ListGroupMembers(ctx, groupName)
}

// EnsureGroupMembership puts the worker in the named group, creating the
// membership if it does not exist. The group itself must already be
// provisioned: a missing group surfaces as ErrGroupMissing and an unknown
// username as ErrUnknownWorker. Both mean the deployment is misconfigured,
// so callers propagate rather than swallow them.
func (s *Service) EnsureGroupMembership(ctx context.Context, username, group string) error {
	g, err := s.repo.GetGroupByName(ctx, group)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrGroupMissing, group)
	}
	if err != nil {
		return err
	}
	w, err := s.repo.GetWorkerByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownWorker, username)
	}
	if err != nil {
		return err
	}
	return s.repo.AddMembership(ctx, w.ID, g.ID)
}
