package worklist

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// GroupEnsurer guarantees a worker belongs to a named role group, creating
// the membership if needed. A missing group or unknown worker is a
// configuration fault and comes back as an error.
type GroupEnsurer interface {
	EnsureGroupMembership(ctx context.Context, username, group string) error
}

type Service struct {
	repo            Repository
	groups          GroupEnsurer
	assignableGroup string
}

func NewService(repo Repository, groups GroupEnsurer, assignableGroup string) *Service {
	return &Service{
		repo:            repo,
		groups:          groups,
		assignableGroup: assignableGroup,
	}
}

func (s *Service) Create(ctx context.Context, w *WorkItem, createdBy string) error {
	if w.StudyIdentifier == "" {
		return fmt.Errorf("study_identifier is required")
	}
	if w.ReportedAt.IsZero() {
		w.ReportedAt = time.Now()
	}
	if createdBy != "" && s.groups != nil {
		if err := s.groups.EnsureGroupMembership(ctx, createdBy, s.assignableGroup); err != nil {
			return err
		}
	}
	return s.repo.Create(ctx, w)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*WorkItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySubject(ctx context.Context, studyIdentifier string) (*WorkItem, error) {
	return s.repo.GetByStudyIdentifier(ctx, studyIdentifier)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*WorkItem, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// Assign hands out up to count unworked items to the worker, sampling the
// eligible pool uniformly without replacement. A ratio in (0, 1] scales the
// request down, so several cohorts can share a day's capacity. A pool smaller
// than the request is not an error; the whole pool is assigned.
func (s *Service) Assign(ctx context.Context, count int, worker string, ratio float64, prevStudy string) ([]*WorkItem, error) {
	if worker == "" {
		return nil, fmt.Errorf("worker is required")
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive")
	}
	if ratio < 0 || ratio > 1 {
		return nil, fmt.Errorf("ratio must be between 0 and 1")
	}

	pool, err := s.repo.ListAssignable(ctx, prevStudy)
	if err != nil {
		return nil, err
	}

	want := count
	if ratio > 0 {
		want = int(math.Round(float64(count) * ratio))
	}
	if want > len(pool) {
		want = len(pool)
	}
	if want == 0 {
		return nil, nil
	}

	// The package-level Shuffle is safe under concurrent Assign calls.
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	picked := pool[:want]

	today := time.Now().Truncate(24 * time.Hour)
	ids := make([]uuid.UUID, len(picked))
	for i, w := range picked {
		ids[i] = w.ID
		w.Assigned = &worker
		d := today
		w.DateAssigned = &d
	}
	if err := s.repo.AssignMany(ctx, ids, worker, today); err != nil {
		return nil, err
	}
	return picked, nil
}

// ResetAssignments clears the assignment of every item held by the worker.
// The literal "all" clears every assignment in the queue. Running it twice
// is a no-op the second time.
func (s *Service) ResetAssignments(ctx context.Context, worker string) (int64, error) {
	if worker == "" {
		return 0, fmt.Errorf("worker is required")
	}
	if worker == "all" {
		return s.repo.ClearAssignments(ctx, "")
	}
	return s.repo.ClearAssignments(ctx, worker)
}

// Reassign moves all of from's unconsented items to another worker.
func (s *Service) Reassign(ctx context.Context, from, to string) (int64, error) {
	if from == "" || to == "" {
		return 0, fmt.Errorf("both workers are required")
	}
	if from == to {
		return 0, fmt.Errorf("workers must differ")
	}
	today := time.Now().Truncate(24 * time.Hour)
	return s.repo.ReassignAll(ctx, from, to, today)
}

// ReassignOne moves a single subject's item between workers.
func (s *Service) ReassignOne(ctx context.Context, from, to, studyIdentifier string) error {
	if from == "" || to == "" {
		return fmt.Errorf("both workers are required")
	}
	if studyIdentifier == "" {
		return fmt.Errorf("study_identifier is required")
	}
	today := time.Now().Truncate(24 * time.Hour)
	return s.repo.ReassignOne(ctx, from, to, studyIdentifier, today)
}
