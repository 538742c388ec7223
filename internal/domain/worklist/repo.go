package worklist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("work item not found")

type Repository interface {
	Create(ctx context.Context, w *WorkItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*WorkItem, error)
	GetByStudyIdentifier(ctx context.Context, studyIdentifier string) (*WorkItem, error)
	Update(ctx context.Context, w *WorkItem) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*WorkItem, int, error)

	// ListAssignable returns the unassigned, uncalled, unconsented items,
	// optionally filtered by source cohort.
	ListAssignable(ctx context.Context, prevStudy string) ([]*WorkItem, error)
	// AssignMany stamps the worker and assignment date on the given items.
	AssignMany(ctx context.Context, ids []uuid.UUID, worker string, date time.Time) error
	// ClearAssignments removes the assignment from all items held by the
	// worker; an empty worker clears every assignment. Returns rows affected.
	ClearAssignments(ctx context.Context, worker string) (int64, error)
	// ReassignAll moves every unconsented item from one worker to another,
	// restamping the assignment date. Returns rows affected.
	ReassignAll(ctx context.Context, from, to string, date time.Time) (int64, error)
	// ReassignOne moves a single item identified by subject.
	ReassignOne(ctx context.Context, from, to, studyIdentifier string, date time.Time) error
}

// ListFilter narrows the work queue listing.
type ListFilter struct {
	Assigned  string
	PrevStudy string
	IsCalled  *bool
	Visited   *bool
	Consented *bool
}
