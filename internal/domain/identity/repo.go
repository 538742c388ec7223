package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrGroupMissing means a role group the system depends on has not been
	// provisioned. This is a deployment fault, not a user error.
	ErrGroupMissing = errors.New("role group not provisioned")
	// ErrUnknownWorker means an operation referenced a username with no
	// worker record behind it.
	ErrUnknownWorker = errors.New("unknown worker")
)

type Repository interface {
	CreateWorker(ctx context.Context, w *Worker) error
	GetWorkerByUsername(ctx context.Context, username string) (*Worker, error)
	ListWorkers(ctx context.Context, limit, offset int) ([]*Worker, int, error)

	CreateGroup(ctx context.Context, g *Group) error
	GetGroupByName(ctx context.Context, name string) (*Group, error)

	// AddMembership is idempotent: adding a worker to a group they already
	// belong to succeeds without effect.
	AddMembership(ctx context.Context, workerID, groupID uuid.UUID) error
	ListGroupMembers(ctx context.Context, groupName string) ([]*Worker, error)
}
