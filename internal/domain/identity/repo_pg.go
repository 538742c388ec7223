package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/followup/followup/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const workerCols = `id, username, first_name, last_name, created_at`

func scanWorker(row pgx.Row) (*Worker, error) {
	var w Worker
	err := row.Scan(&w.ID, &w.Username, &w.FirstName, &w.LastName, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &w, err
}

func (r *repoPG) CreateWorker(ctx context.Context, w *Worker) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO worker (id, username, first_name, last_name)
		VALUES ($1,$2,$3,$4)`,
		w.ID, w.Username, w.FirstName, w.LastName)
	return err
}

func (r *repoPG) GetWorkerByUsername(ctx context.Context, username string) (*Worker, error) {
	return scanWorker(r.conn(ctx).QueryRow(ctx, `SELECT `+workerCols+` FROM worker WHERE username = $1`, username))
}

func (r *repoPG) ListWorkers(ctx context.Context, limit, offset int) ([]*Worker, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM worker`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+workerCols+` FROM worker ORDER BY username LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, w)
	}
	return items, total, nil
}

func (r *repoPG) CreateGroup(ctx context.Context, g *Group) error {
	g.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `INSERT INTO role_group (id, name) VALUES ($1,$2)`, g.ID, g.Name)
	return err
}

func (r *repoPG) GetGroupByName(ctx context.Context, name string) (*Group, error) {
	var g Group
	err := r.conn(ctx).QueryRow(ctx, `SELECT id, name, created_at FROM role_group WHERE name = $1`, name).
		Scan(&g.ID, &g.Name, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &g, err
}

func (r *repoPG) AddMembership(ctx context.Context, workerID, groupID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO group_membership (id, worker_id, group_id)
		VALUES ($1,$2,$3)
		ON CONFLICT (worker_id, group_id) DO NOTHING`,
		uuid.New(), workerID, groupID)
	return err
}

func (r *repoPG) ListGroupMembers(ctx context.Context, groupName string) ([]*Worker, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT w.id, w.username, w.first_name, w.last_name, w.created_at
		FROM worker w
		JOIN group_membership gm ON gm.worker_id = w.id
		JOIN role_group g ON g.id = gm.group_id
		WHERE g.name = $1
		ORDER BY w.username`, groupName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, nil
}
