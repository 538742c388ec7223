package worklist

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const workItemCols = `id, study_identifier, subject_identifier, prev_study, reported_at,
	assigned, date_assigned, is_called, called_at, visited, consented,
	created_at, updated_at`

func scanWorkItem(row pgx.Row) (*WorkItem, error) {
	var w WorkItem
	err := row.Scan(&w.ID, &w.StudyIdentifier, &w.SubjectIdentifier, &w.PrevStudy, &w.ReportedAt,
		&w.Assigned, &w.DateAssigned, &w.IsCalled, &w.CalledAt, &w.Visited, &w.Consented,
		&w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &w, err
}

func (r *repoPG) Create(ctx context.Context, w *WorkItem) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO work_item (id, study_identifier, subject_identifier, prev_study, reported_at,
			assigned, date_assigned, is_called, called_at, visited, consented)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		w.ID, w.StudyIdentifier, w.SubjectIdentifier, w.PrevStudy, w.ReportedAt,
		w.Assigned, w.DateAssigned, w.IsCalled, w.CalledAt, w.Visited, w.Consented)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*WorkItem, error) {
	return scanWorkItem(r.conn(ctx).QueryRow(ctx, `SELECT `+workItemCols+` FROM work_item WHERE id = $1`, id))
}

func (r *repoPG) GetByStudyIdentifier(ctx context.Context, studyIdentifier string) (*WorkItem, error) {
	return scanWorkItem(r.conn(ctx).QueryRow(ctx, `SELECT `+workItemCols+` FROM work_item WHERE study_identifier = $1`, studyIdentifier))
}

func (r *repoPG) Update(ctx context.Context, w *WorkItem) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE work_item SET assigned=$2, date_assigned=$3, is_called=$4, called_at=$5,
			visited=$6, consented=$7, updated_at=NOW()
		WHERE id = $1`,
		w.ID, w.Assigned, w.DateAssigned, w.IsCalled, w.CalledAt, w.Visited, w.Consented)
	return err
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*WorkItem, int, error) {
	query := `SELECT ` + workItemCols + ` FROM work_item WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM work_item WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.Assigned != "" {
		query += fmt.Sprintf(` AND assigned = $%d`, idx)
		countQuery += fmt.Sprintf(` AND assigned = $%d`, idx)
		args = append(args, filter.Assigned)
		idx++
	}
	if filter.PrevStudy != "" {
		query += fmt.Sprintf(` AND prev_study = $%d`, idx)
		countQuery += fmt.Sprintf(` AND prev_study = $%d`, idx)
		args = append(args, filter.PrevStudy)
		idx++
	}
	if filter.IsCalled != nil {
		query += fmt.Sprintf(` AND is_called = $%d`, idx)
		countQuery += fmt.Sprintf(` AND is_called = $%d`, idx)
		args = append(args, *filter.IsCalled)
		idx++
	}
	if filter.Visited != nil {
		query += fmt.Sprintf(` AND visited = $%d`, idx)
		countQuery += fmt.Sprintf(` AND visited = $%d`, idx)
		args = append(args, *filter.Visited)
		idx++
	}
	if filter.Consented != nil {
		query += fmt.Sprintf(` AND consented = $%d`, idx)
		countQuery += fmt.Sprintf(` AND consented = $%d`, idx)
		args = append(args, *filter.Consented)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY reported_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*WorkItem
	for rows.Next() {
		w, err := scanWorkItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, w)
	}
	return items, total, nil
}

func (r *repoPG) ListAssignable(ctx context.Context, prevStudy string) ([]*WorkItem, error) {
	query := `SELECT ` + workItemCols + ` FROM work_item
		WHERE assigned IS NULL AND is_called = FALSE AND consented = FALSE`
	var args []interface{}
	if prevStudy != "" {
		query += ` AND prev_study = $1`
		args = append(args, prevStudy)
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*WorkItem
	for rows.Next() {
		w, err := scanWorkItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, nil
}

func (r *repoPG) AssignMany(ctx context.Context, ids []uuid.UUID, worker string, date time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE work_item SET assigned=$2, date_assigned=$3, updated_at=NOW()
		WHERE id = ANY($1)`, ids, worker, date)
	return err
}

func (r *repoPG) ClearAssignments(ctx context.Context, worker string) (int64, error) {
	query := `UPDATE work_item SET assigned=NULL, date_assigned=NULL, updated_at=NOW()
		WHERE assigned IS NOT NULL`
	var args []interface{}
	if worker != "" {
		query += ` AND assigned = $1`
		args = append(args, worker)
	}
	tag, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) ReassignAll(ctx context.Context, from, to string, date time.Time) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE work_item SET assigned=$2, date_assigned=$3, updated_at=NOW()
		WHERE assigned = $1 AND consented = FALSE`, from, to, date)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) ReassignOne(ctx context.Context, from, to, studyIdentifier string, date time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE work_item SET assigned=$2, date_assigned=$3, updated_at=NOW()
		WHERE assigned = $1 AND study_identifier = $4 AND consented = FALSE`,
		from, to, date, studyIdentifier)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
