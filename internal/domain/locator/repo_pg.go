package locator

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

const locatorCols = `id, study_identifier, subject_identifier, first_name, last_name,
	reported_at, may_call, may_visit_home,
	subject_cell, subject_cell_alt, subject_phone, subject_phone_alt, subject_work_phone,
	indirect_contact_cell, indirect_contact_phone, caretaker_cell, caretaker_tel,
	physical_address, workplace_location, indirect_contact_address, created_at`

func scanLocator(row pgx.Row) (*LocatorInfo, error) {
	var l LocatorInfo
	err := row.Scan(&l.ID, &l.StudyIdentifier, &l.SubjectIdentifier, &l.FirstName, &l.LastName,
		&l.ReportedAt, &l.MayCall, &l.MayVisitHome,
		&l.SubjectCell, &l.SubjectCellAlt, &l.SubjectPhone, &l.SubjectPhoneAlt, &l.SubjectWorkPhone,
		&l.IndirectContactCell, &l.IndirectContactPhone, &l.CaretakerCell, &l.CaretakerTel,
		&l.PhysicalAddress, &l.WorkplaceLocation, &l.IndirectContactAddress, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &l, err
}

func (r *repoPG) Create(ctx context.Context, l *LocatorInfo) error {
	l.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO locator (id, study_identifier, subject_identifier, first_name, last_name,
			reported_at, may_call, may_visit_home,
			subject_cell, subject_cell_alt, subject_phone, subject_phone_alt, subject_work_phone,
			indirect_contact_cell, indirect_contact_phone, caretaker_cell, caretaker_tel,
			physical_address, workplace_location, indirect_contact_address)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		l.ID, l.StudyIdentifier, l.SubjectIdentifier, l.FirstName, l.LastName,
		l.ReportedAt, l.MayCall, l.MayVisitHome,
		l.SubjectCell, l.SubjectCellAlt, l.SubjectPhone, l.SubjectPhoneAlt, l.SubjectWorkPhone,
		l.IndirectContactCell, l.IndirectContactPhone, l.CaretakerCell, l.CaretakerTel,
		l.PhysicalAddress, l.WorkplaceLocation, l.IndirectContactAddress)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*LocatorInfo, error) {
	return scanLocator(r.conn(ctx).QueryRow(ctx, `SELECT `+locatorCols+` FROM locator WHERE id = $1`, id))
}

func (r *repoPG) LatestBySubject(ctx context.Context, studyIdentifier string) (*LocatorInfo, error) {
	return scanLocator(r.conn(ctx).QueryRow(ctx, `
		SELECT `+locatorCols+` FROM locator
		WHERE study_identifier = $1
		ORDER BY reported_at DESC
		LIMIT 1`, studyIdentifier))
}

func (r *repoPG) ListBySubject(ctx context.Context, studyIdentifier string) ([]*LocatorInfo, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+locatorCols+` FROM locator
		WHERE study_identifier = $1
		ORDER BY reported_at DESC`, studyIdentifier)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*LocatorInfo
	for rows.Next() {
		l, err := scanLocator(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*LocatorInfo, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM locator`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+locatorCols+` FROM locator ORDER BY reported_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*LocatorInfo
	for rows.Next() {
		l, err := scanLocator(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, l)
	}
	return items, total, nil
}
