package booking

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

const bookingCols = `id, study_identifier, first_name, last_name, booking_date, appt_type,
	created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.StudyIdentifier, &b.FirstName, &b.LastName, &b.BookingDate, &b.ApptType,
		&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &b, err
}

func (r *repoPG) Upsert(ctx context.Context, b *Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO booking (id, study_identifier, first_name, last_name, booking_date, appt_type)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (study_identifier) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			booking_date = EXCLUDED.booking_date,
			appt_type = EXCLUDED.appt_type,
			updated_at = NOW()`,
		b.ID, b.StudyIdentifier, b.FirstName, b.LastName, b.BookingDate, b.ApptType)
	return err
}

func (r *repoPG) GetBySubject(ctx context.Context, studyIdentifier string) (*Booking, error) {
	return scanBooking(r.conn(ctx).QueryRow(ctx, `SELECT `+bookingCols+` FROM booking WHERE study_identifier = $1`, studyIdentifier))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Booking, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM booking`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+bookingCols+` FROM booking ORDER BY booking_date ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, nil
}

func (r *repoPG) Delete(ctx context.Context, studyIdentifier string) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM booking WHERE study_identifier = $1`, studyIdentifier)
	return err
}
