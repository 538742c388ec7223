package contact

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

const entryCols = `id, study_identifier, subject_identifier, screening_identifier, prev_study,
	call_datetime, channel, outcome,
	has_child, caregiver_age, caregiver_id, willing_consent, willing_assent, study_interest,
	appt, appt_type, appt_date, appt_grading, appt_location,
	may_call, home_visit, final_contact, note, created_by, created_at`

func scanEntry(row pgx.Row) (*CallLogEntry, error) {
	var e CallLogEntry
	err := row.Scan(&e.ID, &e.StudyIdentifier, &e.SubjectIdentifier, &e.ScreeningIdentifier, &e.PrevStudy,
		&e.CallDatetime, &e.Channel, &e.Outcome,
		&e.HasChild, &e.CaregiverAge, &e.CaregiverID, &e.WillingConsent, &e.WillingAssent, &e.StudyInterest,
		&e.Appt, &e.ApptType, &e.ApptDate, &e.ApptGrading, &e.ApptLocation,
		&e.MayCall, &e.HomeVisit, &e.FinalContact, &e.Note, &e.CreatedBy, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &e, err
}

func (r *repoPG) CreateEntry(ctx context.Context, e *CallLogEntry) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO call_log_entry (id, study_identifier, subject_identifier, screening_identifier, prev_study,
			call_datetime, channel, outcome,
			has_child, caregiver_age, caregiver_id, willing_consent, willing_assent, study_interest,
			appt, appt_type, appt_date, appt_grading, appt_location,
			may_call, home_visit, final_contact, note, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)`,
		e.ID, e.StudyIdentifier, e.SubjectIdentifier, e.ScreeningIdentifier, e.PrevStudy,
		e.CallDatetime, e.Channel, e.Outcome,
		e.HasChild, e.CaregiverAge, e.CaregiverID, e.WillingConsent, e.WillingAssent, e.StudyInterest,
		e.Appt, e.ApptType, e.ApptDate, e.ApptGrading, e.ApptLocation,
		e.MayCall, e.HomeVisit, e.FinalContact, e.Note, e.CreatedBy)
	return err
}

func (r *repoPG) GetEntry(ctx context.Context, id uuid.UUID) (*CallLogEntry, error) {
	return scanEntry(r.conn(ctx).QueryRow(ctx, `SELECT `+entryCols+` FROM call_log_entry WHERE id = $1`, id))
}

func (r *repoPG) ListEntriesBySubject(ctx context.Context, studyIdentifier string) ([]*CallLogEntry, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+entryCols+` FROM call_log_entry
		WHERE study_identifier = $1
		ORDER BY call_datetime ASC`, studyIdentifier)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*CallLogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, nil
}

func (r *repoPG) ListEntries(ctx context.Context, limit, offset int) ([]*CallLogEntry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM call_log_entry`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+entryCols+` FROM call_log_entry ORDER BY call_datetime DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*CallLogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}

const attemptCols = `id, study_identifier, prev_study, contact_datetime, location,
	successful_location, outcome, created_by, created_at`

func scanAttempt(row pgx.Row) (*InPersonContactAttempt, error) {
	var a InPersonContactAttempt
	err := row.Scan(&a.ID, &a.StudyIdentifier, &a.PrevStudy, &a.ContactDatetime, &a.Location,
		&a.SuccessfulLocation, &a.Outcome, &a.CreatedBy, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *repoPG) CreateAttempt(ctx context.Context, a *InPersonContactAttempt) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO in_person_contact_attempt (id, study_identifier, prev_study, contact_datetime,
			location, successful_location, outcome, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.StudyIdentifier, a.PrevStudy, a.ContactDatetime,
		a.Location, a.SuccessfulLocation, a.Outcome, a.CreatedBy)
	return err
}

func (r *repoPG) ListAttemptsBySubject(ctx context.Context, studyIdentifier string) ([]*InPersonContactAttempt, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+attemptCols+` FROM in_person_contact_attempt
		WHERE study_identifier = $1
		ORDER BY contact_datetime ASC`, studyIdentifier)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*InPersonContactAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, nil
}
