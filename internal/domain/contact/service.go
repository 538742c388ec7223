package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/followup/followup/internal/domain/booking"
	"github.com/followup/followup/internal/domain/locator"
	"github.com/followup/followup/internal/domain/worklist"
	"github.com/followup/followup/internal/platform/db"
)

// ErrInvalid marks a request rejected before it touched the store, so
// handlers can answer 400 instead of 500.
var ErrInvalid = errors.New("invalid request")

// WorkItemStore is the slice of the worklist repository the decision engine
// needs.
type WorkItemStore interface {
	GetByStudyIdentifier(ctx context.Context, studyIdentifier string) (*worklist.WorkItem, error)
	Update(ctx context.Context, w *worklist.WorkItem) error
}

// BookingStore upserts the subject's single booking row.
type BookingStore interface {
	Upsert(ctx context.Context, b *booking.Booking) error
}

// LocatorStore resolves the subject's authoritative locator record.
type LocatorStore interface {
	LatestBySubject(ctx context.Context, studyIdentifier string) (*locator.LocatorInfo, error)
}

// GroupEnsurer guarantees the recording worker belongs to a role group.
type GroupEnsurer interface {
	EnsureGroupMembership(ctx context.Context, username, group string) error
}

type Service struct {
	repo            Repository
	items           WorkItemStore
	bookings        BookingStore
	locators        LocatorStore
	groups          GroupEnsurer
	recruitersGroup string
	pool            *pgxpool.Pool
}

func NewService(
	repo Repository,
	items WorkItemStore,
	bookings BookingStore,
	locators LocatorStore,
	groups GroupEnsurer,
	recruitersGroup string,
	pool *pgxpool.Pool,
) *Service {
	return &Service{
		repo:            repo,
		items:           items,
		bookings:        bookings,
		locators:        locators,
		groups:          groups,
		recruitersGroup: recruitersGroup,
		pool:            pool,
	}
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.pool == nil {
		return fn(ctx)
	}
	return db.InTx(ctx, s.pool, fn)
}

func (s *Service) validateEntry(e *CallLogEntry) error {
	if e.StudyIdentifier == "" {
		return fmt.Errorf("%w: study_identifier is required", ErrInvalid)
	}
	if e.CreatedBy == "" {
		return fmt.Errorf("%w: created_by is required", ErrInvalid)
	}
	if e.Outcome == "" || !validOutcomes[e.Outcome] {
		return fmt.Errorf("%w: invalid outcome: %s", ErrInvalid, e.Outcome)
	}
	for name, a := range map[string]Answer{
		"has_child":       e.HasChild,
		"caregiver_age":   e.CaregiverAge,
		"caregiver_id":    e.CaregiverID,
		"willing_consent": e.WillingConsent,
		"willing_assent":  e.WillingAssent,
		"study_interest":  e.StudyInterest,
		"appt":            e.Appt,
		"may_call":        e.MayCall,
	} {
		if a != "" && a != AnswerYes && a != AnswerNo && a != AnswerThinking {
			return fmt.Errorf("%w: invalid %s: %s", ErrInvalid, name, a)
		}
	}
	if e.HomeVisit != "" && e.HomeVisit != HomeVisitYes && e.HomeVisit != HomeVisitNo && e.HomeVisit != HomeVisitNA {
		return fmt.Errorf("%w: invalid home_visit: %s", ErrInvalid, e.HomeVisit)
	}
	if e.Appt == AnswerYes {
		if !validApptTypes[e.ApptType] {
			return fmt.Errorf("%w: invalid appt_type: %s", ErrInvalid, e.ApptType)
		}
		if e.ApptDate == nil {
			return fmt.Errorf("%w: appt_date is required when an appointment is accepted", ErrInvalid)
		}
		if e.ApptGrading != "" && e.ApptGrading != GradingFirm && e.ApptGrading != GradingWeak {
			return fmt.Errorf("%w: invalid appt_grading: %s", ErrInvalid, e.ApptGrading)
		}
	}
	return nil
}

// RecordCall appends a call log entry and applies its consequences in one
// transaction: the recording worker is placed in the recruiters group (a
// missing group or unknown worker aborts the whole call), the subject's work
// item picks up the called flags, and an accepted appointment refreshes the
// subject's booking from their latest locator. A subject without a locator
// simply gets no booking; a subject without a work item still gets the log
// entry.
func (s *Service) RecordCall(ctx context.Context, e *CallLogEntry) error {
	if err := s.validateEntry(e); err != nil {
		return err
	}
	if e.CallDatetime.IsZero() {
		e.CallDatetime = time.Now()
	}

	return s.inTx(ctx, func(ctx context.Context) error {
		if err := s.groups.EnsureGroupMembership(ctx, e.CreatedBy, s.recruitersGroup); err != nil {
			return err
		}
		if err := s.repo.CreateEntry(ctx, e); err != nil {
			return err
		}

		item, err := s.items.GetByStudyIdentifier(ctx, e.StudyIdentifier)
		switch {
		case errors.Is(err, worklist.ErrNotFound):
			// No work item yet; the entry stands on its own.
		case err != nil:
			return err
		default:
			ApplyOutcome(item, e)
			if err := s.items.Update(ctx, item); err != nil {
				return err
			}
		}

		if e.Appt == AnswerYes {
			if err := s.upsertBooking(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) upsertBooking(ctx context.Context, e *CallLogEntry) error {
	loc, err := s.locators.LatestBySubject(ctx, e.StudyIdentifier)
	if errors.Is(err, locator.ErrNotFound) {
		// Without a locator there are no names to book under; the
		// appointment stays on the log entry only.
		return nil
	}
	if err != nil {
		return err
	}
	return s.bookings.Upsert(ctx, &booking.Booking{
		StudyIdentifier: e.StudyIdentifier,
		FirstName:       loc.FirstName,
		LastName:        loc.LastName,
		BookingDate:     *e.ApptDate,
		ApptType:        string(e.ApptType),
	})
}

// RecordVisit appends an in-person contact attempt and marks the work item
// visited when the subject was actually found.
func (s *Service) RecordVisit(ctx context.Context, a *InPersonContactAttempt) error {
	if a.StudyIdentifier == "" {
		return fmt.Errorf("%w: study_identifier is required", ErrInvalid)
	}
	if a.CreatedBy == "" {
		return fmt.Errorf("%w: created_by is required", ErrInvalid)
	}
	if a.ContactDatetime.IsZero() {
		a.ContactDatetime = time.Now()
	}

	return s.inTx(ctx, func(ctx context.Context) error {
		if err := s.groups.EnsureGroupMembership(ctx, a.CreatedBy, s.recruitersGroup); err != nil {
			return err
		}
		if err := s.repo.CreateAttempt(ctx, a); err != nil {
			return err
		}
		if !a.Located() {
			return nil
		}
		item, err := s.items.GetByStudyIdentifier(ctx, a.StudyIdentifier)
		if errors.Is(err, worklist.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		ApplyVisit(item, a)
		return s.items.Update(ctx, item)
	})
}

func (s *Service) GetEntry(ctx context.Context, id uuid.UUID) (*CallLogEntry, error) {
	return s.repo.GetEntry(ctx, id)
}

func (s *Service) ListEntries(ctx context.Context, limit, offset int) ([]*CallLogEntry, int, error) {
	return s.repo.ListEntries(ctx, limit, offset)
}

func (s *Service) ListEntriesBySubject(ctx context.Context, studyIdentifier string) ([]*CallLogEntry, error) {
	return s.repo.ListEntriesBySubject(ctx, studyIdentifier)
}

func (s *Service) ListAttemptsBySubject(ctx context.Context, studyIdentifier string) ([]*InPersonContactAttempt, error) {
	return s.repo.ListAttemptsBySubject(ctx, studyIdentifier)
}

// HomeVisitRequired evaluates the home-visit rule against the subject's
// current call history and locator.
func (s *Service) HomeVisitRequired(ctx context.Context, studyIdentifier string) (bool, error) {
	entries, err := s.repo.ListEntriesBySubject(ctx, studyIdentifier)
	if err != nil {
		return false, err
	}
	loc, err := s.locators.LatestBySubject(ctx, studyIdentifier)
	if errors.Is(err, locator.ErrNotFound) {
		loc = nil
	} else if err != nil {
		return false, err
	}
	return HomeVisitRequired(loc, entries), nil
}

// Eligibility derives the subject's screening status from their call history.
func (s *Service) Eligibility(ctx context.Context, studyIdentifier string) (Eligibility, error) {
	entries, err := s.repo.ListEntriesBySubject(ctx, studyIdentifier)
	if err != nil {
		return "", err
	}
	return EligibilityOf(entries), nil
}
