package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/followup/followup/internal/domain/booking"
	"github.com/followup/followup/internal/domain/identity"
	"github.com/followup/followup/internal/domain/locator"
	"github.com/followup/followup/internal/domain/worklist"
)

// ── Mocks ──

type mockRepo struct {
	entries   []*CallLogEntry
	attempts  []*InPersonContactAttempt
	createErr error
}

func (m *mockRepo) CreateEntry(_ context.Context, e *CallLogEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	e.ID = uuid.New()
	m.entries = append(m.entries, e)
	return nil
}
func (m *mockRepo) GetEntry(_ context.Context, id uuid.UUID) (*CallLogEntry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, ErrNotFound
}
func (m *mockRepo) ListEntriesBySubject(_ context.Context, studyIdentifier string) ([]*CallLogEntry, error) {
	var out []*CallLogEntry
	for _, e := range m.entries {
		if e.StudyIdentifier == studyIdentifier {
			out = append(out, e)
		}
	}
	return out, nil
}
func (m *mockRepo) ListEntries(_ context.Context, limit, offset int) ([]*CallLogEntry, int, error) {
	return m.entries, len(m.entries), nil
}
func (m *mockRepo) CreateAttempt(_ context.Context, a *InPersonContactAttempt) error {
	a.ID = uuid.New()
	m.attempts = append(m.attempts, a)
	return nil
}
func (m *mockRepo) ListAttemptsBySubject(_ context.Context, studyIdentifier string) ([]*InPersonContactAttempt, error) {
	var out []*InPersonContactAttempt
	for _, a := range m.attempts {
		if a.StudyIdentifier == studyIdentifier {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockItems struct {
	data map[string]*worklist.WorkItem
}

func (m *mockItems) GetByStudyIdentifier(_ context.Context, studyIdentifier string) (*worklist.WorkItem, error) {
	if w, ok := m.data[studyIdentifier]; ok {
		return w, nil
	}
	return nil, worklist.ErrNotFound
}
func (m *mockItems) Update(_ context.Context, w *worklist.WorkItem) error {
	m.data[w.StudyIdentifier] = w
	return nil
}

type mockBookings struct {
	data    map[string]*booking.Booking
	upserts int
}

func (m *mockBookings) Upsert(_ context.Context, b *booking.Booking) error {
	if m.data == nil {
		m.data = make(map[string]*booking.Booking)
	}
	m.upserts++
	m.data[b.StudyIdentifier] = b
	return nil
}

type mockLocators struct {
	data map[string]*locator.LocatorInfo
}

func (m *mockLocators) LatestBySubject(_ context.Context, studyIdentifier string) (*locator.LocatorInfo, error) {
	if l, ok := m.data[studyIdentifier]; ok {
		return l, nil
	}
	return nil, locator.ErrNotFound
}

type mockGroups struct {
	calls []string
	err   error
}

func (m *mockGroups) EnsureGroupMembership(_ context.Context, username, group string) error {
	m.calls = append(m.calls, username+":"+group)
	return m.err
}

type fixture struct {
	repo     *mockRepo
	items    *mockItems
	bookings *mockBookings
	locators *mockLocators
	groups   *mockGroups
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &mockRepo{},
		items:    &mockItems{data: make(map[string]*worklist.WorkItem)},
		bookings: &mockBookings{},
		locators: &mockLocators{data: make(map[string]*locator.LocatorInfo)},
		groups:   &mockGroups{},
	}
	f.svc = NewService(f.repo, f.items, f.bookings, f.locators, f.groups, "Recruiters", nil)
	return f
}

func (f *fixture) seedItem(studyIdentifier string) *worklist.WorkItem {
	w := &worklist.WorkItem{ID: uuid.New(), StudyIdentifier: studyIdentifier, ReportedAt: time.Now()}
	f.items.data[studyIdentifier] = w
	return w
}

func (f *fixture) seedLocator(studyIdentifier string) {
	f.locators.data[studyIdentifier] = locatorWithPhone()
	f.locators.data[studyIdentifier].StudyIdentifier = studyIdentifier
}

func baseEntry(studyIdentifier string) *CallLogEntry {
	return &CallLogEntry{
		StudyIdentifier: studyIdentifier,
		CallDatetime:    time.Now(),
		Outcome:         OutcomeSuccess,
		CreatedBy:       "alice",
	}
}

// ── Tests ──

func TestRecordCall_MarksItemCalled(t *testing.T) {
	f := newFixture()
	item := f.seedItem("066-1")

	e := baseEntry("066-1")
	if err := f.svc.RecordCall(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !item.IsCalled {
		t.Error("expected work item marked called")
	}
	if item.CalledAt == nil || !item.CalledAt.Equal(e.CallDatetime) {
		t.Error("expected called_at set from the entry")
	}
	if len(f.repo.entries) != 1 {
		t.Errorf("expected 1 entry appended, got %d", len(f.repo.entries))
	}
}

func TestRecordCall_NoneOfTheAboveLeavesItemUntouched(t *testing.T) {
	f := newFixture()
	item := f.seedItem("066-1")

	e := baseEntry("066-1")
	e.Outcome = OutcomeNoneOfTheAbove
	if err := f.svc.RecordCall(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.IsCalled || item.CalledAt != nil {
		t.Error("none_of_the_above must not mark the item called")
	}
	if len(f.repo.entries) != 1 {
		t.Error("the entry itself must still be appended")
	}
}

func TestRecordCall_EnsuresRecruitersMembership(t *testing.T) {
	f := newFixture()
	f.seedItem("066-1")

	if err := f.svc.RecordCall(context.Background(), baseEntry("066-1")); err != nil {
		t.Fatal(err)
	}
	if len(f.groups.calls) != 1 || f.groups.calls[0] != "alice:Recruiters" {
		t.Errorf("expected recruiters membership ensured for alice, got %v", f.groups.calls)
	}
}

func TestRecordCall_GroupMissingAborts(t *testing.T) {
	f := newFixture()
	f.seedItem("066-1")
	f.groups.err = identity.ErrGroupMissing

	err := f.svc.RecordCall(context.Background(), baseEntry("066-1"))
	if !errors.Is(err, identity.ErrGroupMissing) {
		t.Fatalf("expected ErrGroupMissing to propagate, got %v", err)
	}
	if len(f.repo.entries) != 0 {
		t.Error("no entry may be appended when the group check fails")
	}
}

func TestRecordCall_AcceptedApptUpsertsBooking(t *testing.T) {
	f := newFixture()
	f.seedItem("066-1")
	f.seedLocator("066-1")

	d := time.Now().Add(72 * time.Hour)
	e := baseEntry("066-1")
	e.Appt = AnswerYes
	e.ApptType = ApptScreening
	e.ApptDate = &d

	if err := f.svc.RecordCall(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := f.bookings.data["066-1"]
	if !ok {
		t.Fatal("expected a booking for the subject")
	}
	if b.FirstName != "Neo" || b.LastName != "Mokgosi" {
		t.Errorf("booking names must come from the locator, got %s %s", b.FirstName, b.LastName)
	}
	if b.ApptType != "screening" || !b.BookingDate.Equal(d) {
		t.Errorf("booking must carry the entry's date and type")
	}
}

func TestRecordCall_RepeatApptKeepsSingleBooking(t *testing.T) {
	f := newFixture()
	f.seedItem("066-2")
	f.seedLocator("066-2")

	for i := 0; i < 2; i++ {
		d := time.Now().Add(time.Duration(i+1) * 24 * time.Hour)
		e := baseEntry("066-2")
		e.Appt = AnswerYes
		e.ApptType = ApptReCall
		e.ApptDate = &d
		if err := f.svc.RecordCall(context.Background(), e); err != nil {
			t.Fatal(err)
		}
	}
	if f.bookings.upserts != 2 {
		t.Errorf("expected 2 upsert calls, got %d", f.bookings.upserts)
	}
	if len(f.bookings.data) != 1 {
		t.Errorf("subject must end up with one booking row, got %d", len(f.bookings.data))
	}
}

func TestRecordCall_MissingLocatorSkipsBooking(t *testing.T) {
	f := newFixture()
	f.seedItem("066-1")

	d := time.Now().Add(24 * time.Hour)
	e := baseEntry("066-1")
	e.Appt = AnswerYes
	e.ApptType = ApptScreening
	e.ApptDate = &d

	if err := f.svc.RecordCall(context.Background(), e); err != nil {
		t.Fatalf("missing locator must not fail the call: %v", err)
	}
	if f.bookings.upserts != 0 {
		t.Error("no booking may be created without a locator")
	}
	if len(f.repo.entries) != 1 {
		t.Error("the entry must still be appended")
	}
}

func TestRecordCall_MissingWorkItemStillLogs(t *testing.T) {
	f := newFixture()

	if err := f.svc.RecordCall(context.Background(), baseEntry("066-9")); err != nil {
		t.Fatalf("missing work item must not fail the call: %v", err)
	}
	if len(f.repo.entries) != 1 {
		t.Error("the entry must be appended even without a work item")
	}
}

func TestRecordCall_ValidatesEnums(t *testing.T) {
	f := newFixture()
	cases := []struct {
		name   string
		mutate func(*CallLogEntry)
	}{
		{"bad outcome", func(e *CallLogEntry) { e.Outcome = "rang_twice" }},
		{"empty outcome", func(e *CallLogEntry) { e.Outcome = "" }},
		{"bad answer", func(e *CallLogEntry) { e.HasChild = "maybe" }},
		{"bad home visit", func(e *CallLogEntry) { e.HomeVisit = "perhaps" }},
		{"appt without type", func(e *CallLogEntry) {
			d := time.Now()
			e.Appt = AnswerYes
			e.ApptDate = &d
		}},
		{"appt without date", func(e *CallLogEntry) {
			e.Appt = AnswerYes
			e.ApptType = ApptScreening
		}},
	}
	for _, tc := range cases {
		e := baseEntry("066-1")
		tc.mutate(e)
		if err := f.svc.RecordCall(context.Background(), e); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
	if len(f.repo.entries) != 0 {
		t.Error("invalid entries must not be appended")
	}
}

func TestRecordVisit_SuccessfulLocationMarksVisited(t *testing.T) {
	f := newFixture()
	item := f.seedItem("066-1")

	a := &InPersonContactAttempt{
		StudyIdentifier:    "066-1",
		Location:           locator.LocationPhysicalAddress,
		SuccessfulLocation: string(locator.LocationPhysicalAddress),
		CreatedBy:          "alice",
	}
	if err := f.svc.RecordVisit(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !item.Visited {
		t.Error("expected work item marked visited")
	}
}

func TestRecordVisit_NoneOfTheAboveLeavesVisitedUnset(t *testing.T) {
	f := newFixture()
	item := f.seedItem("066-1")

	a := &InPersonContactAttempt{
		StudyIdentifier:    "066-1",
		Location:           locator.LocationPhysicalAddress,
		SuccessfulLocation: LocationNone,
		CreatedBy:          "alice",
	}
	if err := f.svc.RecordVisit(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Visited {
		t.Error("unsuccessful visit must not mark visited")
	}
	if len(f.repo.attempts) != 1 {
		t.Error("the attempt must still be appended")
	}
}

func TestHomeVisitRequired_ServiceWiresLocatorAbsence(t *testing.T) {
	f := newFixture()
	required, err := f.svc.HomeVisitRequired(context.Background(), "066-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !required {
		t.Error("subject with no locator must require a home visit")
	}
}

func TestEligibility_ServiceDerivesFromHistory(t *testing.T) {
	f := newFixture()
	f.seedItem("066-1")
	if err := f.svc.RecordCall(context.Background(), baseEntry("066-1")); err != nil {
		t.Fatal(err)
	}
	status, err := f.svc.Eligibility(context.Background(), "066-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != EligibilityPending {
		t.Errorf("expected pending, got %s", status)
	}
}
