package contact

import (
	"testing"
	"time"

	"github.com/followup/followup/internal/domain/locator"
	"github.com/followup/followup/internal/domain/worklist"
)

func str(s string) *string { return &s }

func locatorWithPhone() *locator.LocatorInfo {
	return &locator.LocatorInfo{
		StudyIdentifier: "066-1",
		FirstName:       "Neo",
		LastName:        "Mokgosi",
		ReportedAt:      time.Now(),
		SubjectCell:     str("71234567"),
	}
}

// ── ApplyOutcome ──

func TestApplyOutcome_CountedOutcomeMarksCalled(t *testing.T) {
	now := time.Now()
	item := &worklist.WorkItem{StudyIdentifier: "066-1"}
	ApplyOutcome(item, &CallLogEntry{Outcome: OutcomeNoResponse, CallDatetime: now})

	if !item.IsCalled {
		t.Error("expected is_called after a counted outcome")
	}
	if item.CalledAt == nil || !item.CalledAt.Equal(now) {
		t.Error("expected called_at stamped with the call time")
	}
}

func TestApplyOutcome_NoneOfTheAboveIgnored(t *testing.T) {
	item := &worklist.WorkItem{StudyIdentifier: "066-1"}
	ApplyOutcome(item, &CallLogEntry{Outcome: OutcomeNoneOfTheAbove, CallDatetime: time.Now()})

	if item.IsCalled || item.CalledAt != nil {
		t.Error("none_of_the_above must not mark the item called")
	}
}

func TestApplyVisit(t *testing.T) {
	item := &worklist.WorkItem{StudyIdentifier: "066-1"}
	ApplyVisit(item, &InPersonContactAttempt{SuccessfulLocation: LocationNone})
	if item.Visited {
		t.Error("unsuccessful attempt must not mark visited")
	}
	ApplyVisit(item, &InPersonContactAttempt{SuccessfulLocation: string(locator.LocationPhysicalAddress)})
	if !item.Visited {
		t.Error("successful attempt must mark visited")
	}
}

// ── HomeVisitRequired ──

func TestHomeVisitRequired_NoLocator(t *testing.T) {
	if !HomeVisitRequired(nil, nil) {
		t.Error("no locator on file must force a home visit")
	}
}

func TestHomeVisitRequired_NoUsableChannels(t *testing.T) {
	loc := &locator.LocatorInfo{StudyIdentifier: "066-1", ReportedAt: time.Now()}
	if !HomeVisitRequired(loc, nil) {
		t.Error("locator with no phone numbers must force a home visit")
	}
}

func TestHomeVisitRequired_AnswerOverrides(t *testing.T) {
	entries := []*CallLogEntry{
		{Outcome: OutcomeSuccess, HomeVisit: HomeVisitYes},
	}
	if !HomeVisitRequired(locatorWithPhone(), entries) {
		t.Error("a recorded home-visit answer must force a visit")
	}
	entries = []*CallLogEntry{
		{Outcome: OutcomeSuccess, HomeVisit: HomeVisitNA},
	}
	if HomeVisitRequired(locatorWithPhone(), entries) {
		t.Error("a not-applicable answer must not force a visit")
	}
}

func TestHomeVisitRequired_DisconnectedOutranksNoResponse(t *testing.T) {
	// Earlier unanswered calls must not mask a later disconnected number.
	entries := []*CallLogEntry{
		{Outcome: OutcomeNoResponse},
		{Outcome: OutcomeNoResponseVM},
		{Outcome: OutcomeDisconnected},
	}
	if !HomeVisitRequired(locatorWithPhone(), entries) {
		t.Error("disconnected anywhere in the history must force a visit")
	}
}

func TestHomeVisitRequired_NoResponseAlone(t *testing.T) {
	entries := []*CallLogEntry{
		{Outcome: OutcomeNoResponse},
		{Outcome: OutcomeNoResponseVM},
	}
	if HomeVisitRequired(locatorWithPhone(), entries) {
		t.Error("unanswered calls alone must not force a visit")
	}
}

func TestHomeVisitRequired_UncountedOutcomesIgnored(t *testing.T) {
	entries := []*CallLogEntry{
		{Outcome: OutcomeNoneOfTheAbove},
	}
	if HomeVisitRequired(locatorWithPhone(), entries) {
		t.Error("none_of_the_above entries carry no weight")
	}
}

// ── EligibilityOf ──

func allYesEntry() *CallLogEntry {
	d := time.Now().Add(48 * time.Hour)
	return &CallLogEntry{
		Outcome:        OutcomeSuccess,
		HasChild:       AnswerYes,
		CaregiverAge:   AnswerYes,
		CaregiverID:    AnswerYes,
		WillingConsent: AnswerYes,
		WillingAssent:  AnswerYes,
		StudyInterest:  AnswerYes,
		Appt:           AnswerYes,
		ApptType:       ApptScreening,
		ApptDate:       &d,
	}
}

func TestEligibilityOf_PendingWithoutEntries(t *testing.T) {
	if got := EligibilityOf(nil); got != EligibilityPending {
		t.Errorf("expected pending, got %s", got)
	}
}

func TestEligibilityOf_AnyNoIsIneligible(t *testing.T) {
	e := allYesEntry()
	e.HasChild = AnswerNo
	if got := EligibilityOf([]*CallLogEntry{e}); got != EligibilityIneligible {
		t.Errorf("expected ineligible, got %s", got)
	}
}

func TestEligibilityOf_AllYesWithApptIsEligible(t *testing.T) {
	if got := EligibilityOf([]*CallLogEntry{allYesEntry()}); got != EligibilityEligible {
		t.Errorf("expected eligible, got %s", got)
	}
}

func TestEligibilityOf_AllYesWithoutApptStaysPending(t *testing.T) {
	e := allYesEntry()
	e.Appt = AnswerThinking
	if got := EligibilityOf([]*CallLogEntry{e}); got != EligibilityPending {
		t.Errorf("expected pending, got %s", got)
	}
}

func TestEligibilityOf_AnswersAccumulateAcrossCalls(t *testing.T) {
	d := time.Now().Add(24 * time.Hour)
	first := &CallLogEntry{
		Outcome:      OutcomeSuccess,
		HasChild:     AnswerYes,
		CaregiverAge: AnswerYes,
		CaregiverID:  AnswerYes,
	}
	second := &CallLogEntry{
		Outcome:        OutcomeSuccess,
		WillingConsent: AnswerYes,
		WillingAssent:  AnswerYes,
		StudyInterest:  AnswerYes,
		Appt:           AnswerYes,
		ApptType:       ApptConsenting,
		ApptDate:       &d,
	}
	if got := EligibilityOf([]*CallLogEntry{first, second}); got != EligibilityEligible {
		t.Errorf("expected eligible across two calls, got %s", got)
	}
}

func TestEligibilityOf_ThinkingStaysPending(t *testing.T) {
	e := allYesEntry()
	e.StudyInterest = AnswerThinking
	if got := EligibilityOf([]*CallLogEntry{e}); got != EligibilityPending {
		t.Errorf("expected pending while still thinking, got %s", got)
	}
}
