package contact

import (
	"github.com/followup/followup/internal/domain/locator"
	"github.com/followup/followup/internal/domain/worklist"
)

// ApplyOutcome folds a new call log entry into the subject's work item.
// Any outcome other than none_of_the_above counts as a real contact, so the
// item is marked called with the entry's call time. The work item is
// modified in place; persisting it is the caller's job.
func ApplyOutcome(item *worklist.WorkItem, entry *CallLogEntry) {
	if !entry.Outcome.Counted() {
		return
	}
	item.IsCalled = true
	t := entry.CallDatetime
	item.CalledAt = &t
}

// ApplyVisit folds an in-person attempt into the work item: finding the
// subject at any location marks the item visited.
func ApplyVisit(item *worklist.WorkItem, attempt *InPersonContactAttempt) {
	if attempt.Located() {
		item.Visited = true
	}
}

// HomeVisitRequired decides whether the subject needs an in-person visit.
// A nil locator, or one with no callable numbers, forces a visit. A recorded
// home-visit answer other than not-applicable forces one too. Otherwise the
// call history decides: a disconnected number anywhere in the counted
// attempts requires a visit, even when other attempts merely went
// unanswered; plain no-answer outcomes alone do not.
func HomeVisitRequired(loc *locator.LocatorInfo, entries []*CallLogEntry) bool {
	if loc == nil || len(locator.AvailableChannels(loc)) == 0 {
		return true
	}
	for _, e := range entries {
		if e.HomeVisit != "" && e.HomeVisit != HomeVisitNA {
			return true
		}
	}
	for _, e := range entries {
		if !e.Outcome.Counted() {
			continue
		}
		if e.Outcome == OutcomeDisconnected {
			return true
		}
	}
	return false
}

// EligibilityOf derives the subject's screening status from their call
// history. With no entries the subject is pending. A "no" to any screening
// question at any point makes them ineligible. They become eligible once
// every question has a "yes" on record and an appointment was accepted.
func EligibilityOf(entries []*CallLogEntry) Eligibility {
	if len(entries) == 0 {
		return EligibilityPending
	}

	answers := make(map[string]Answer)
	record := func(key string, a Answer) {
		if a != "" {
			answers[key] = a
		}
	}

	anyNo := false
	apptAccepted := false
	for _, e := range entries {
		for _, q := range []struct {
			key string
			a   Answer
		}{
			{"has_child", e.HasChild},
			{"caregiver_age", e.CaregiverAge},
			{"caregiver_id", e.CaregiverID},
			{"willing_consent", e.WillingConsent},
			{"willing_assent", e.WillingAssent},
			{"study_interest", e.StudyInterest},
		} {
			record(q.key, q.a)
			if q.a == AnswerNo {
				anyNo = true
			}
		}
		if e.Appt == AnswerYes {
			apptAccepted = true
		}
	}

	if anyNo {
		return EligibilityIneligible
	}
	if len(answers) == 6 && apptAccepted {
		for _, a := range answers {
			if a != AnswerYes {
				return EligibilityPending
			}
		}
		return EligibilityEligible
	}
	return EligibilityPending
}
