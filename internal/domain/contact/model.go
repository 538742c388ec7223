package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/followup/followup/internal/domain/locator"
)

// Outcome is the result of a phone contact attempt.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeNoResponse     Outcome = "no_response"
	OutcomeNoResponseVM   Outcome = "no_response_vm_not_left"
	OutcomeDisconnected   Outcome = "disconnected"
	OutcomeNumberChanged  Outcome = "number_changed"
	OutcomeNoneOfTheAbove Outcome = "none_of_the_above"
	OutcomeOther          Outcome = "other"
)

var validOutcomes = map[Outcome]bool{
	OutcomeSuccess: true, OutcomeNoResponse: true, OutcomeNoResponseVM: true,
	OutcomeDisconnected: true, OutcomeNumberChanged: true,
	OutcomeNoneOfTheAbove: true, OutcomeOther: true,
}

var outcomeLabels = map[Outcome]string{
	OutcomeSuccess:        "Answered",
	OutcomeNoResponse:     "No response",
	OutcomeNoResponseVM:   "No response, voicemail not left",
	OutcomeDisconnected:   "Number disconnected",
	OutcomeNumberChanged:  "Number belongs to someone else",
	OutcomeNoneOfTheAbove: "None of the above",
	OutcomeOther:          "Other",
}

func (o Outcome) Label() string {
	if l, ok := outcomeLabels[o]; ok {
		return l
	}
	return string(o)
}

// Counted reports whether the outcome represents a real contact attempt,
// i.e. anything other than none_of_the_above.
func (o Outcome) Counted() bool {
	return o != "" && o != OutcomeNoneOfTheAbove
}

// Answer is a yes/no eligibility answer. Questions that allow an undecided
// response also use AnswerThinking. Empty means unanswered.
type Answer string

const (
	AnswerYes      Answer = "yes"
	AnswerNo       Answer = "no"
	AnswerThinking Answer = "thinking"
)

// HomeVisitAnswer is the subject's response to a home-visit offer.
type HomeVisitAnswer string

const (
	HomeVisitYes HomeVisitAnswer = "yes"
	HomeVisitNo  HomeVisitAnswer = "no"
	HomeVisitNA  HomeVisitAnswer = "not_applicable"
)

// ApptType classifies an accepted appointment.
type ApptType string

const (
	ApptScreening  ApptType = "screening"
	ApptReCall     ApptType = "re_call"
	ApptConsenting ApptType = "consenting"
	ApptOther      ApptType = "other"
)

var validApptTypes = map[ApptType]bool{
	ApptScreening: true, ApptReCall: true, ApptConsenting: true, ApptOther: true,
}

var apptTypeLabels = map[ApptType]string{
	ApptScreening:  "Screening",
	ApptReCall:     "Re-call",
	ApptConsenting: "Consenting",
	ApptOther:      "Other",
}

func (t ApptType) Label() string {
	if l, ok := apptTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// ApptGrading is how firm an accepted appointment is.
type ApptGrading string

const (
	GradingFirm ApptGrading = "firm"
	GradingWeak ApptGrading = "weak"
)

// Eligibility is the derived screening status of a subject.
type Eligibility string

const (
	EligibilityPending    Eligibility = "pending"
	EligibilityEligible   Eligibility = "eligible"
	EligibilityIneligible Eligibility = "ineligible"
)

// CallLogEntry maps to the call_log_entry table. Entries are append-only:
// a correction is a new entry, never an update.
type CallLogEntry struct {
	ID                  uuid.UUID           `db:"id" json:"id"`
	StudyIdentifier     string              `db:"study_identifier" json:"study_identifier"`
	SubjectIdentifier   *string             `db:"subject_identifier" json:"subject_identifier,omitempty"`
	ScreeningIdentifier *string             `db:"screening_identifier" json:"screening_identifier,omitempty"`
	PrevStudy           string              `db:"prev_study" json:"prev_study"`
	CallDatetime        time.Time           `db:"call_datetime" json:"call_datetime"`
	Channel             locator.ChannelKind `db:"channel" json:"channel,omitempty"`
	Outcome             Outcome             `db:"outcome" json:"outcome"`

	HasChild       Answer `db:"has_child" json:"has_child,omitempty"`
	CaregiverAge   Answer `db:"caregiver_age" json:"caregiver_age,omitempty"`
	CaregiverID    Answer `db:"caregiver_id" json:"caregiver_id,omitempty"`
	WillingConsent Answer `db:"willing_consent" json:"willing_consent,omitempty"`
	WillingAssent  Answer `db:"willing_assent" json:"willing_assent,omitempty"`
	StudyInterest  Answer `db:"study_interest" json:"study_interest,omitempty"`

	Appt         Answer      `db:"appt" json:"appt,omitempty"`
	ApptType     ApptType    `db:"appt_type" json:"appt_type,omitempty"`
	ApptDate     *time.Time  `db:"appt_date" json:"appt_date,omitempty"`
	ApptGrading  ApptGrading `db:"appt_grading" json:"appt_grading,omitempty"`
	ApptLocation *string     `db:"appt_location" json:"appt_location,omitempty"`

	MayCall      Answer          `db:"may_call" json:"may_call,omitempty"`
	HomeVisit    HomeVisitAnswer `db:"home_visit" json:"home_visit,omitempty"`
	FinalContact bool            `db:"final_contact" json:"final_contact"`
	Note         *string         `db:"note" json:"note,omitempty"`
	CreatedBy    string          `db:"created_by" json:"created_by"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// InPersonContactAttempt maps to the in_person_contact_attempt table.
// Append-only, like the call log.
type InPersonContactAttempt struct {
	ID                 uuid.UUID            `db:"id" json:"id"`
	StudyIdentifier    string               `db:"study_identifier" json:"study_identifier"`
	PrevStudy          string               `db:"prev_study" json:"prev_study"`
	ContactDatetime    time.Time            `db:"contact_datetime" json:"contact_datetime"`
	Location           locator.LocationKind `db:"location" json:"location"`
	SuccessfulLocation string               `db:"successful_location" json:"successful_location"`
	Outcome            *string              `db:"outcome" json:"outcome,omitempty"`
	CreatedBy          string               `db:"created_by" json:"created_by"`
	CreatedAt          time.Time            `db:"created_at" json:"created_at"`
}

// LocationNone marks an in-person attempt that found the subject nowhere.
const LocationNone = "none_of_the_above"

// Located reports whether the attempt actually reached the subject.
func (a *InPersonContactAttempt) Located() bool {
	return a.SuccessfulLocation != "" && a.SuccessfulLocation != LocationNone
}
