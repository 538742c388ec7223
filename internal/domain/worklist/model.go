package worklist

import (
	"time"

	"github.com/google/uuid"
)

// WorkItem maps to the work_item table. One row per subject in the follow-up
// queue. Assigned and DateAssigned are set and cleared together.
type WorkItem struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	StudyIdentifier   string     `db:"study_identifier" json:"study_identifier"`
	SubjectIdentifier *string    `db:"subject_identifier" json:"subject_identifier,omitempty"`
	PrevStudy         string     `db:"prev_study" json:"prev_study"`
	ReportedAt        time.Time  `db:"reported_at" json:"reported_at"`
	Assigned          *string    `db:"assigned" json:"assigned,omitempty"`
	DateAssigned      *time.Time `db:"date_assigned" json:"date_assigned,omitempty"`
	IsCalled          bool       `db:"is_called" json:"is_called"`
	CalledAt          *time.Time `db:"called_at" json:"called_at,omitempty"`
	Visited           bool       `db:"visited" json:"visited"`
	Consented         bool       `db:"consented" json:"consented"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
