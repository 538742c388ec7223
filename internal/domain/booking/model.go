package booking

import (
	"time"

	"github.com/google/uuid"
)

// Booking maps to the booking table. One row per subject, refreshed whenever
// the subject accepts a new appointment.
type Booking struct {
	ID              uuid.UUID `db:"id" json:"id"`
	StudyIdentifier string    `db:"study_identifier" json:"study_identifier"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	BookingDate     time.Time `db:"booking_date" json:"booking_date"`
	ApptType        string    `db:"appt_type" json:"appt_type"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
