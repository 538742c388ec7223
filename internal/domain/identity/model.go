package identity

import (
	"time"

	"github.com/google/uuid"
)

// Worker maps to the worker table. Usernames are the handle everything else
// (assignments, call log entries) refers to.
type Worker struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Group maps to the role_group table. Groups are seeded by provisioning and
// never created on the fly.
type Group struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
