package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Person represents a named party who owes a monthly payment.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	// May arrive blank from the remote API or an old backup; blank ids are
	// resolved before the record ever reaches storage.
	ID string `json:"id"`

	// Name is the display name. Stored trimmed; matching between records
	// uses the normalized form (see NormalizeName), never the display text.
	Name string `json:"name"`

	// UserID is an optional reference to the owning account, nil when the
	// record was created before accounts existed.
	UserID *string `json:"userId"`

	// CreatedAt is the creation time in epoch milliseconds. Set once.
	CreatedAt int64 `json:"createdAt"`
}

// NewPerson creates a person with a fresh id and the current timestamp.
func NewPerson(name string) Person {
	return Person{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UnixMilli(),
	}
}

// NormalizeName returns the matching key for a person name: trimmed and
// lowercased. Used only for identity resolution, never for display.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
