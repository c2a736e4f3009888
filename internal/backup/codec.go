// Package backup serializes the full local snapshot to a portable JSON
// document and parses it back, validating structural integrity.
package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oqba26/monthlypay/internal/models"
)

// DecodeError reports a backup document that is not well-formed JSON or is
// missing a required sequence. It is never returned after a partial apply;
// callers detect it with errors.As and show an "invalid file" outcome.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid backup: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid backup: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// wirePerson mirrors models.Person with optional fields as pointers, so a
// missing key can be told apart from a zero value when applying defaults.
type wirePerson struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UserID    *string `json:"userId"`
	CreatedAt *int64  `json:"createdAt"`
}

type wireDocument struct {
	Persons  *[]wirePerson           `json:"persons"`
	Payments *[]models.PaymentRecord `json:"payments"`
}

// Encode serializes a snapshot as the backup document. Keys are stable and
// defaults are written out explicitly, so older readers see every field.
// Encoding never fails for a valid in-memory snapshot.
func Encode(snap models.Snapshot) ([]byte, error) {
	// Marshal empty sequences as [], not null
	if snap.Persons == nil {
		snap.Persons = []models.Person{}
	}
	if snap.Payments == nil {
		snap.Payments = []models.PaymentRecord{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

// Decode parses a backup document back into a snapshot.
//
// Unknown keys are ignored for forward compatibility. Absent optional person
// fields take documented defaults: userId stays nil, createdAt becomes the
// current time. Malformed JSON or a missing persons/payments sequence yields
// a *DecodeError.
func Decode(data []byte) (models.Snapshot, error) {
	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Snapshot{}, &DecodeError{Reason: "not well-formed JSON", Err: err}
	}
	if doc.Persons == nil {
		return models.Snapshot{}, &DecodeError{Reason: `missing "persons" sequence`}
	}
	if doc.Payments == nil {
		return models.Snapshot{}, &DecodeError{Reason: `missing "payments" sequence`}
	}

	now := time.Now().UnixMilli()
	persons := make([]models.Person, 0, len(*doc.Persons))
	for _, wp := range *doc.Persons {
		p := models.Person{
			ID:        wp.ID,
			Name:      wp.Name,
			UserID:    wp.UserID,
			CreatedAt: now,
		}
		if wp.CreatedAt != nil {
			p.CreatedAt = *wp.CreatedAt
		}
		persons = append(persons, p)
	}

	return models.Snapshot{Persons: persons, Payments: *doc.Payments}, nil
}
