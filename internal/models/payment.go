package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentRecord represents a single payment made by a person for one
// Shamsi calendar period.
type PaymentRecord struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// PersonID references the paying Person. Not enforced by a database
	// constraint; payments whose person is gone are tolerated as stale data.
	PersonID string `json:"personId"`

	// Amount is the payment amount. The command layer rejects values <= 0;
	// storage does not.
	Amount float64 `json:"amount"`

	// ShamsiYear and ShamsiMonth identify the period being paid for.
	// ShamsiMonth is in [1,12].
	ShamsiYear  int `json:"shamsiYear"`
	ShamsiMonth int `json:"shamsiMonth"`

	// Timestamp is the creation time in epoch milliseconds. Set once, used
	// for ordering and for "paid this month" checks.
	Timestamp int64 `json:"timestamp"`
}

// NewPaymentRecord creates a payment with a fresh id and current timestamp.
func NewPaymentRecord(personID string, amount float64, year, month int) PaymentRecord {
	return PaymentRecord{
		ID:          uuid.New().String(),
		PersonID:    personID,
		Amount:      amount,
		ShamsiYear:  year,
		ShamsiMonth: month,
		Timestamp:   time.Now().UnixMilli(),
	}
}
