// Package service holds the command layer and the background syncer that sit
// between the callers (CLI, future UI) and the remote API + local store.
package service

import (
	"context"

	"github.com/oqba26/monthlypay/internal/models"
	"github.com/oqba26/monthlypay/internal/remote"
)

// API is the remote surface the service layer consumes. *remote.Client
// implements it; tests substitute a fake.
type API interface {
	Login(ctx context.Context, creds remote.Credentials) (remote.AuthResult, error)
	Register(ctx context.Context, creds remote.Credentials) (remote.AuthResult, error)

	ListPersons(ctx context.Context) ([]models.Person, error)
	CreatePerson(ctx context.Context, p models.Person) error
	UpdatePerson(ctx context.Context, p models.Person) error
	DeletePerson(ctx context.Context, personID string) error

	ListPayments(ctx context.Context) ([]models.PaymentRecord, error)
	CreatePayment(ctx context.Context, rec models.PaymentRecord) error
	DeletePayment(ctx context.Context, paymentID string) error
}

var _ API = (*remote.Client)(nil)
