package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oqba26/monthlypay/internal/models"
	"github.com/oqba26/monthlypay/internal/remote"
	"github.com/oqba26/monthlypay/internal/settings"
)

var (
	// ErrEmptyName rejects a person whose name trims to nothing.
	ErrEmptyName = errors.New("person name must not be empty")

	// ErrInvalidAmount rejects a payment amount <= 0.
	ErrInvalidAmount = errors.New("payment amount must be positive")

	// ErrInvalidMonth rejects a Shamsi month outside [1,12].
	ErrInvalidMonth = errors.New("shamsi month must be between 1 and 12")

	// ErrDuplicateName maps the remote 409 response for person creation.
	ErrDuplicateName = errors.New("a person with this name already exists")

	// ErrLoginFailed covers a login/register response without a usable token.
	ErrLoginFailed = errors.New("authentication failed")
)

// Commands validates user actions and forwards them to the remote API.
// Mutations do not touch the local store directly; the next refresh pulls
// the authoritative state back down.
type Commands struct {
	api      API
	settings *settings.Repository
	logger   *slog.Logger
}

// NewCommands creates the command layer.
func NewCommands(api API, st *settings.Repository, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	return &Commands{api: api, settings: st, logger: logger}
}

// AddPerson creates a person with the given name. The name is trimmed and
// must be non-empty; a remote duplicate-name rejection surfaces as
// ErrDuplicateName.
func (c *Commands) AddPerson(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	err := c.api.CreatePerson(ctx, models.NewPerson(name))
	if remote.IsConflict(err) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return err
}

// UpdatePerson renames an existing person.
func (c *Commands) UpdatePerson(ctx context.Context, personID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	err := c.api.UpdatePerson(ctx, models.Person{ID: personID, Name: name})
	if remote.IsConflict(err) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return err
}

// DeletePerson removes a person and all of their payments.
func (c *Commands) DeletePerson(ctx context.Context, personID string) error {
	return c.api.DeletePerson(ctx, personID)
}

// AddPayment records a payment for the given person and Shamsi period.
func (c *Commands) AddPayment(ctx context.Context, personID string, amount float64, year, month int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return c.api.CreatePayment(ctx, models.NewPaymentRecord(personID, amount, year, month))
}

// UpdatePayment resubmits an existing payment with a new amount. The server
// upserts by id, so this is last-write-wins on the record.
func (c *Commands) UpdatePayment(ctx context.Context, rec models.PaymentRecord, newAmount float64) error {
	if newAmount <= 0 {
		return ErrInvalidAmount
	}
	rec.Amount = newAmount
	return c.api.CreatePayment(ctx, rec)
}

// DeletePayment removes a payment.
func (c *Commands) DeletePayment(ctx context.Context, paymentID string) error {
	return c.api.DeletePayment(ctx, paymentID)
}

// Login authenticates and persists the session.
func (c *Commands) Login(ctx context.Context, username, password string) error {
	res, err := c.api.Login(ctx, remote.Credentials{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	return c.saveSession(ctx, res)
}

// Register creates an account and persists the session.
func (c *Commands) Register(ctx context.Context, username, password string) error {
	res, err := c.api.Register(ctx, remote.Credentials{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	return c.saveSession(ctx, res)
}

// Logout clears the stored session.
func (c *Commands) Logout(ctx context.Context) error {
	return c.settings.SaveAuthData(ctx, nil, nil)
}

func (c *Commands) saveSession(ctx context.Context, res remote.AuthResult) error {
	if strings.TrimSpace(res.Token) == "" {
		return ErrLoginFailed
	}
	if err := c.settings.SaveAuthData(ctx, &res.Token, res.UserID); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	c.logger.Info("session established")
	return nil
}
