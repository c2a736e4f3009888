// Package settings provides typed access to the persisted key/value settings:
// the default payment amount, the UI font name, and the auth session.
package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/oqba26/monthlypay/internal/storage"
)

const (
	keyDefaultPaymentAmount = "default_payment_amount"
	keySelectedFontName     = "selected_font_name"
	keyAuthToken            = "auth_token"
	keyUserID               = "user_id"

	// FallbackAmount is used when no default payment amount has been saved.
	FallbackAmount = 200000.0

	// DefaultFont is used when no font has been selected.
	DefaultFont = "Estedad"
)

// Repository reads and writes settings through the store handle.
type Repository struct {
	store storage.Store
}

// NewRepository creates a settings repository over the given store.
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

// DefaultPaymentAmount returns the saved default amount, or FallbackAmount
// when none is saved.
func (r *Repository) DefaultPaymentAmount(ctx context.Context) (float64, error) {
	raw, ok, err := r.store.GetSetting(ctx, keyDefaultPaymentAmount)
	if err != nil {
		return 0, err
	}
	if !ok {
		return FallbackAmount, nil
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt default payment amount %q: %w", raw, err)
	}
	return amount, nil
}

// SetDefaultPaymentAmount saves the default amount.
func (r *Repository) SetDefaultPaymentAmount(ctx context.Context, amount float64) error {
	return r.store.SetSetting(ctx, keyDefaultPaymentAmount, strconv.FormatFloat(amount, 'f', -1, 64))
}

// Font returns the selected font name, or DefaultFont when none is saved.
func (r *Repository) Font(ctx context.Context) (string, error) {
	name, ok, err := r.store.GetSetting(ctx, keySelectedFontName)
	if err != nil {
		return "", err
	}
	if !ok {
		return DefaultFont, nil
	}
	return name, nil
}

// SetFont saves the selected font name.
func (r *Repository) SetFont(ctx context.Context, name string) error {
	return r.store.SetSetting(ctx, keySelectedFontName, name)
}

// UserID returns the stored user id, if any.
func (r *Repository) UserID(ctx context.Context) (string, bool, error) {
	return r.store.GetSetting(ctx, keyUserID)
}

// SaveAuthData stores the token and user id after a successful login.
// Passing nil for either clears it; SaveAuthData(ctx, nil, nil) is logout.
func (r *Repository) SaveAuthData(ctx context.Context, token, userID *string) error {
	if err := r.saveOrClear(ctx, keyAuthToken, token); err != nil {
		return err
	}
	return r.saveOrClear(ctx, keyUserID, userID)
}

func (r *Repository) saveOrClear(ctx context.Context, key string, value *string) error {
	if value == nil {
		return r.store.DeleteSetting(ctx, key)
	}
	return r.store.SetSetting(ctx, key, *value)
}
