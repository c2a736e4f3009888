package settings

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSessionExpired is returned by Token when the stored JWT has expired.
// A refresh cycle that sees this skips the remote fetch instead of burning a
// request on a guaranteed 401.
var ErrSessionExpired = errors.New("auth session expired, login required")

// Token implements remote.TokenSource. It returns the stored token, or ""
// when no session exists. Tokens that parse as JWTs and carry an expiry in
// the past yield ErrSessionExpired; the signature is not checked because the
// client holds no signing key; the server remains the authority.
func (r *Repository) Token(ctx context.Context) (string, error) {
	token, ok, err := r.store.GetSetting(ctx, keyAuthToken)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque (non-JWT) token; pass it through and let the server decide.
		return token, nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return token, nil
	}
	if exp.Before(time.Now()) {
		return "", ErrSessionExpired
	}
	return token, nil
}

// Authenticated reports whether a token is stored, expired or not.
func (r *Repository) Authenticated(ctx context.Context) (bool, error) {
	_, ok, err := r.store.GetSetting(ctx, keyAuthToken)
	return ok, err
}
