package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// TokenSource supplies the current auth token before a request is dispatched.
// The lookup is context-aware and runs before the request leaves the client;
// no worker thread ever blocks on a synchronous settings read mid-flight.
// An empty token with a nil error means "not logged in": the request goes out
// without an Authorization header and the server decides.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// authTransport attaches a Bearer token from the TokenSource to every
// outgoing request.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokens.Token(req.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve auth token: %w", err)
	}

	if token != "" {
		// Clone before mutating; RoundTrippers must not modify the original.
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.base.RoundTrip(req)
}

// loggingTransport logs every request with method, path, status and duration.
type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		t.logger.Warn("remote request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"duration_ms", duration,
			"error", err,
		)
		return nil, err
	}

	t.logger.Debug("remote request completed",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", duration,
	)
	return resp, nil
}
