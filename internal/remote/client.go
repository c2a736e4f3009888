// Package remote implements the HTTP JSON client of the monthlypay API.
// The API is the sole source of truth for persons and payments; the local
// store mirrors it through the reconciliation engine.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oqba26/monthlypay/internal/models"
)

// Credentials is the login/register request payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is the successful login/register response. The server may omit
// the user id.
type AuthResult struct {
	Token  string  `json:"token"`
	UserID *string `json:"userId"`
}

// Client talks to the remote API. All methods return a *StatusError for
// non-success responses, so callers can distinguish a 409 duplicate name or
// a 401 expired session from transport failures.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a remote API client. Requests carry a Bearer token from
// the TokenSource (resolved per request, before dispatch) and are logged at
// debug level.
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	var rt http.RoundTripper = http.DefaultTransport
	rt = &authTransport{base: rt, tokens: tokens}
	rt = &loggingTransport{base: rt, logger: logger}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: rt,
			Timeout:   30 * time.Second,
		},
	}
}

// Login authenticates against the remote API.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/login", creds, &res)
	return res, err
}

// Register creates an account on the remote API.
func (c *Client) Register(ctx context.Context, creds Credentials) (AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/register", creds, &res)
	return res, err
}

// ListPersons fetches the complete remote person set.
func (c *Client) ListPersons(ctx context.Context) ([]models.Person, error) {
	var persons []models.Person
	if err := c.do(ctx, http.MethodGet, "/persons", nil, &persons); err != nil {
		return nil, err
	}
	return persons, nil
}

// CreatePerson adds a person. A duplicate name surfaces as a 409 StatusError.
func (c *Client) CreatePerson(ctx context.Context, p models.Person) error {
	return c.do(ctx, http.MethodPost, "/persons", p, nil)
}

// UpdatePerson renames an existing person.
func (c *Client) UpdatePerson(ctx context.Context, p models.Person) error {
	return c.do(ctx, http.MethodPut, "/persons/"+url.PathEscape(p.ID), p, nil)
}

// DeletePerson removes a person and all of their payments.
func (c *Client) DeletePerson(ctx context.Context, personID string) error {
	return c.do(ctx, http.MethodDelete, "/persons/"+url.PathEscape(personID), nil, nil)
}

// ListPayments fetches the complete remote payment set.
func (c *Client) ListPayments(ctx context.Context) ([]models.PaymentRecord, error) {
	var payments []models.PaymentRecord
	if err := c.do(ctx, http.MethodGet, "/payments", nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// CreatePayment records a payment. The server upserts by id, so resubmitting
// an existing record updates it (last write wins).
func (c *Client) CreatePayment(ctx context.Context, rec models.PaymentRecord) error {
	return c.do(ctx, http.MethodPost, "/payments", rec, nil)
}

// DeletePayment removes a payment.
func (c *Client) DeletePayment(ctx context.Context, paymentID string) error {
	return c.do(ctx, http.MethodDelete, "/payments/"+url.PathEscape(paymentID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote API %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Method: method, Path: path}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
		}
	}
	return nil
}
