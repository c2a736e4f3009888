package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oqba26/monthlypay/internal/models"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token(ctx context.Context) (string, error) { return s.token, s.err }

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.Person{})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: "tok123"}, nil)
	if _, err := client.ListPersons(context.Background()); err != nil {
		t.Fatalf("ListPersons failed: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Expected Bearer header, got %q", gotAuth)
	}
}

func TestClientOmitsHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.PaymentRecord{})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{}, nil)
	if _, err := client.ListPayments(context.Background()); err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Expected no Authorization header, got %q", gotAuth)
	}
}

func TestClientTokenSourceErrorAbortsRequest(t *testing.T) {
	reached := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{err: errors.New("session expired")}, nil)
	if _, err := client.ListPersons(context.Background()); err == nil {
		t.Fatal("Expected an error from the token source")
	}
	if reached {
		t.Error("Request was dispatched despite token resolution failure")
	}
}

func TestClientStatusErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/persons":
			w.WriteHeader(http.StatusConflict)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{}, nil)
	ctx := context.Background()

	t.Run("409 is a conflict", func(t *testing.T) {
		err := client.CreatePerson(ctx, models.NewPerson("Ali"))
		if !IsConflict(err) {
			t.Errorf("Expected conflict, got %v", err)
		}
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusConflict {
			t.Errorf("Expected StatusError 409, got %v", err)
		}
	})

	t.Run("401 is unauthorized", func(t *testing.T) {
		err := client.DeletePayment(ctx, "m1")
		if !IsUnauthorized(err) {
			t.Errorf("Expected unauthorized, got %v", err)
		}
		if IsConflict(err) {
			t.Error("401 misclassified as conflict")
		}
	})
}

func TestClientLoginDecodesResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		if creds.Username != "u" || creds.Password != "p" {
			t.Errorf("Unexpected credentials: %+v", creds)
		}
		json.NewEncoder(w).Encode(AuthResult{Token: "tok", UserID: ptr("uid")})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{}, nil)
	res, err := client.Login(context.Background(), Credentials{Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Token != "tok" || res.UserID == nil || *res.UserID != "uid" {
		t.Errorf("Unexpected result: %+v", res)
	}
}

func TestClientListPersons(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Person{
			{ID: "a", Name: "Ali", CreatedAt: 1},
			{ID: "s", Name: "Sara", CreatedAt: 2},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{}, nil)
	persons, err := client.ListPersons(context.Background())
	if err != nil {
		t.Fatalf("ListPersons failed: %v", err)
	}
	if len(persons) != 2 || persons[0].ID != "a" {
		t.Errorf("Unexpected persons: %+v", persons)
	}
}

func ptr(s string) *string { return &s }
