package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/narvas12/mercor-assessment/internal/retry"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newTestClient(server *httptest.Server) *Client {
	client := New(Config{Token: "secret-token", BaseID: "appTest"}, zap.NewNop())
	client.APIURL = server.URL
	client.HTTPClient = server.Client()
	client.Limiter = rate.NewLimiter(rate.Inf, 1)
	client.Retry = retry.Policy{MaxAttempts: 3, Base: 0}
	return client
}

func TestListFollowsPagination(t *testing.T) {
	var offsets []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Fatalf("unexpected authorization header: %q", got)
		}

		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)

		switch offset {
		case "":
			json.NewEncoder(w).Encode(listResponse{
				Records: []Record{{ID: "rec1"}, {ID: "rec2"}},
				Offset:  "page2",
			})
		case "page2":
			json.NewEncoder(w).Encode(listResponse{
				Records: []Record{{ID: "rec3"}},
			})
		default:
			t.Fatalf("unexpected offset: %q", offset)
		}
	}))
	defer server.Close()

	client := newTestClient(server)

	records, err := client.List(context.Background(), "Applicants", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0].ID != "rec1" || records[2].ID != "rec3" {
		t.Fatalf("records out of server order: %+v", records)
	}

	if len(offsets) != 2 || offsets[1] != "page2" {
		t.Fatalf("expected exactly one follow-up request with the offset token, got %v", offsets)
	}
}

func TestListAppliesFilterFormula(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("filterByFormula"); got != "{Applicant ID} = 'A-7'" {
			t.Fatalf("unexpected filter formula: %q", got)
		}
		json.NewEncoder(w).Encode(listResponse{})
	}))
	defer server.Close()

	client := newTestClient(server)

	if _, err := client.List(context.Background(), "Applicants", EqualsFormula("Applicant ID", "A-7")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateWrapsFieldsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}

		var envelope map[string]any
		if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode payload: %v", err)
		}

		fields, ok := envelope["fields"].(map[string]any)
		if !ok {
			t.Fatalf("expected fields envelope, got %v", envelope)
		}
		if fields["Company"] != "Acme" {
			t.Fatalf("unexpected fields: %v", fields)
		}

		json.NewEncoder(w).Encode(Record{ID: "recNew", Fields: fields})
	}))
	defer server.Close()

	client := newTestClient(server)

	record, err := client.Create(context.Background(), "Work Experience", map[string]any{"Company": "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID != "recNew" {
		t.Fatalf("unexpected record id: %q", record.ID)
	}
}

func TestRetryOnServerError(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(Record{ID: "rec1"})
	}))
	defer server.Close()

	client := newTestClient(server)

	record, err := client.Get(context.Background(), "Applicants", "rec1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID != "rec1" {
		t.Fatalf("unexpected record: %+v", record)
	}

	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryExhaustionPropagatesError(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.Get(context.Background(), "Applicants", "rec1")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected underlying status error, got %v", err)
	}

	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestClientErrorDoesNotConsumeRetryBudget(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := newTestClient(server)

	if _, err := client.Get(context.Background(), "Applicants", "rec1"); err == nil {
		t.Fatalf("expected error")
	}

	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestGetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.Get(context.Background(), "Applicants", "recMissing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindOneByFieldNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(listResponse{})
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.FindOneByField(context.Background(), "Applicants", "Applicant ID", "A-404")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindOneByFieldReturnsFirstMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(listResponse{
			Records: []Record{{ID: "recA"}, {ID: "recB"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server)

	record, err := client.FindOneByField(context.Background(), "Applicants", "Applicant ID", "A-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID != "recA" {
		t.Fatalf("expected first match, got %q", record.ID)
	}
}
