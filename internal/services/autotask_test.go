package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mspforge/contactsync/internal/models"
	"github.com/mspforge/contactsync/internal/shared"
	tu "github.com/mspforge/contactsync/internal/testing"
)

func TestNewAutotaskService(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewAutotaskService("", "secret", "CODE", "https://example.com")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("missing base URL", func(t *testing.T) {
		_, err := NewAutotaskService("user", "secret", "CODE", "")
		if err == nil {
			t.Error("expected error for missing base URL")
		}
	})

	t.Run("interface", func(t *testing.T) {
		srv, err := NewAutotaskService("user", "secret", "CODE", "https://example.com/")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if srv.baseURL != "https://example.com" {
			t.Errorf("expected trailing slash trimmed, got %s", srv.baseURL)
		}
		if srv.Name() != "Autotask" {
			t.Errorf("expected service name 'Autotask', got %s", srv.Name())
		}
		var _ PSA = srv
	})
}

func newAutotaskTestService(t *testing.T, handler http.Handler) (*AutotaskService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	srv, err := NewAutotaskService("apiuser@example.com", "s3cret", "TRACK123", server.URL)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return srv, server
}

func assertAutotaskHeaders(t *testing.T, r *http.Request) {
	t.Helper()
	if r.Header.Get("ApiIntegrationCode") != "TRACK123" {
		t.Errorf("missing ApiIntegrationCode header")
	}
	if r.Header.Get("UserName") != "apiuser@example.com" {
		t.Errorf("missing UserName header")
	}
	if r.Header.Get("Secret") != "s3cret" {
		t.Errorf("missing Secret header")
	}
}

func TestAutotaskService_Companies(t *testing.T) {
	var server *httptest.Server
	page := 0

	srv, s := newAutotaskTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assertAutotaskHeaders(t, r)
		page++
		switch page {
		case 1:
			fmt.Fprintf(w, `{
				"items": [
					{"id": 9001, "companyName": "Acme Ltd"},
					{"id": 9002, "companyName": "Globex"}
				],
				"pageDetails": {"requestCount": 2, "nextPageUrl": "%s/Companies/query?page=2"}
			}`, server.URL)
		default:
			fmt.Fprint(w, `{
				"items": [{"id": 9003, "companyName": "Initech"}],
				"pageDetails": {"requestCount": 1, "nextPageUrl": null}
			}`)
		}
	}))
	server = s

	companies, err := srv.Companies(context.Background())
	if err != nil {
		t.Fatalf("Companies() error = %v", err)
	}

	if len(companies) != 3 {
		t.Fatalf("expected 3 companies, got %d", len(companies))
	}
	if companies[0].ID != "9001" || companies[0].Name != "Acme Ltd" {
		t.Errorf("unexpected first company: %+v", companies[0])
	}
	if companies[2].ID != "9003" {
		t.Errorf("expected paginated company 9003, got %+v", companies[2])
	}
}

func TestAutotaskService_ContactEmails(t *testing.T) {
	srv, _ := newAutotaskTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"items": [
				{"id": 1, "companyID": 9001, "firstName": "Jane", "lastName": "Doe", "emailAddress": "  Jane@X.com "},
				{"id": 2, "companyID": 9001, "firstName": "No", "lastName": "Email", "emailAddress": ""},
				{"id": 3, "companyID": 9002, "firstName": "Dup", "lastName": "Licate", "emailAddress": "jane@x.com"}
			],
			"pageDetails": {"requestCount": 3, "nextPageUrl": null}
		}`)
	}))

	emails, err := srv.ContactEmails(context.Background())
	if err != nil {
		t.Fatalf("ContactEmails() error = %v", err)
	}

	if len(emails) != 1 {
		t.Fatalf("expected 1 unique normalized email, got %d: %v", len(emails), emails)
	}
	if _, ok := emails["jane@x.com"]; !ok {
		t.Error("expected normalized jane@x.com in the set")
	}
}

func TestAutotaskService_TransportError(t *testing.T) {
	srv, err := NewAutotaskService("apiuser@example.com", "s3cret", "TRACK123", "https://example.invalid")
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	srv.httpClient = &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection reset"))}

	_, err = srv.Companies(context.Background())
	if err == nil {
		t.Fatal("expected error when the transport fails")
	}
	if !strings.Contains(err.Error(), "request failed") {
		t.Errorf("expected wrapped transport error, got %v", err)
	}
}

func TestAutotaskService_CreateContact(t *testing.T) {
	contact := models.Contact{
		ID:        "c1",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "Jane@X.com",
		Phone:     "+441234567",
		OrgID:     "1",
	}

	t.Run("success", func(t *testing.T) {
		srv, _ := newAutotaskTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assertAutotaskHeaders(t, r)
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != "/Companies/9001/Contacts" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}

			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode payload: %v", err)
			}
			if payload["FirstName"] != "Jane" || payload["LastName"] != "Doe" {
				t.Errorf("unexpected name fields: %v", payload)
			}
			if payload["EmailAddress"] != "jane@x.com" {
				t.Errorf("expected normalized email, got %v", payload["EmailAddress"])
			}
			if payload["IsActive"] != float64(1) {
				t.Errorf("expected IsActive 1, got %v", payload["IsActive"])
			}

			fmt.Fprint(w, `{"itemId": 555}`)
		}))

		created, err := srv.CreateContact(context.Background(), "9001", contact)
		if err != nil {
			t.Fatalf("CreateContact() error = %v", err)
		}
		if created.ID != "555" {
			t.Errorf("expected created ID 555, got %s", created.ID)
		}
		if created.Email != "jane@x.com" {
			t.Errorf("expected normalized email on result, got %s", created.Email)
		}
	})

	t.Run("invalid contact rejected locally", func(t *testing.T) {
		called := false
		srv, _ := newAutotaskTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		_, err := srv.CreateContact(context.Background(), "9001", models.Contact{FirstName: "Jane"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if called {
			t.Error("invalid contact should not reach the API")
		}
	})

	t.Run("server error surfaces message", func(t *testing.T) {
		srv, _ := newAutotaskTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"errors": ["CompanyID is not an editable field."]}`)
		}))

		_, err := srv.CreateContact(context.Background(), "9001", contact)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "CompanyID is not an editable field") {
			t.Errorf("expected vendor message in error, got %v", err)
		}
	})

	t.Run("auth failure", func(t *testing.T) {
		srv, _ := newAutotaskTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))

		_, err := srv.CreateContact(context.Background(), "9001", contact)
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}
