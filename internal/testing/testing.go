// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/mspforge/contactsync/internal/models"
)

// MockDirectory is a configurable test double for [services.Directory]
type MockDirectory struct {
	Orgs        []models.Organization
	OrgContacts map[string][]models.Contact
	Err         error
}

func (m *MockDirectory) Organizations(ctx context.Context) ([]models.Organization, error) {
	return m.Orgs, m.Err
}

func (m *MockDirectory) Contacts(ctx context.Context, orgID string) ([]models.Contact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.OrgContacts[orgID], nil
}

func (m *MockDirectory) Name() string { return "mock directory" }

// MockPSA is a configurable test double for [services.PSA] that records
// every create call it receives.
type MockPSA struct {
	Cos          []models.Company
	Emails       map[string]struct{}
	CreateErr    error            // returned from every create
	CreateErrFor map[string]error // returned for specific contact emails
	Err          error

	CreateCalls []models.Candidate
	nextID      int
}

func (m *MockPSA) Companies(ctx context.Context) ([]models.Company, error) {
	return m.Cos, m.Err
}

func (m *MockPSA) ContactEmails(ctx context.Context) (map[string]struct{}, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Emails == nil {
		return map[string]struct{}{}, nil
	}
	return m.Emails, nil
}

func (m *MockPSA) CreateContact(ctx context.Context, companyID string, contact models.Contact) (*models.Contact, error) {
	m.CreateCalls = append(m.CreateCalls, models.Candidate{CompanyID: companyID, Contact: contact})
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if err, ok := m.CreateErrFor[contact.Email]; ok {
		return nil, err
	}
	m.nextID++
	created := contact
	created.ID = fmt.Sprintf("%d", m.nextID)
	return &created, nil
}

func (m *MockPSA) Name() string { return "mock psa" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
