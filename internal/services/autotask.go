// Autotask REST API implementation of [PSA]
//
// Autotask authenticates with an ApiIntegrationCode/UserName/Secret header
// triplet. Query endpoints page via pageDetails.nextPageUrl. Response types
// based on https://ww2.autotask.net/help/DeveloperHelp/Content/APIs/REST/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mspforge/contactsync/internal/models"
	"github.com/mspforge/contactsync/internal/shared"
)

// queryAll matches every record; both dedupe queries want the full set.
const autotaskQueryAll = `{"filter":[{"op":"gte","field":"id","value":0}]}`

// AutotaskCompany represents a company item from a query response.
type AutotaskCompany struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"companyName"`
}

// AutotaskContact represents a contact item from a query response.
type AutotaskContact struct {
	ID           int64  `json:"id"`
	CompanyID    int64  `json:"companyID"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	Phone        string `json:"phone"`
}

type autotaskPageDetails struct {
	RequestCount int    `json:"requestCount"`
	NextPageUrl  string `json:"nextPageUrl"`
}

type autotaskCompanyPage struct {
	Items       []AutotaskCompany   `json:"items"`
	PageDetails autotaskPageDetails `json:"pageDetails"`
}

type autotaskContactPage struct {
	Items       []AutotaskContact   `json:"items"`
	PageDetails autotaskPageDetails `json:"pageDetails"`
}

// AutotaskService implements the PSA interface for Autotask REST API interactions.
type AutotaskService struct {
	username        string
	secret          string
	integrationCode string
	baseURL         string
	httpClient      *http.Client
}

// NewAutotaskService creates a new Autotask service with the given API user
// credentials and zone base URL.
func NewAutotaskService(username, secret, integrationCode, baseURL string) (*AutotaskService, error) {
	if username == "" || secret == "" || integrationCode == "" {
		return nil, fmt.Errorf("%w: Autotask requires username, secret and integration code", shared.ErrMissingCredentials)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("%w: missing Autotask zone base URL", shared.ErrInvalidConfig)
	}

	return &AutotaskService{
		username:        username,
		secret:          secret,
		integrationCode: integrationCode,
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      http.DefaultClient,
	}, nil
}

func (a *AutotaskService) Name() string {
	return "Autotask"
}

// doRequest performs an authenticated request against the Autotask REST API.
// The endpoint may be a path or an absolute URL (nextPageUrl is absolute).
func (a *AutotaskService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	apiURL := endpoint
	if strings.HasPrefix(endpoint, "/") {
		apiURL = a.baseURL + endpoint
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("ApiIntegrationCode", a.integrationCode)
	req.Header.Set("UserName", a.username)
	req.Header.Set("Secret", a.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: Autotask returned status %d, check the API user and integration code", shared.ErrAuthFailed, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Autotask puts the useful message in the errors array
		var errResp struct {
			Errors []string `json:"errors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && len(errResp.Errors) > 0 {
			return fmt.Errorf("%w: Autotask returned status %d: %s", shared.ErrAPIRequest, resp.StatusCode, strings.Join(errResp.Errors, "; "))
		}
		return fmt.Errorf("%w: Autotask returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Companies retrieves all companies via the paginated query endpoint.
func (a *AutotaskService) Companies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company

	endpoint := "/Companies/query?search=" + url.QueryEscape(autotaskQueryAll)
	for endpoint != "" {
		var page autotaskCompanyPage
		if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			companies = append(companies, models.Company{
				ID:   strconv.FormatInt(item.ID, 10),
				Name: item.CompanyName,
			})
		}
		endpoint = page.PageDetails.NextPageUrl
	}

	return companies, nil
}

// ContactEmails retrieves the normalized emails of all existing contacts.
func (a *AutotaskService) ContactEmails(ctx context.Context) (map[string]struct{}, error) {
	emails := make(map[string]struct{})

	endpoint := "/Contacts/query?search=" + url.QueryEscape(autotaskQueryAll)
	for endpoint != "" {
		var page autotaskContactPage
		if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if email := shared.NormalizeEmail(item.EmailAddress); email != "" {
				emails[email] = struct{}{}
			}
		}
		endpoint = page.PageDetails.NextPageUrl
	}

	return emails, nil
}

// CreateContact creates a contact under the given company.
//
// Autotask requires first name, last name and email; callers are expected
// to have validated the contact already.
func (a *AutotaskService) CreateContact(ctx context.Context, companyID string, contact models.Contact) (*models.Contact, error) {
	if err := contact.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	payload := struct {
		IsActive     int    `json:"IsActive"`
		FirstName    string `json:"FirstName"`
		LastName     string `json:"LastName"`
		EmailAddress string `json:"EmailAddress"`
		Phone        string `json:"Phone"`
	}{
		IsActive:     1,
		FirstName:    contact.FirstName,
		LastName:     contact.LastName,
		EmailAddress: shared.NormalizeEmail(contact.Email),
		Phone:        contact.Phone,
	}

	var created struct {
		ItemID int64 `json:"itemId"`
	}

	endpoint := fmt.Sprintf("/Companies/%s/Contacts", companyID)
	if err := a.doRequest(ctx, http.MethodPost, endpoint, payload, &created); err != nil {
		return nil, err
	}

	return &models.Contact{
		ID:        strconv.FormatInt(created.ItemID, 10),
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     payload.EmailAddress,
		Phone:     contact.Phone,
		OrgID:     contact.OrgID,
	}, nil
}
