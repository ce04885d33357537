// IT Glue API implementation of [Directory]
//
// IT Glue exposes a JSON:API (application/vnd.api+json) authenticated with
// an x-api-key header. Response types based on https://api.itglue.com/developer/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mspforge/contactsync/internal/models"
	"github.com/mspforge/contactsync/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultITGlueBaseURL = "https://api.eu.itglue.com"
	defaultITGluePage    = 100
	// The documented limit is 10 requests per second; stay just under it.
	defaultITGlueRPS = 9.0

	adapterDirectory = "Microsoft"
	adapterPSA       = "Autotask"

	licenseTagResource = "Microsoft Licenses"
)

// flexString decodes JSON values that IT Glue serves inconsistently as
// either a string or a number (remote-id in particular).
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// ITGlueLinks holds the pagination links of a JSON:API response.
type ITGlueLinks struct {
	Next string `json:"next"`
}

// ITGlueOrg represents an organization resource.
type ITGlueOrg struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Name string `json:"name"`
	} `json:"attributes"`
}

// ITGlueAdapter represents an adapters-resources include, carrying the sync
// flags and the remote ID the organization maps to on the other system.
type ITGlueAdapter struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		AdapterTypeName string     `json:"adapter-type-name"`
		Sync            bool       `json:"sync"`
		Orphaned        bool       `json:"orphaned"`
		RemoteID        flexString `json:"remote-id"`
	} `json:"attributes"`
}

// ITGlueContactMethod is a contact-emails / contact-phones entry.
type ITGlueContactMethod struct {
	Value   string `json:"value"`
	Primary bool   `json:"primary"`
}

// ITGlueContact represents a contact resource.
type ITGlueContact struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		FirstName     string                `json:"first-name"`
		LastName      string                `json:"last-name"`
		ContactEmails []ITGlueContactMethod `json:"contact-emails"`
		ContactPhones []ITGlueContactMethod `json:"contact-phones"`
	} `json:"attributes"`
}

// ITGlueTag represents a tags include. Contacts holding a Microsoft license
// carry a tag whose resource-type-name is "Microsoft Licenses".
type ITGlueTag struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		ResourceTypeName string `json:"resource-type-name"`
	} `json:"attributes"`
}

type itglueOrgPage struct {
	Data  []ITGlueOrg `json:"data"`
	Links ITGlueLinks `json:"links"`
}

type itglueOrgDetail struct {
	Data     ITGlueOrg       `json:"data"`
	Included []ITGlueAdapter `json:"included"`
}

type itglueContactPage struct {
	Data  []ITGlueContact `json:"data"`
	Links ITGlueLinks     `json:"links"`
}

type itglueContactDetail struct {
	Data     ITGlueContact     `json:"data"`
	Included []json.RawMessage `json:"included"`
}

// ITGlueService implements the Directory interface for IT Glue API interactions.
// Every request passes through a [rate.Limiter] to honor the vendor's limit.
type ITGlueService struct {
	apiKey     string
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewITGlueService creates a new IT Glue service with the given API key.
// Zero values for baseURL, pageSize, and rps select the defaults.
func NewITGlueService(apiKey, baseURL string, pageSize int, rps float64) (*ITGlueService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing IT Glue API key", shared.ErrMissingCredentials)
	}
	if baseURL == "" {
		baseURL = defaultITGlueBaseURL
	}
	if pageSize <= 0 {
		pageSize = defaultITGluePage
	}
	if rps <= 0 {
		rps = defaultITGlueRPS
	}

	return &ITGlueService{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

func (g *ITGlueService) Name() string {
	return "IT Glue"
}

// doRequest performs a rate-limited, authenticated request against the
// IT Glue API. The endpoint may be a path or an absolute URL (pagination
// links are absolute).
func (g *ITGlueService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	apiURL := endpoint
	if strings.HasPrefix(endpoint, "/") {
		apiURL = g.baseURL + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", g.apiKey)
	req.Header.Set("Content-Type", "application/vnd.api+json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: IT Glue returned status %d, check the API key", shared.ErrAuthFailed, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: IT Glue returned status %d for %s", shared.ErrAPIRequest, resp.StatusCode, apiURL)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Organizations retrieves every organization configured for dual sync.
//
// Pages through GET /organizations, then reads each organization's
// adapters_resources include to resolve the sync flags and the Autotask
// company ID.
func (g *ITGlueService) Organizations(ctx context.Context) ([]models.Organization, error) {
	var all []ITGlueOrg

	endpoint := fmt.Sprintf("/organizations?page[number]=1&page[size]=%d", g.pageSize)
	for endpoint != "" {
		var page itglueOrgPage
		if err := g.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		endpoint = page.Links.Next
	}

	var orgs []models.Organization
	for _, o := range all {
		org, err := g.organizationDetail(ctx, o)
		if err != nil {
			return nil, err
		}
		if org.DualSync() {
			orgs = append(orgs, org)
		}
	}

	return orgs, nil
}

// organizationDetail resolves an organization's adapter flags and remote
// company ID from its adapters_resources include.
func (g *ITGlueService) organizationDetail(ctx context.Context, o ITGlueOrg) (models.Organization, error) {
	org := models.Organization{ID: o.ID, Name: o.Attributes.Name}

	var detail itglueOrgDetail
	endpoint := fmt.Sprintf("/organizations/%s?include=adapters_resources", o.ID)
	if err := g.doRequest(ctx, endpoint, &detail); err != nil {
		return org, err
	}

	for _, adapter := range detail.Included {
		attrs := adapter.Attributes
		switch attrs.AdapterTypeName {
		case adapterDirectory:
			if attrs.Sync {
				org.DirectorySync = true
			}
		case adapterPSA:
			if attrs.Sync && !attrs.Orphaned {
				org.PSASync = true
				org.CompanyID = string(attrs.RemoteID)
			}
		}
	}

	return org, nil
}

// Contacts retrieves all contacts for an organization.
//
// Pages through the contacts relationship to collect IDs, then fetches each
// contact's detail with its contact methods and tags included.
func (g *ITGlueService) Contacts(ctx context.Context, orgID string) ([]models.Contact, error) {
	var ids []string

	endpoint := fmt.Sprintf("/organizations/%s/relationships/contacts?page[size]=%d", orgID, g.pageSize)
	for endpoint != "" {
		var page itglueContactPage
		if err := g.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		for _, c := range page.Data {
			ids = append(ids, c.ID)
		}
		endpoint = page.Links.Next
	}

	contacts := make([]models.Contact, 0, len(ids))
	for _, id := range ids {
		contact, err := g.contactDetail(ctx, orgID, id)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}

	return contacts, nil
}

// contactDetail fetches a single contact with its includes and maps it to
// the domain model.
func (g *ITGlueService) contactDetail(ctx context.Context, orgID, contactID string) (models.Contact, error) {
	var detail itglueContactDetail
	endpoint := fmt.Sprintf(
		"/organizations/%s/relationships/contacts/%s?include=contact_methods,related_items",
		orgID, contactID,
	)
	if err := g.doRequest(ctx, endpoint, &detail); err != nil {
		return models.Contact{}, err
	}

	attrs := detail.Data.Attributes
	contact := models.Contact{
		ID:        detail.Data.ID,
		FirstName: attrs.FirstName,
		LastName:  attrs.LastName,
		Email:     primaryMethod(attrs.ContactEmails),
		Phone:     primaryPhone(attrs.ContactPhones),
		OrgID:     orgID,
	}

	for _, raw := range detail.Included {
		var tag ITGlueTag
		if err := json.Unmarshal(raw, &tag); err != nil {
			continue
		}
		if tag.Type == "tags" && tag.Attributes.ResourceTypeName == licenseTagResource {
			contact.Licensed = true
			break
		}
	}

	return contact, nil
}

// primaryMethod returns the primary entry's value, falling back to the
// first non-empty one.
func primaryMethod(methods []ITGlueContactMethod) string {
	for _, m := range methods {
		if m.Primary && strings.TrimSpace(m.Value) != "" {
			return strings.TrimSpace(m.Value)
		}
	}
	for _, m := range methods {
		if strings.TrimSpace(m.Value) != "" {
			return strings.TrimSpace(m.Value)
		}
	}
	return ""
}

// primaryPhone behaves like primaryMethod but drops "n/a" placeholders that
// show up in imported phone fields.
func primaryPhone(methods []ITGlueContactMethod) string {
	cleaned := make([]ITGlueContactMethod, 0, len(methods))
	for _, m := range methods {
		if strings.EqualFold(strings.TrimSpace(m.Value), "n/a") {
			continue
		}
		cleaned = append(cleaned, m)
	}
	return primaryMethod(cleaned)
}
