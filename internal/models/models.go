package models

import (
	"fmt"
	"strings"
)

// Organization represents a directory-service organization and its sync
// configuration.
type Organization struct {
	ID            string `json:"id"`             // IT Glue organization ID
	Name          string `json:"name"`
	DirectorySync bool   `json:"directory_sync"` // Directory adapter present with sync enabled
	PSASync       bool   `json:"psa_sync"`       // PSA adapter present with sync enabled and not orphaned
	CompanyID     string `json:"company_id"`     // Autotask company ID from the PSA adapter's remote-id
}

// DualSync reports whether the organization syncs with both the directory
// service and the PSA.
func (o Organization) DualSync() bool {
	return o.DirectorySync && o.PSASync
}

// Contact represents a source contact from the directory service.
type Contact struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Licensed  bool   `json:"licensed"` // Has a Microsoft license tag attached
	OrgID     string `json:"org_id"`   // Owning organization
}

// Validate checks that the contact carries every field Autotask requires.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return fmt.Errorf("contact %s: missing first name", c.ID)
	}
	if strings.TrimSpace(c.LastName) == "" {
		return fmt.Errorf("contact %s: missing last name", c.ID)
	}
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("contact %s: missing email", c.ID)
	}
	return nil
}

// DisplayName returns "First Last" for prompts and logs.
func (c Contact) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Company represents an Autotask company record.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Candidate is a contact slated for creation, bound to the Autotask company
// it will be created under.
type Candidate struct {
	CompanyID string  `json:"company_id"`
	Contact   Contact `json:"contact"`
}
