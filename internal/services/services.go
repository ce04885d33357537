// package services defines interfaces for the two vendor HTTP APIs
//
// IT Glue (source), Autotask (target)
package services

import (
	"context"

	"github.com/mspforge/contactsync/internal/models"
)

// Directory is the source side of the sync: the IT-documentation platform
// contacts are read from.
type Directory interface {
	// Organizations retrieves every organization configured for dual sync,
	// with the mapped PSA company ID resolved where one exists.
	Organizations(ctx context.Context) ([]models.Organization, error)

	// Contacts retrieves all contacts belonging to an organization.
	Contacts(ctx context.Context, orgID string) ([]models.Contact, error)

	// Name returns the vendor name (e.g. "IT Glue")
	Name() string
}

// PSA is the target side of the sync: the professional-services-automation
// platform contacts are created in.
type PSA interface {
	// Companies retrieves all companies present in the PSA.
	Companies(ctx context.Context) ([]models.Company, error)

	// ContactEmails retrieves the normalized email addresses of every
	// existing PSA contact, the dedupe index for the run.
	ContactEmails(ctx context.Context) (map[string]struct{}, error)

	// CreateContact creates a contact under the given company and returns
	// the created record.
	CreateContact(ctx context.Context, companyID string, contact models.Contact) (*models.Contact, error)

	// Name returns the vendor name (e.g. "Autotask")
	Name() string
}
