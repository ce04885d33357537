package tasks

import (
	"fmt"

	"github.com/mspforge/contactsync/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchOrgs Phase = iota
	FetchCompanies
	FetchTargetContacts
	FetchContacts
	Filter
	CreateContacts
)

func (p Phase) String() string {
	switch p {
	case FetchOrgs:
		return "fetch_orgs"
	case FetchCompanies:
		return "fetch_companies"
	case FetchTargetContacts:
		return "fetch_target_contacts"
	case FetchContacts:
		return "fetch_contacts"
	case Filter:
		return "filter"
	case CreateContacts:
		return "create_contacts"
	default:
		return ""
	}
}

func fetchOrgsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchOrgs,
		Step:    1,
		Total:   1,
		Message: "Fetching dual-sync organizations from IT Glue...",
	}
}

func orgsFetchedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchOrgs,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d organizations syncing with both systems", count),
	}
}

func fetchCompaniesUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCompanies,
		Step:    1,
		Total:   1,
		Message: "Fetching companies from Autotask...",
	}
}

func fetchTargetContactsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTargetContacts,
		Step:    1,
		Total:   1,
		Message: "Building dedupe index from existing Autotask contacts...",
	}
}

func fetchContactsUpdate(step, total int, org models.Organization) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchContacts,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching contacts for %s...", step, total, org.Name),
	}
}

func filterUpdate(plan *SyncPlan) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Filter,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d contacts slated for creation", plan.Count()),
		Data:    plan,
	}
}

func createContactUpdate(step, total int, c models.Contact) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateContacts,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Creating %s <%s>", step, total, c.DisplayName(), c.Email),
	}
}

func createFailedUpdate(step, total int, c models.Contact, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateContacts,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, c.DisplayName(), err),
	}
}
