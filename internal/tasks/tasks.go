package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mspforge/contactsync/internal/models"
	"github.com/mspforge/contactsync/internal/services"
	"github.com/mspforge/contactsync/internal/shared"
)

// LicenseFilter selects which contacts survive the license check.
type LicenseFilter int

const (
	LicenseAll LicenseFilter = iota
	LicenseLicensed
	LicenseUnlicensed
)

// ParseLicenseFilter maps the CLI/config value onto a LicenseFilter.
func ParseLicenseFilter(s string) (LicenseFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return LicenseAll, nil
	case "licensed", "yes", "y":
		return LicenseLicensed, nil
	case "unlicensed", "no", "n":
		return LicenseUnlicensed, nil
	default:
		return LicenseAll, fmt.Errorf("%w: license filter must be all, licensed or unlicensed, got %q", shared.ErrInvalidArgument, s)
	}
}

func (f LicenseFilter) String() string {
	switch f {
	case LicenseLicensed:
		return "licensed"
	case LicenseUnlicensed:
		return "unlicensed"
	default:
		return "all"
	}
}

// Matches reports whether a contact with the given license status passes.
func (f LicenseFilter) Matches(licensed bool) bool {
	switch f {
	case LicenseLicensed:
		return licensed
	case LicenseUnlicensed:
		return !licensed
	default:
		return true
	}
}

// PlanOpts carries the operator's filtering choices into Plan.
type PlanOpts struct {
	License       LicenseFilter
	ExcludeOrgIDs []string
}

// SyncPlan is the read-only outcome of Plan: the candidates that would be
// created, the organizations they came from, and why everything else was
// dropped.
type SyncPlan struct {
	RunID                string                `json:"run_id"`
	Orgs                 []models.Organization `json:"orgs"`
	Candidates           []models.Candidate    `json:"candidates"`
	SkippedExcluded      int                   `json:"skipped_excluded"`
	SkippedNoCompany     int                   `json:"skipped_no_company"`
	SkippedLicense       int                   `json:"skipped_license"`
	SkippedMissingFields int                   `json:"skipped_missing_fields"`
	SkippedDuplicates    int                   `json:"skipped_duplicates"`
}

// Count returns the number of contacts the plan would create.
func (p *SyncPlan) Count() int {
	return len(p.Candidates)
}

// ContactResult records the outcome of a single create attempt.
type ContactResult struct {
	Candidate models.Candidate `json:"candidate"`
	Created   *models.Contact  `json:"created,omitempty"`
	Err       string           `json:"error,omitempty"`
}

// PushResult summarizes a completed (or aborted) Push.
type PushResult struct {
	RunID   string          `json:"run_id"`
	Results []ContactResult `json:"results"`
	Created int             `json:"created"`
	Failed  int             `json:"failed"`
}

// SyncEngine plans and executes a contact sync run.
type SyncEngine interface {
	Plan(ctx context.Context, opts PlanOpts, progress chan<- ProgressUpdate) (*SyncPlan, error)
	Push(ctx context.Context, plan *SyncPlan, progress chan<- ProgressUpdate) (*PushResult, error)
}

// ContactEngine implements SyncEngine on top of a directory source and a
// PSA target.
type ContactEngine struct {
	source services.Directory
	target services.PSA
}

func NewContactEngine(source services.Directory, target services.PSA) *ContactEngine {
	return &ContactEngine{source: source, target: target}
}

// sendProgress sends an update without blocking if the channel is full or nil.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Plan builds the candidate list. It reads from both services and writes to
// neither.
//
// A contact becomes a candidate only when its organization syncs with both
// systems and is not excluded, its mapped company exists on the PSA, it
// passes the license filter, carries first name, last name and email, and
// its normalized email is not already present on the PSA or earlier in the
// batch.
func (e *ContactEngine) Plan(ctx context.Context, opts PlanOpts, progress chan<- ProgressUpdate) (*SyncPlan, error) {
	if e.source == nil || e.target == nil {
		return nil, fmt.Errorf("%w: sync engine requires both a source and a target service", shared.ErrServiceUnavailable)
	}

	plan := &SyncPlan{RunID: shared.GenerateID()}

	sendProgress(progress, fetchOrgsUpdate())
	orgs, err := e.source.Organizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations from %s: %w", e.source.Name(), err)
	}
	sendProgress(progress, orgsFetchedUpdate(len(orgs)))

	sendProgress(progress, fetchCompaniesUpdate())
	companies, err := e.target.Companies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch companies from %s: %w", e.target.Name(), err)
	}
	companyIDs := make(map[string]struct{}, len(companies))
	for _, c := range companies {
		companyIDs[c.ID] = struct{}{}
	}

	sendProgress(progress, fetchTargetContactsUpdate())
	existing, err := e.target.ContactEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact emails from %s: %w", e.target.Name(), err)
	}
	// Copy so planning never mutates the caller-visible set, and so emails
	// claimed by earlier candidates dedupe later ones within the batch.
	seen := make(map[string]struct{}, len(existing))
	for email := range existing {
		seen[email] = struct{}{}
	}

	excluded := make(map[string]struct{}, len(opts.ExcludeOrgIDs))
	for _, id := range opts.ExcludeOrgIDs {
		if id = strings.TrimSpace(id); id != "" {
			excluded[id] = struct{}{}
		}
	}

	var kept []models.Organization
	for _, org := range orgs {
		if _, skip := excluded[org.ID]; skip {
			plan.SkippedExcluded++
			continue
		}
		if _, ok := companyIDs[org.CompanyID]; org.CompanyID == "" || !ok {
			plan.SkippedNoCompany++
			continue
		}
		kept = append(kept, org)
	}

	for i, org := range kept {
		sendProgress(progress, fetchContactsUpdate(i+1, len(kept), org))

		contacts, err := e.source.Contacts(ctx, org.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch contacts for %s: %w", org.Name, err)
		}

		for _, contact := range contacts {
			if !opts.License.Matches(contact.Licensed) {
				plan.SkippedLicense++
				continue
			}
			if err := contact.Validate(); err != nil {
				plan.SkippedMissingFields++
				continue
			}
			email := shared.NormalizeEmail(contact.Email)
			if _, dup := seen[email]; dup {
				plan.SkippedDuplicates++
				continue
			}
			seen[email] = struct{}{}
			plan.Candidates = append(plan.Candidates, models.Candidate{
				CompanyID: org.CompanyID,
				Contact:   contact,
			})
		}
		plan.Orgs = append(plan.Orgs, org)
	}

	sendProgress(progress, filterUpdate(plan))
	return plan, nil
}

// Push creates every candidate in the plan, sequentially and in order.
//
// A failed create is recorded and the batch continues with the next contact.
// The only exception is an authentication failure, which would fail every
// remaining create the same way, so the run aborts with the partial result.
func (e *ContactEngine) Push(ctx context.Context, plan *SyncPlan, progress chan<- ProgressUpdate) (*PushResult, error) {
	if e.target == nil {
		return nil, fmt.Errorf("%w: sync engine requires a target service", shared.ErrServiceUnavailable)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: nothing to push without a plan", shared.ErrInvalidInput)
	}

	result := &PushResult{RunID: plan.RunID}
	total := plan.Count()

	for i, candidate := range plan.Candidates {
		sendProgress(progress, createContactUpdate(i+1, total, candidate.Contact))

		created, err := e.target.CreateContact(ctx, candidate.CompanyID, candidate.Contact)
		if err != nil {
			result.Failed++
			result.Results = append(result.Results, ContactResult{
				Candidate: candidate,
				Err:       err.Error(),
			})
			sendProgress(progress, createFailedUpdate(i+1, total, candidate.Contact, err))

			if errors.Is(err, shared.ErrAuthFailed) {
				return result, fmt.Errorf("aborting run %s after %d of %d contacts: %w", plan.RunID, i+1, total, err)
			}
			continue
		}

		result.Created++
		result.Results = append(result.Results, ContactResult{
			Candidate: candidate,
			Created:   created,
		})
	}

	return result, nil
}
