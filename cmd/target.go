package main

import (
	"context"
	"sort"

	"github.com/urfave/cli/v3"
)

// TargetCompanies lists all PSA companies.
func (r *Runner) TargetCompanies(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)
	if err := r.ensureTarget(); err != nil {
		return err
	}

	r.logger.Info("fetching companies", "service", r.target.Name())

	companies, err := r.target.Companies(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(companies, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Autotask Companies")
	for _, company := range companies {
		r.writePlain("%s  %s\n", company.ID, company.Name)
	}
	r.writePlainln("Total: %d", len(companies))

	return nil
}

// TargetContacts lists the normalized emails of existing PSA contacts, the
// set a sync run dedupes against.
func (r *Runner) TargetContacts(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)
	if err := r.ensureTarget(); err != nil {
		return err
	}

	r.logger.Info("fetching contact emails", "service", r.target.Name())

	emails, err := r.target.ContactEmails(ctx)
	if err != nil {
		return err
	}

	sorted := make([]string, 0, len(emails))
	for email := range emails {
		sorted = append(sorted, email)
	}
	sort.Strings(sorted)

	if cmd.Bool("json") {
		return r.writeJSON(sorted, true)
	}

	for _, email := range sorted {
		r.writePlain("%s\n", email)
	}
	r.writePlainln("Total: %d", len(sorted))

	return nil
}
