package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// SourceOrgs lists the organizations eligible for syncing: those with active
// directory and PSA adapters and a mapped company.
func (r *Runner) SourceOrgs(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)
	if err := r.ensureSource(); err != nil {
		return err
	}

	r.logger.Info("fetching organizations", "service", r.source.Name())

	orgs, err := r.source.Organizations(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(orgs, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Dual-Sync Organizations")
	for _, org := range orgs {
		r.writePlain("%s  %s (company %s)\n", org.ID, org.Name, org.CompanyID)
	}
	r.writePlainln("Total: %d", len(orgs))

	return nil
}

// SourceContacts lists the contacts of a single organization.
func (r *Runner) SourceContacts(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)
	if err := r.ensureSource(); err != nil {
		return err
	}

	orgID := cmd.String("org")
	r.logger.Info("fetching contacts", "service", r.source.Name(), "org", orgID)

	contacts, err := r.source.Contacts(ctx, orgID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(contacts, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Contacts")
	for _, contact := range contacts {
		licensed := ""
		if contact.Licensed {
			licensed = " [licensed]"
		}
		r.writePlain("%s  %s <%s>%s\n", contact.ID, contact.DisplayName(), contact.Email, licensed)
	}
	r.writePlainln("Total: %d", len(contacts))

	return nil
}
