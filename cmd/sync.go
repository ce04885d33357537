package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mspforge/contactsync/internal/formatter"
	"github.com/mspforge/contactsync/internal/shared"
	"github.com/mspforge/contactsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// planOpts resolves the license filter and exclusions from flags, falling
// back to config.toml values.
func (r *Runner) planOpts(cmd *cli.Command) (tasks.PlanOpts, error) {
	license := cmd.String("license")
	if license == "" {
		license = r.config.Sync.License
	}
	if license == "" {
		license = r.promptLine("License filter (all/licensed/unlicensed)")
	}
	filter, err := tasks.ParseLicenseFilter(license)
	if err != nil {
		return tasks.PlanOpts{}, err
	}

	exclude := cmd.StringSlice("exclude")
	if len(exclude) == 0 {
		exclude = r.config.Sync.ExcludeOrgs
	}

	return tasks.PlanOpts{License: filter, ExcludeOrgIDs: exclude}, nil
}

// logProgress drains a progress channel into the logger until it closes.
func (r *Runner) logProgress(logger *log.Logger, progress <-chan tasks.ProgressUpdate, wg *sync.WaitGroup) {
	defer wg.Done()
	for update := range progress {
		logger.Info(update.Message, "phase", update.Phase.String())
	}
}

// writePlanSummary prints the candidate list and skip counts.
func (r *Runner) writePlanSummary(plan *tasks.SyncPlan) {
	r.writePlainHeader(fmt.Sprintf("Sync Plan %s", plan.RunID))
	r.writePlain("Organizations: %d\n", len(plan.Orgs))
	r.writePlain("Contacts to create: %d\n\n", plan.Count())

	for i, candidate := range plan.Candidates {
		r.writePlain("%d. %s <%s> -> company %s\n",
			i+1, candidate.Contact.DisplayName(), candidate.Contact.Email, candidate.CompanyID)
	}

	r.writePlainln("Skipped: %d excluded orgs, %d without a company, %d by license filter, %d missing fields, %d duplicates",
		plan.SkippedExcluded, plan.SkippedNoCompany, plan.SkippedLicense,
		plan.SkippedMissingFields, plan.SkippedDuplicates)
}

// runPlan executes the plan phase with progress logging.
func (r *Runner) runPlan(ctx context.Context, opts tasks.PlanOpts) (*tasks.SyncPlan, error) {
	progress := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go r.logProgress(r.logger, progress, &wg)

	plan, err := r.engine.Plan(ctx, opts, progress)
	close(progress)
	wg.Wait()

	return plan, err
}

// SyncPlan performs a dry run: everything a sync would do except the writes.
func (r *Runner) SyncPlan(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)
	if err := r.ensureEngine(); err != nil {
		return err
	}

	opts, err := r.planOpts(cmd)
	if err != nil {
		return err
	}

	plan, err := r.runPlan(ctx, opts)
	if err != nil {
		return err
	}

	r.writePlanSummary(plan)

	if path := cmd.String("report"); path != "" {
		return r.writeReport(&formatter.Report{Plan: plan}, cmd.String("format"), path)
	}
	return nil
}

// SyncRun plans, asks for confirmation and then creates the contacts.
//
// Declining the prompt aborts before any write. A failed create is logged
// and the batch continues.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)
	if err := r.ensureEngine(); err != nil {
		return err
	}

	opts, err := r.planOpts(cmd)
	if err != nil {
		return err
	}

	plan, err := r.runPlan(ctx, opts)
	if err != nil {
		return err
	}

	r.writePlanSummary(plan)

	if plan.Count() == 0 {
		r.writePlainln("Nothing to create.")
		return nil
	}

	if !cmd.Bool("yes") {
		if !r.confirm(fmt.Sprintf("Create %d contacts in Autotask?", plan.Count())) {
			r.writePlainln("Aborted. No contacts were created.")
			return fmt.Errorf("%w: declined creating %d contacts", shared.ErrAborted, plan.Count())
		}
	}

	runLog := shared.WithLogger(r.logger, "run", plan.RunID)
	progress := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go r.logProgress(runLog, progress, &wg)

	result, pushErr := r.engine.Push(ctx, plan, progress)
	close(progress)
	wg.Wait()

	if result != nil {
		r.writePlainHeader("Sync Result")
		r.writePlain("Created: %d\n", result.Created)
		r.writePlain("Failed: %d\n", result.Failed)
		for _, res := range result.Results {
			if res.Err != "" {
				r.writePlain("✗ %s <%s>: %s\n",
					res.Candidate.Contact.DisplayName(), res.Candidate.Contact.Email, res.Err)
			}
		}

		if path := cmd.String("report"); path != "" {
			if err := r.writeReport(&formatter.Report{Plan: plan, Result: result}, cmd.String("format"), path); err != nil {
				r.logger.Error("failed to write report", "error", err)
			}
		}
	}

	return pushErr
}

func (r *Runner) writeReport(report *formatter.Report, format, path string) error {
	written, err := formatter.WriteReport(report, format, path)
	if err != nil {
		return err
	}
	r.logger.Info("report written", "path", written)
	r.writePlainln("Report written to %s", written)
	return nil
}
