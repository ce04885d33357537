// package formatter renders sync plans and run results to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/mspforge/contactsync/internal/shared"
	"github.com/mspforge/contactsync/internal/tasks"
)

// Report bundles a plan with the run result it produced. Result is nil for
// plan-only reports (dry runs and declined confirmations).
type Report struct {
	Plan   *tasks.SyncPlan   `json:"plan"`
	Result *tasks.PushResult `json:"result,omitempty"`
}

// outcome describes a candidate's fate for the CSV and Markdown renderers.
func (r *Report) outcome(i int) string {
	if r.Result == nil || i >= len(r.Result.Results) {
		return "planned"
	}
	if res := r.Result.Results[i]; res.Err != "" {
		return "failed: " + res.Err
	}
	return "created"
}

// ToJSON renders the full report as indented JSON.
func ToJSON(report *Report) ([]byte, error) {
	return shared.MarshalJSON(report, true)
}

// ToCSV renders one row per candidate with columns: Company ID, First Name,
// Last Name, Email, Phone, Org ID, Outcome.
func ToCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Company ID", "First Name", "Last Name", "Email", "Phone", "Org ID", "Outcome"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, candidate := range report.Plan.Candidates {
		record := []string{
			candidate.CompanyID,
			candidate.Contact.FirstName,
			candidate.Contact.LastName,
			candidate.Contact.Email,
			candidate.Contact.Phone,
			candidate.Contact.OrgID,
			report.outcome(i),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown renders a human-readable summary with a candidate table.
func ToMarkdown(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	plan := report.Plan

	buf.WriteString(fmt.Sprintf("# Contact Sync %s\n\n", plan.RunID))

	buf.WriteString(fmt.Sprintf("**Organizations**: %d\n", len(plan.Orgs)))
	buf.WriteString(fmt.Sprintf("**Candidates**: %d\n", plan.Count()))
	if report.Result != nil {
		buf.WriteString(fmt.Sprintf("**Created**: %d\n", report.Result.Created))
		buf.WriteString(fmt.Sprintf("**Failed**: %d\n", report.Result.Failed))
	}
	buf.WriteString("\n## Skipped\n\n")
	buf.WriteString(fmt.Sprintf("- Excluded organizations: %d\n", plan.SkippedExcluded))
	buf.WriteString(fmt.Sprintf("- No matching company: %d\n", plan.SkippedNoCompany))
	buf.WriteString(fmt.Sprintf("- License filter: %d\n", plan.SkippedLicense))
	buf.WriteString(fmt.Sprintf("- Missing required fields: %d\n", plan.SkippedMissingFields))
	buf.WriteString(fmt.Sprintf("- Duplicate emails: %d\n", plan.SkippedDuplicates))

	buf.WriteString("\n## Contacts\n\n")
	buf.WriteString("| Name | Email | Company | Outcome |\n")
	buf.WriteString("|------|-------|---------|--------|\n")
	for i, candidate := range plan.Candidates {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			candidate.Contact.DisplayName(),
			candidate.Contact.Email,
			candidate.CompanyID,
			report.outcome(i),
		))
	}

	return buf.Bytes(), nil
}

// ToText renders a terse plain text listing.
func ToText(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	plan := report.Plan

	buf.WriteString(fmt.Sprintf("Run: %s\n", plan.RunID))
	buf.WriteString(fmt.Sprintf("Candidates: %d\n\n", plan.Count()))

	for i, candidate := range plan.Candidates {
		buf.WriteString(fmt.Sprintf("%d. %s <%s> -> company %s [%s]\n",
			i+1,
			candidate.Contact.DisplayName(),
			candidate.Contact.Email,
			candidate.CompanyID,
			report.outcome(i),
		))
	}

	return buf.Bytes(), nil
}

// WriteReport renders the report in the given format and writes it to path.
// Format is one of json, csv, markdown (md) or text (txt); the default is
// json. An empty path derives one from the run ID and format.
func WriteReport(report *Report, format, path string) (string, error) {
	if report == nil || report.Plan == nil {
		return "", fmt.Errorf("%w: report requires a plan", shared.ErrInvalidInput)
	}

	var (
		data []byte
		ext  string
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		data, err = ToJSON(report)
		ext = "json"
	case "csv":
		data, err = ToCSV(report)
		ext = "csv"
	case "markdown", "md":
		data, err = ToMarkdown(report)
		ext = "md"
	case "text", "txt":
		data, err = ToText(report)
		ext = "txt"
	default:
		return "", fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render %s report: %w", ext, err)
	}

	if path == "" {
		path = fmt.Sprintf("sync_%s.%s", report.Plan.RunID, ext)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return path, nil
}
