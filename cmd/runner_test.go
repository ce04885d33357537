package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/mspforge/contactsync/internal/models"
	"github.com/mspforge/contactsync/internal/shared"
	tu "github.com/mspforge/contactsync/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			source := &tu.MockDirectory{}
			target := &tu.MockPSA{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				Source: source,
				Target: target,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.source != source {
				t.Error("expected source to be set")
			}
			if runner.target != target {
				t.Error("expected target to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be wired from the services")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil input uses stdin", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Input: nil})

			if runner.input == nil {
				t.Error("expected input reader to be set from os.Stdin")
			}
		})
	})

	t.Run("ensureSource prompts for a missing API key", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Output: output,
			Input:  strings.NewReader("ITG.prompted\n"),
		})

		if err := runner.ensureSource(); err != nil {
			t.Fatalf("ensureSource() error = %v", err)
		}
		if runner.source == nil {
			t.Fatal("expected source service to be constructed")
		}
		if !strings.Contains(output.String(), "IT Glue API key") {
			t.Errorf("expected credential prompt, got:\n%s", output.String())
		}
	})

	t.Run("ensureSource fails when the prompt is declined", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{
			Output: &bytes.Buffer{},
			Input:  strings.NewReader("\n"),
		})

		if err := runner.ensureSource(); err == nil {
			t.Error("expected error when no API key is provided")
		}
	})

	t.Run("confirm", func(t *testing.T) {
		tc := []struct {
			name  string
			input string
			want  bool
		}{
			{"yes", "y\n", true},
			{"yes word", "YES\n", true},
			{"no", "n\n", false},
			{"empty defaults to no", "\n", false},
			{"garbage defaults to no", "maybe\n", false},
			{"closed input defaults to no", "", false},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				output := &bytes.Buffer{}
				runner := NewRunner(RunnerOpts{
					Output: output,
					Input:  strings.NewReader(tt.input),
				})

				if got := runner.confirm("Proceed?"); got != tt.want {
					t.Errorf("confirm() = %v, want %v", got, tt.want)
				}
				if !strings.Contains(output.String(), "[y/N]") {
					t.Error("prompt should show the default")
				}
			})
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("with failing writer", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("with failing newline write", func(t *testing.T) {
			w := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &w})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain with failing writer", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

		if err := runner.writePlain("hello %s", "world"); err == nil {
			t.Error("expected write error")
		}
		if err := runner.writePlainln("hello"); err == nil {
			t.Error("expected write error")
		}
	})
}

func testRunnerApp(t *testing.T, input string) (*cli.Command, *tu.MockPSA, *bytes.Buffer) {
	t.Helper()

	source := &tu.MockDirectory{
		Orgs: []models.Organization{
			{ID: "1", Name: "Acme Ltd", DirectorySync: true, PSASync: true, CompanyID: "9001"},
		},
		OrgContacts: map[string][]models.Contact{
			"1": {
				{ID: "c1", FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", OrgID: "1"},
			},
		},
	}
	target := &tu.MockPSA{
		Cos: []models.Company{{ID: "9001", Name: "Acme Ltd"}},
	}

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Logger: shared.NewLogger(output),
		Output: output,
		Input:  strings.NewReader(input),
		Source: source,
		Target: target,
	})

	app := &cli.Command{Name: "contactsync", Commands: runner.register()}
	return app, target, output
}

func TestSyncRun(t *testing.T) {
	t.Run("declining writes nothing", func(t *testing.T) {
		app, target, output := testRunnerApp(t, "n\n")

		err := app.Run(context.Background(), []string{"contactsync", "sync", "run"})
		if !errors.Is(err, shared.ErrAborted) {
			t.Fatalf("expected ErrAborted, got %v", err)
		}

		if len(target.CreateCalls) != 0 {
			t.Errorf("declined run must not create contacts, got %d calls", len(target.CreateCalls))
		}
		if !strings.Contains(output.String(), "Aborted") {
			t.Errorf("expected abort message, got:\n%s", output.String())
		}
	})

	t.Run("yes flag skips the prompt and creates", func(t *testing.T) {
		app, target, output := testRunnerApp(t, "")

		if err := app.Run(context.Background(), []string{"contactsync", "sync", "run", "--yes"}); err != nil {
			t.Fatalf("sync run error = %v", err)
		}

		if len(target.CreateCalls) != 1 {
			t.Fatalf("expected 1 create call, got %d", len(target.CreateCalls))
		}
		if target.CreateCalls[0].CompanyID != "9001" {
			t.Errorf("unexpected company for create: %+v", target.CreateCalls[0])
		}
		if strings.Contains(output.String(), "[y/N]") {
			t.Error("--yes should skip the confirmation prompt")
		}
		if !strings.Contains(output.String(), "Created: 1") {
			t.Errorf("expected result summary, got:\n%s", output.String())
		}
	})

	t.Run("plan never writes", func(t *testing.T) {
		app, target, output := testRunnerApp(t, "")

		if err := app.Run(context.Background(), []string{"contactsync", "sync", "plan"}); err != nil {
			t.Fatalf("sync plan error = %v", err)
		}

		if len(target.CreateCalls) != 0 {
			t.Errorf("plan must not create contacts, got %d calls", len(target.CreateCalls))
		}
		if !strings.Contains(output.String(), "Contacts to create: 1") {
			t.Errorf("expected plan summary, got:\n%s", output.String())
		}
	})

	t.Run("invalid license filter", func(t *testing.T) {
		app, _, _ := testRunnerApp(t, "")

		err := app.Run(context.Background(), []string{"contactsync", "sync", "plan", "--license", "bogus"})
		if err == nil {
			t.Error("expected error for invalid license filter")
		}
	})
}

func TestSourceOrgs(t *testing.T) {
	app, _, output := testRunnerApp(t, "")

	if err := app.Run(context.Background(), []string{"contactsync", "source", "orgs"}); err != nil {
		t.Fatalf("source orgs error = %v", err)
	}

	if !strings.Contains(output.String(), "Acme Ltd (company 9001)") {
		t.Errorf("expected org listing, got:\n%s", output.String())
	}
}

func TestTargetCompanies(t *testing.T) {
	app, _, output := testRunnerApp(t, "")

	if err := app.Run(context.Background(), []string{"contactsync", "target", "companies", "--json"}); err != nil {
		t.Fatalf("target companies error = %v", err)
	}

	if !strings.Contains(output.String(), `"name": "Acme Ltd"`) {
		t.Errorf("expected JSON output, got:\n%s", output.String())
	}
}

func TestSetupConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := dir + "/config.toml"

	app, _, output := testRunnerApp(t, "")

	if err := app.Run(context.Background(), []string{"contactsync", "setup", "config", "--config", configPath}); err != nil {
		t.Fatalf("setup config error = %v", err)
	}

	tu.AssertFileExists(t, configPath)
	if !strings.Contains(output.String(), "Next steps") {
		t.Errorf("expected next steps hint, got:\n%s", output.String())
	}

	// Running again must not clobber the file
	if err := app.Run(context.Background(), []string{"contactsync", "setup", "config", "--config", configPath}); err != nil {
		t.Fatalf("second setup config error = %v", err)
	}
	if !strings.Contains(output.String(), "leaving it untouched") {
		t.Errorf("expected existing-file warning, got:\n%s", output.String())
	}
}
