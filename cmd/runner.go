package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mspforge/contactsync/internal/services"
	"github.com/mspforge/contactsync/internal/shared"
	"github.com/mspforge/contactsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	source services.Directory
	target services.PSA
	logger *log.Logger
	output io.Writer
	input  *bufio.Reader
	engine tasks.SyncEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Source services.Directory
	Target services.PSA
	Logger *log.Logger
	Output io.Writer
	Input  io.Reader
	Engine tasks.SyncEngine
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Engine == nil && opts.Source != nil && opts.Target != nil {
		opts.Engine = tasks.NewContactEngine(opts.Source, opts.Target)
	}

	return &Runner{
		config: opts.Config,
		source: opts.Source,
		target: opts.Target,
		logger: opts.Logger,
		output: opts.Output,
		input:  bufio.NewReader(opts.Input),
		engine: opts.Engine,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, sourceCommand, targetCommand, syncCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// ensureSource lazily constructs the IT Glue client from config.
func (r *Runner) ensureSource() error {
	if r.source != nil {
		return nil
	}

	creds := r.config.Credentials.ITGlue
	if creds.APIKey == "" {
		creds.APIKey = r.promptLine("IT Glue API key")
	}
	if creds.APIKey == "" {
		return fmt.Errorf("%w: set credentials.itglue.api_key in config.toml", shared.ErrMissingCredentials)
	}

	svc, err := services.NewITGlueService(creds.APIKey, creds.BaseURL, r.config.Sync.PageSize, r.config.Sync.RateLimit)
	if err != nil {
		return err
	}

	r.source = svc
	return nil
}

// ensureTarget lazily constructs the Autotask client from config.
func (r *Runner) ensureTarget() error {
	if r.target != nil {
		return nil
	}

	creds := r.config.Credentials.Autotask
	if creds.Username == "" {
		creds.Username = r.promptLine("Autotask API username")
	}
	if creds.Secret == "" {
		creds.Secret = r.promptLine("Autotask API secret")
	}
	if creds.IntegrationCode == "" {
		creds.IntegrationCode = r.promptLine("Autotask integration code")
	}

	svc, err := services.NewAutotaskService(creds.Username, creds.Secret, creds.IntegrationCode, creds.BaseURL)
	if err != nil {
		return err
	}

	r.target = svc
	return nil
}

// ensureEngine makes sure both services exist and wires the engine.
func (r *Runner) ensureEngine() error {
	if err := r.ensureSource(); err != nil {
		return err
	}
	if err := r.ensureTarget(); err != nil {
		return err
	}
	if r.engine == nil {
		r.engine = tasks.NewContactEngine(r.source, r.target)
	}
	return nil
}

// promptLine asks for a single value on stdin. Returns "" when input is
// closed.
func (r *Runner) promptLine(question string) string {
	r.writePlain("%s: ", question)
	line, _ := r.input.ReadString('\n')
	return strings.TrimSpace(line)
}

// confirm prompts with the given question and returns true only on an
// explicit yes. Any read error counts as a decline.
func (r *Runner) confirm(question string) bool {
	r.writePlain("%s [y/N]: ", question)

	line, err := r.input.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
