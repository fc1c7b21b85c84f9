package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/repositories"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/services"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	logger      *log.Logger
	output      io.Writer
	db          *sql.DB
	projects    *repositories.ProjectRepository
	jobs        *repositories.JobRepository
	connections *repositories.ConnectionRepository
	source      services.Source
	engine      tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB
	Source     services.Source
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

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		source:     opts.Source,
	}

	if opts.DB != nil {
		r.attach(opts.DB)
	}

	return r
}

// SetLogger replaces the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, projectsCommand, connectionsCommand, extractCommand, jobsCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// attach wires the repositories over an open database handle.
func (r *Runner) attach(db *sql.DB) {
	r.db = db
	r.projects = repositories.NewProjectRepository(db)
	r.jobs = repositories.NewJobRepository(db)
	r.connections = repositories.NewConnectionRepository(db)
}

// bootstrap opens the configured database and wires the repositories.
//
// Idempotent; commands call it at the top of their action.
func (r *Runner) bootstrap() error {
	if r.db != nil {
		return nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.attach(db)
	return nil
}

// resolveSource returns the Source service, building one from the active
// stored connection or from config credentials when none is stored.
func (r *Runner) resolveSource(ctx context.Context) (services.Source, error) {
	if r.source != nil {
		return r.source, nil
	}

	conn, err := r.connections.ActiveSource()
	if err != nil {
		conn, err = r.configConnection()
		if err != nil {
			return nil, err
		}
	}

	source, err := services.NewAzureDevOpsService(ctx, conn)
	if err != nil {
		return nil, err
	}

	r.source = source
	return source, nil
}

// configConnection builds a connection from the [connections.source] config section.
func (r *Runner) configConnection() (*models.Connection, error) {
	src := r.config.Connections.Source
	if src.Organization == "" || src.Token == "" {
		return nil, fmt.Errorf("%w: no stored connection and no [connections.source] credentials in config", shared.ErrMissingCredentials)
	}

	conn := models.NewConnection("config", src.Organization, src.Token, models.ConnectionSource)
	if src.BaseURL != "" {
		conn.BaseURL = src.BaseURL
	}
	return conn, nil
}

// resolveEngine builds the extraction engine over the resolved source.
func (r *Runner) resolveEngine(ctx context.Context) (tasks.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	source, err := r.resolveSource(ctx)
	if err != nil {
		return nil, err
	}

	r.engine = tasks.NewExtractionEngine(source, r.projects, r.jobs, r.config, r.logger)
	return r.engine, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// findProject resolves a project reference by internal ID, external ID, or name.
func (r *Runner) findProject(ref string) (*models.Project, error) {
	if project, err := r.projects.Get(ref); err == nil {
		return project, nil
	}
	if project, err := r.projects.GetByExternalID(ref); err == nil {
		return project, nil
	}

	projects, err := r.projects.List(nil)
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		if project.Name == ref {
			return project, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", shared.ErrProjectNotFound, ref)
}
