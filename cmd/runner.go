package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mvollmer/discotag/internal/enrich"
	"github.com/mvollmer/discotag/internal/metadata"
	"github.com/mvollmer/discotag/internal/repositories"
	"github.com/mvollmer/discotag/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	logger    *log.Logger
	output    io.Writer
	extractor metadata.Extractor
	notifier  enrich.Notifier
	db        *sql.DB // optional injected connection, mainly for tests
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Logger    *log.Logger
	Output    io.Writer
	Extractor metadata.Extractor
	Notifier  enrich.Notifier
	DB        *sql.DB
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

	return &Runner{
		config:    opts.Config,
		logger:    opts.Logger,
		output:    opts.Output,
		extractor: opts.Extractor,
		notifier:  opts.Notifier,
		db:        opts.DB,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, addCommand, listCommand, showCommand, enrichCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// reloadConfig swaps in the configuration at path when the file exists.
func (r *Runner) reloadConfig(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, keeping current", "path", path, "error", err)
		return
	}
	r.config = config
}

// database returns a store connection and a release func. An injected
// connection is reused and never closed here.
func (r *Runner) database() (*sql.DB, func(), error) {
	if r.db != nil {
		return r.db, func() {}, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	return db, func() { db.Close() }, nil
}

// repository returns a media repository plus its connection release func.
func (r *Runner) repository() (*repositories.MediaRepository, func(), error) {
	db, release, err := r.database()
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewMediaRepository(db), release, nil
}

// newEngine wires an enrichment engine from the runner's configuration.
func (r *Runner) newEngine(store enrich.Store, artworkEnabled func() bool) *enrich.Engine {
	cfg := r.config.Enrichment

	extractor := r.extractor
	if extractor == nil {
		extractor = metadata.NewTagExtractor(metadata.TagExtractorOpts{
			Timeout:       time.Duration(cfg.ExtractTimeoutSecs) * time.Second,
			MaxFetchBytes: cfg.MaxFetchBytes,
			Logger:        shared.WithLogger(r.logger, "component", "extractor"),
		})
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	notifier := r.notifier
	if notifier == nil {
		notifier = enrich.NotifierFunc(func() {
			r.logger.Info("active item updated, metadata refresh available")
		})
	}

	return enrich.NewEngine(enrich.EngineOpts{
		Store:     store,
		Extractor: extractor,
		Settings:  enrich.SettingsFunc(artworkEnabled),
		Notifier:  notifier,
		Limiter:   limiter,
		Logger:    shared.WithLogger(r.logger, "component", "enrich"),
	})
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
