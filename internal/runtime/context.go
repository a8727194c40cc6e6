// Package runtime wires configuration, storage, the attendance facade and
// output formatting into one context for the CLI.
package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/manav03panchal/rollcall/internal/attendance"
	"github.com/manav03panchal/rollcall/internal/config"
	"github.com/manav03panchal/rollcall/internal/logging"
	"github.com/manav03panchal/rollcall/internal/output"
	"github.com/manav03panchal/rollcall/internal/storage"
)

// MemoryDataDir as the data directory selects a throwaway in-memory store.
const MemoryDataDir = ":memory:"

// Context holds the application runtime context.
type Context struct {
	Config    *config.Config
	Backend   storage.Backend
	System    *attendance.System
	Formatter *output.Formatter

	// Debug mode
	Debug bool

	request context.Context
}

// Options configures the runtime context.
type Options struct {
	// ConfigPath is the --config flag value.
	ConfigPath string
	// Overrides are the storage flags.
	Overrides config.Overrides
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool
	// Writer receives command output. Nil means stdout.
	Writer io.Writer
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New loads configuration, opens the backend (taking the data directory
// lock) and builds the facade.
func New(opts Options) (*Context, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.Apply(opts.Overrides)
	if cfg.DataDir == MemoryDataDir {
		opts.InMemory = true
		cfg.DataDir = storage.DefaultDir()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	initLogging(cfg, opts.Debug)

	departments, err := cfg.DepartmentSet()
	if err != nil {
		return nil, err
	}
	storageOpts, err := cfg.StorageOptions()
	if err != nil {
		return nil, err
	}
	storageOpts.InMemory = opts.InMemory

	backend, err := storage.Open(storageOpts)
	if err != nil {
		return nil, err
	}

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode
	if opts.Writer != nil {
		formatter.Writer = opts.Writer
	}

	request := logging.NewRequestContext()
	logging.LoggerFromContext(request).Debug("runtime ready",
		logging.KeyBackend, string(storageOpts.Kind),
		logging.KeyPath, backend.Location(),
		"config", cfg.Source)

	return &Context{
		Config:    cfg,
		Backend:   backend,
		System:    attendance.New(backend, departments),
		Formatter: formatter,
		Debug:     opts.Debug,
		request:   request,
	}, nil
}

func initLogging(cfg *config.Config, debug bool) {
	if debug {
		logging.InitDebug()
		return
	}
	lc := logging.DefaultConfig()
	// Validate has already checked the level name.
	if level, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		lc.Level = level
	} else {
		lc.Level = slog.LevelWarn
	}
	logging.Init(lc)
}

// Request returns the request-scoped context for this invocation. It carries
// the request id used in every log line.
func (c *Context) Request() context.Context {
	return c.request
}

// Close closes the backend and releases the data directory lock.
func (c *Context) Close() error {
	if c.Backend != nil {
		err := c.Backend.Close()
		c.Backend = nil
		return err
	}
	return nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...any) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}
