package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/stacklayout/internal/config"
	"github.com/matzehuels/stacklayout/pkg/buildinfo"
	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/observability"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	viper      *viper.Viper
	configFile string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		viper:  config.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetVerbose forces debug logging regardless of the configured level.
func (c *CLI) SetVerbose(v bool) {
	c.verbose = v
	if v {
		c.SetLogLevel(LogDebug)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stacklayout resolves declarative layouts into absolute boxes",
		Long: `Stacklayout resolves a declarative description of nested boxes (sizes given as
pixels, percentages or "center", with flex rows and columns and absolute
overlays) into concrete positions and renders them as SVG, PNG, PDF or JSON.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.loadConfig() },
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default "+config.DefaultDir()+"/config.yaml)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// loadConfig reads the config file and environment, then installs log hooks
// for the pipeline, cache and server.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.viper, c.configFile)
	if err != nil {
		return err
	}
	c.Config = cfg
	if c.verbose {
		c.SetLogLevel(LogDebug)
	} else {
		c.SetLogLevel(cfg.LogLevel())
	}

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)
	return nil
}

// config returns the loaded configuration, falling back to defaults when
// no command pre-run has happened.
func (c *CLI) config() *config.Config {
	if c.Config == nil {
		cfg, err := config.FromViper(config.New())
		if err != nil {
			panic(fmt.Sprintf("default configuration is invalid: %v", err))
		}
		c.Config = cfg
	}
	return c.Config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.config()
	opts := cfg.CacheOptions()
	if noCache {
		opts.Backend = cache.BackendNone
	}
	store, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(store, cfg.Keyer(), c.Logger)
	runner.TTL = cfg.Cache.TTL
	return runner, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// resolveFlags are shared by every command that resolves a document.
type resolveFlags struct {
	viewport string
	strict   bool
	measurer string
	noCache  bool
	refresh  bool
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.viewport, "viewport", "", "viewport size as WxH, overriding the document")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject unrecognized position keywords")
	cmd.Flags().StringVar(&f.measurer, "measurer", "", "text measurer: "+pipeline.MeasurerOpenType+" or "+pipeline.MeasurerApprox)
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// pipelineOptions seeds options from config and applies the flags the user
// set explicitly.
func (c *CLI) pipelineOptions(cmd *cobra.Command, path string, f *resolveFlags) (pipeline.Options, error) {
	opts := c.config().PipelineOptions()
	opts.Path = path
	opts.Logger = c.Logger
	opts.Refresh = f.refresh

	flags := cmd.Flags()
	if flags.Changed("viewport") {
		size, err := parseViewport(f.viewport)
		if err != nil {
			return opts, err
		}
		opts.Viewport = size
	}
	if flags.Changed("strict") {
		opts.Strict = f.strict
	}
	if flags.Changed("measurer") {
		if err := pipeline.ValidateMeasurer(f.measurer); err != nil {
			return opts, err
		}
		opts.Measurer = f.measurer
	}
	return opts, nil
}

// parseViewport parses "WxH", e.g. "1280x720".
func parseViewport(s string) (*geom.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return nil, fmt.Errorf("invalid viewport %q: want WxH", s)
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil || width <= 0 {
		return nil, fmt.Errorf("invalid viewport width %q", w)
	}
	height, err := strconv.ParseFloat(h, 64)
	if err != nil || height <= 0 {
		return nil, fmt.Errorf("invalid viewport height %q", h)
	}
	return &geom.Size{W: width, H: height}, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

// Exit codes. Input problems (a coded error other than internal or
// unsupported) exit with ExitInput so scripts can tell a bad document from a
// broken environment.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitInput     = 2
	ExitInterrupt = 130
)

// ExitCode maps the error returned by the root command to a process exit
// status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupt
	}
	switch errors.GetCode(err) {
	case "", errors.ErrCodeInternal, errors.ErrCodeUnsupported:
		return ExitFailure
	}
	return ExitInput
}
