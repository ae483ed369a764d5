// Factd serves Bank Rate and QE extraction from central bank statements.
//
// Configuration is read from an optional YAML file and FACTD_* environment
// variables (a .env file in the working directory is loaded first). Flags
// override both.
//
// Usage:
//
//	# Start with defaults (0.0.0.0:5000, templates from configs/contexts.json)
//	factd
//
//	# Journal every response to logs.txt
//	factd --config factd.yaml --logging --log_file logs.txt
//
//	factd version
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/factd/internal/config"
	"github.com/fyrsmithlabs/factd/internal/extraction"
	httpserver "github.com/fyrsmithlabs/factd/internal/http"
	"github.com/fyrsmithlabs/factd/internal/logging"
	"github.com/fyrsmithlabs/factd/internal/normalize"
	"github.com/fyrsmithlabs/factd/internal/parser"
	"github.com/fyrsmithlabs/factd/internal/telemetry"
	"github.com/fyrsmithlabs/factd/internal/templates"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

const instrumentationName = "github.com/fyrsmithlabs/factd"

// options are the command-line overrides.
type options struct {
	configPath string
	templates  string
	host       string
	port       int
	queryKey   string
	debug      bool
	journal    bool
	journalLog string
}

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:           "factd",
		Short:         "Extract Bank Rate and QE figures from central bank statements",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &o)
			if err != nil {
				return err
			}
			err = run(cmd.Context(), cfg)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	bindFlags(cmd, &o)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "factd by Fyrsmith Labs\n")
			fmt.Fprintf(out, "Version:    %s\n", version)
			fmt.Fprintf(out, "Commit:     %s\n", gitCommit)
			fmt.Fprintf(out, "Build Date: %s\n", buildDate)
		},
	})

	return cmd
}

func bindFlags(cmd *cobra.Command, o *options) {
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "path to YAML config file")
	f.StringVar(&o.templates, "templates", "", "path to the templates file")
	f.StringVar(&o.host, "host", "", "server host")
	f.IntVar(&o.port, "port", 0, "server port")
	f.StringVar(&o.queryKey, "query_key", "", "query key name for GET requests")
	f.BoolVar(&o.debug, "debug", false, "log at debug level")
	f.BoolVar(&o.journal, "logging", false, "append every response to the journal file")
	f.StringVar(&o.journalLog, "log_file", "", "journal file name")
}

// loadConfig loads the configuration and applies the flags the user set.
func loadConfig(cmd *cobra.Command, o *options) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("templates") {
		cfg.Templates.Path = o.templates
	}
	if f.Changed("host") {
		cfg.Server.Host = o.host
	}
	if f.Changed("port") {
		cfg.Server.Port = o.port
	}
	if f.Changed("query_key") {
		cfg.Server.QueryKey = o.queryKey
	}
	if o.debug {
		cfg.Logging.Level = "debug"
	}
	if f.Changed("logging") {
		cfg.Server.Journal.Enabled = o.journal
	}
	if f.Changed("log_file") {
		cfg.Server.Journal.Path = o.journalLog
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// run wires the pipeline and serves until ctx is cancelled.
//
// Returns http.ErrServerClosed on graceful shutdown.
func run(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	tel, err := telemetry.New(ctx, telemetry.FromConfig(cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn(ctx, "telemetry shutdown", zap.Error(err))
		}
	}()
	if h := tel.Health(); h.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.Error(h.Err))
	}

	p, err := newParser(cfg.Parser)
	if err != nil {
		return fmt.Errorf("failed to create parser client: %w", err)
	}

	set, err := templates.Load(cfg.Templates.Path)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	build := func(set *templates.Set) (*extraction.Analyzer, error) {
		return extraction.NewAnalyzer(p, set.Groups(),
			extraction.Config{Workers: cfg.Extraction.Workers},
			extraction.WithLogger(logger.Named("extraction")),
			extraction.WithTracer(tel.Tracer(instrumentationName)),
			extraction.WithNormalizer(newNormalizer(cfg.Normalize)),
		)
	}

	analyzer, err := build(set)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	logger.Info(ctx, "starting factd",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("templates", cfg.Templates.Path),
		zap.Strings("groups", analyzer.Groups()),
		zap.Int("template_count", analyzer.TemplateCount()),
		zap.String("parser", cfg.Parser.BaseURL),
		logging.Secret("parser.api_key", cfg.Parser.APIKey),
	)

	srvOpts := []httpserver.Option{httpserver.WithMeter(tel.Meter(instrumentationName))}
	if cfg.Server.Journal.Enabled {
		journal, err := httpserver.OpenJournal(cfg.Server.Journal.Path)
		if err != nil {
			return err
		}
		defer func() { _ = journal.Close() }()
		srvOpts = append(srvOpts, httpserver.WithJournal(journal))
	}

	srv, err := httpserver.NewServer(analyzer, logger, &httpserver.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		QueryKey:        cfg.Server.QueryKey,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration(),
	}, srvOpts...)
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	if cfg.Templates.Watch {
		w, err := templates.NewWatcher(cfg.Templates.Path, func(set *templates.Set) {
			next, err := build(set)
			if err != nil {
				logger.Error(ctx, "rebuild analyzer", zap.Error(err))
				return
			}
			srv.SetAnalyzer(next)
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to watch templates: %w", err)
		}
		w.Start(ctx)
		defer w.Stop()
	}

	return srv.Start(ctx)
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg, err := logging.FromConfig(cfg.Logging)
	if err != nil {
		return nil, err
	}
	logCfg.Fields["version"] = version

	if cfg.Telemetry.Enabled {
		logCfg.Output.OTEL = true
		return logging.NewLogger(logCfg, global.GetLoggerProvider())
	}
	return logging.NewLogger(logCfg, nil)
}

func newParser(cfg config.ParserConfig) (parser.Parser, error) {
	client, err := parser.NewHTTPClient(parser.Config{
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout.Duration(),
		APIKey:     cfg.APIKey.Value(),
		RateLimit:  cfg.RateLimit,
		Burst:      cfg.Burst,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, err
	}
	return parser.NewCached(client, cfg.CacheSize)
}

// newNormalizer maps configured replacements; nil keeps the defaults.
func newNormalizer(cfg config.NormalizeConfig) *normalize.Normalizer {
	if cfg.Replacements == nil {
		return normalize.Default()
	}
	reps := make([]normalize.Replacement, len(cfg.Replacements))
	for i, r := range cfg.Replacements {
		reps[i] = normalize.Replacement{From: r.From, To: r.To}
	}
	return normalize.New(reps)
}
