package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/immodiag"
	"github.com/fwojciec/immodiag/anthropic"
	"github.com/fwojciec/immodiag/fs"
	"github.com/fwojciec/immodiag/gemini"
	immohttp "github.com/fwojciec/immodiag/http"
	"github.com/fwojciec/immodiag/listing"
	"github.com/fwojciec/immodiag/openai"
	immoslog "github.com/fwojciec/immodiag/slog"
	"github.com/fwojciec/immodiag/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides the configured path when set.
	DBPath string

	// Getenv reads the environment. Tests replace it.
	Getenv func(string) string

	// SQLite database used by the report service.
	DB *sqlite.DB

	// Config is the loaded configuration, available after Run.
	Config *Config
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Getenv: os.Getenv,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("immodiag"),
		kong.Description("Ground French real-estate listings and get a buyer-side diagnosis."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'immodiag --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := LoadConfig(cli.Config, m.Getenv)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: check the file given by --config or IMMODIAG_CONFIG")
		return err
	}
	m.Config = cfg
	deps.Config = cfg
	deps.DBPath = m.dbPath(cfg)

	level := slog.LevelWarn
	if cmd == "serve" {
		level = slog.LevelInfo
	}
	if cli.Debug {
		level = slog.LevelDebug
	}
	deps.Logger = newLogger(stderr, cli.LogFormat, level)

	switch cmd {
	case "context", "review", "serve":
		fetcher := m.newFetcher(cfg)
		defer fetcher.Close()

		extractor := listing.NewExtractor(immoslog.NewLoggingFetcher(fetcher, deps.Logger))
		if limiter := newLimiter(cfg.Fetch); limiter != nil {
			extractor.RateLimiter = limiter
		}
		deps.Grounder = immoslog.NewLoggingGrounder(extractor, deps.Logger)
	}

	switch cmd {
	case "review", "diagnose", "serve":
		analyst, err := m.newAnalyst(ctx, cfg)
		if err != nil {
			return err
		}
		if analyst != nil {
			deps.Analyst = immoslog.NewLoggingAnalyst(analyst, deps.Logger)
		} else if cmd != "serve" {
			fmt.Fprintln(stderr, "Hint: set OPENAI_API_KEY, GEMINI_API_KEY or ANTHROPIC_API_KEY")
			return immodiag.Errorf(immodiag.EINVALID, "no analyst configured")
		}
	}

	switch cmd {
	case "review", "diagnose", "serve", "reports":
		m.DB = sqlite.NewDB(deps.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: set IMMODIAG_DB to use a different database path")
			return fmt.Errorf("failed to open database at %q: %w", deps.DBPath, err)
		}
		defer m.Close()
		deps.Reports = sqlite.NewReportService(m.DB)
	}

	if cmd == "reports" && cli.Reports.List.Export != "" {
		deps.ReportWriter = fs.NewWriter(cli.Reports.List.Export)
	}

	if cmd == "context" && cli.Context.Tokens {
		model := analystModel(cfg)
		tokenCounter, err := gemini.NewTokenCounter(model)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}
		if tokenCounter.Approximate() && model != "" {
			fmt.Fprintf(stderr, "Note: counting with the %s tokenizer; %s may count differently\n", tokenCounter.Model(), model)
		}
		deps.TokenCounter = tokenCounter
	}

	if cmd == "serve" {
		srv := immohttp.NewServer(deps.Grounder, deps.Analyst)
		srv.Reports = deps.Reports
		srv.Logger = deps.Logger
		deps.Handler = srv
	}

	return kongCtx.Run(deps)
}

func (m *Main) newFetcher(cfg *Config) *immohttp.Fetcher {
	var opts []immohttp.Option
	if cfg.Fetch.Timeout > 0 {
		opts = append(opts, immohttp.WithTimeout(cfg.Fetch.Timeout))
	}
	if cfg.Fetch.UserAgent != "" {
		opts = append(opts, immohttp.WithUserAgent(cfg.Fetch.UserAgent))
	}
	return immohttp.NewFetcher(opts...)
}

// newLimiter returns the marketplace limiter for fc, or nil when no rate
// is configured.
func newLimiter(fc FetchConfig) *immohttp.MarketplaceLimiter {
	if fc.RatePerSecond <= 0 && len(fc.MarketplaceRates) == 0 {
		return nil
	}
	var opts []immohttp.LimiterOption
	for domain, rps := range fc.MarketplaceRates {
		opts = append(opts, immohttp.WithMarketplaceRate(domain, rps))
	}
	return immohttp.NewMarketplaceLimiter(fc.RatePerSecond, opts...)
}

// analystModel returns the model the configured analyst would use, or ""
// when no provider has an API key.
func analystModel(cfg *Config) string {
	switch cfg.ResolveProvider() {
	case ProviderOpenAI:
		return cmp.Or(cfg.OpenAI.Model, openai.DefaultModel)
	case ProviderAnthropic:
		return cmp.Or(cfg.Anthropic.Model, anthropic.DefaultModel)
	case ProviderGemini:
		return cmp.Or(cfg.Gemini.Model, gemini.DefaultModel)
	}
	return ""
}

// newAnalyst returns the configured analyst, or nil when no provider has
// an API key.
func (m *Main) newAnalyst(ctx context.Context, cfg *Config) (immodiag.Analyst, error) {
	switch cfg.ResolveProvider() {
	case ProviderOpenAI:
		client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
		return openai.NewAnalyst(client, cfg.OpenAI.Model), nil
	case ProviderAnthropic:
		client := anthropic.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL)
		return anthropic.NewAnalyst(client, cfg.Anthropic.Model), nil
	case ProviderGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      cfg.Gemini.APIKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPOptions: genai.HTTPOptions{BaseURL: cfg.Gemini.BaseURL},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewAnalyst(client, cfg.Gemini.Model), nil
	}
	return nil, nil
}

func (m *Main) dbPath(cfg *Config) string {
	if m.DBPath != "" {
		return m.DBPath
	}
	if cfg.DB != "" {
		return cfg.DB
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "immodiag.db"
	}
	dir := filepath.Join(home, ".immodiag")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "immodiag.db")
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
