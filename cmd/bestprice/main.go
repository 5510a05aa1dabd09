// Package main is the entry point for the best price aggregator.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fd1az/bestprice/business/exchange"
	exchangeDI "github.com/fd1az/bestprice/business/exchange/di"
	exchangeDomain "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/business/quote"
	quoteApp "github.com/fd1az/bestprice/business/quote/app"
	quoteDI "github.com/fd1az/bestprice/business/quote/di"
	"github.com/fd1az/bestprice/business/quote/domain"
	"github.com/fd1az/bestprice/internal/apm"
	"github.com/fd1az/bestprice/internal/config"
	"github.com/fd1az/bestprice/internal/health"
	"github.com/fd1az/bestprice/internal/logger"
	"github.com/fd1az/bestprice/internal/metrics"
	"github.com/fd1az/bestprice/internal/monolith"
	"github.com/fd1az/bestprice/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// flags holds the command line options.
type flags struct {
	configPath string
	crypto     string
	fiat       string
	scope      string
	cli        bool
	watch      bool
	list       bool
	serve      bool
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&f.crypto, "crypto", "", "Cryptocurrency symbol (btc, eth, xrp, ltc)")
	flag.StringVar(&f.fiat, "fiat", "", "Fiat currency symbol (eur, usd)")
	flag.StringVar(&f.scope, "scope", "", "Exchange id, or \"all\" for every exchange")
	flag.BoolVar(&f.cli, "cli", false, "Print results to stdout instead of the TUI")
	flag.BoolVar(&f.watch, "watch", false, "With -cli, repeat the query every watch.interval")
	flag.BoolVar(&f.list, "list", false, "List the supported exchanges and exit")
	flag.BoolVar(&f.serve, "serve", false, "Serve the JSON API only")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("bestprice %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default
	tuiMode := !f.cli && !f.serve && !f.list

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, f, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags, tuiMode bool) error {
	// Load configuration
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cfg, f, tuiMode)

	// Setup logger (discard in TUI mode, stderr otherwise)
	var out io.Writer = os.Stderr
	if tuiMode {
		out = io.Discard
	}
	log := logger.New(out, parseLevel(cfg.App.LogLevel), cfg.App.Name, apm.TraceID)

	// Create monolith (application container)
	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Define modules in dependency order
	modules := []monolith.Module{
		&exchange.Module{}, // Must be first - provides the registry
		&quote.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	if f.list {
		return listExchanges(os.Stdout, exchangeDI.GetRegistry(mono.Services()))
	}

	// Resolve the startup query before anything goes to the network
	registry := exchangeDI.GetRegistry(mono.Services())
	q, err := parseQuery(registry, cfg.Query.Crypto, cfg.Query.Fiat, cfg.Query.Scope)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	longRunning := tuiMode || f.serve || f.watch
	if longRunning {
		if err := startObservability(ctx, mono, log); err != nil {
			return err
		}
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	watcher := quoteDI.GetWatcher(mono.Services())

	switch {
	case f.serve:
		log.Info(ctx, "serving api", "port", cfg.API.Port)
		<-ctx.Done()
		log.Info(ctx, "shutting down")
		return nil
	case tuiMode:
		return runTUI(ctx, watcher, registry, q)
	default:
		return runCLI(ctx, watcher, q, f.watch, log)
	}
}

// applyFlags overrides configuration with explicit flags.
func applyFlags(cfg *config.Config, f flags, tuiMode bool) {
	cfg.App.TUIMode = tuiMode
	if f.crypto != "" {
		cfg.Query.Crypto = f.crypto
	}
	if f.fiat != "" {
		cfg.Query.Fiat = f.fiat
	}
	if f.scope != "" {
		cfg.Query.Scope = f.scope
	}
	if f.serve {
		cfg.API.Enabled = true
	}
}

func parseLevel(level string) logger.Level {
	switch level {
	case "debug":
		return logger.LevelDebug
	case "warn":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	}
	return logger.LevelInfo
}

// parseQuery resolves symbols and scope against the registry.
func parseQuery(registry *exchangeDomain.Registry, crypto, fiat, scope string) (domain.Query, error) {
	pair, err := exchangeDomain.ParsePair(registry.Assets(), crypto, fiat)
	if err != nil {
		return domain.Query{}, err
	}
	s := domain.ParseScope(scope)
	if !s.IsAll() {
		if _, err := registry.Lookup(s.ExchangeID()); err != nil {
			return domain.Query{}, err
		}
	}
	return domain.Query{Pair: pair, Scope: s}, nil
}

func listExchanges(w io.Writer, registry *exchangeDomain.Registry) error {
	for _, d := range registry.All() {
		line := fmt.Sprintf("%-10s %s", d.ID, d.Label())
		if d.FixedPair != nil {
			line += fmt.Sprintf("  [%s only]", d.FixedPair.Compact())
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// startObservability starts telemetry and the health server. Both are
// stopped through mono.Close.
func startObservability(ctx context.Context, mono *monolith.App, log *logger.Logger) error {
	cfg := mono.Config()

	if cfg.Telemetry.Enabled {
		endpoint := cfg.Telemetry.OTLPEndpoint
		if cfg.Telemetry.TraceProvider == string(apm.ZipkinProvider) {
			endpoint = cfg.Telemetry.ZipkinEndpoint
		}

		traceProvider, err := apm.NewTraceProvider(cfg.Telemetry.ServiceName,
			apm.WithProvider(apm.Provider(cfg.Telemetry.TraceProvider), endpoint, log))
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		mono.OnClose(traceProvider.Stop)
		log.Info(ctx, "tracing initialized", "provider", cfg.Telemetry.TraceProvider, "endpoint", endpoint)

		meterProvider, err := metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{Provider: metrics.PrometheusProvider}),
		)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		mono.OnClose(func() error { return meterProvider.Shutdown(context.Background()) })

		promServer := metrics.NewPrometheusServer(cfg.Telemetry.PrometheusPort, log)
		if err := promServer.Start(); err != nil {
			log.Warn(ctx, "failed to start prometheus server", "error", err)
		} else {
			mono.OnClose(func() error { return stopWithTimeout(promServer.Stop) })
			log.Info(ctx, "prometheus metrics server started", "port", cfg.Telemetry.PrometheusPort)
		}
	}

	healthServer := health.NewServer(cfg.Health.Port, version, log)
	registry := exchangeDI.GetRegistry(mono.Services())
	healthServer.RegisterCheck("registry", func(ctx context.Context) (bool, string) {
		return registry.Len() > 0, fmt.Sprintf("%d exchanges", registry.Len())
	})
	healthServer.RegisterCheck("exchanges", quoteDI.GetSource(mono.Services()).Check)

	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
		return nil
	}
	mono.OnClose(func() error { return stopWithTimeout(healthServer.Stop) })
	log.Info(ctx, "health server started", "port", cfg.Health.Port)
	return nil
}

func stopWithTimeout(stop func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return stop(ctx)
}

func runCLI(ctx context.Context, watcher *quoteApp.Watcher, q domain.Query, watch bool, log *logger.Logger) error {
	if watch {
		log.Info(ctx, "watching", "query", q.String())
	}
	// Exchange failures are part of the report; only a rejected query is an error.
	err := watcher.Run(ctx, q, !watch)
	if watch {
		log.Info(ctx, "shutting down")
	}
	return err
}

func runTUI(ctx context.Context, watcher *quoteApp.Watcher, registry *exchangeDomain.Registry, q domain.Query) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := ui.Options{
		Scopes: []ui.ScopeOption{{Value: string(domain.ScopeAll), Label: "All exchanges"}},
		Initial: ui.Selection{
			Crypto: q.Pair.Crypto.Code(),
			Fiat:   q.Pair.Fiat.Code(),
			Scope:  string(q.Scope),
		},
	}
	for _, a := range registry.Assets().Crypto() {
		opts.Cryptos = append(opts.Cryptos, a.Code())
	}
	for _, a := range registry.Assets().Fiat() {
		opts.Fiats = append(opts.Fiats, a.Code())
	}
	for _, d := range registry.All() {
		opts.Scopes = append(opts.Scopes, ui.ScopeOption{Value: d.ID, Label: d.Label()})
	}

	// Channel to receive StartModulesMsg signal
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}
	ui.OnQuery = func(sel ui.Selection) {
		next, err := parseQuery(registry, sel.Crypto, sel.Fiat, sel.Scope)
		if err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			return
		}
		watcher.Submit(next)
	}
	ui.OnRefresh = watcher.Refresh

	// Create and start the TUI program IMMEDIATELY (shows welcome screen)
	p := tea.NewProgram(ui.New(opts), tea.WithAltScreen())
	ui.Program = p

	// Run the watch loop in background (non-blocking)
	errCh := make(chan error, 1)
	go func() {
		// Wait for welcome screen to complete
		select {
		case <-startSignal:
		case <-ctx.Done():
			errCh <- nil
			return
		}
		errCh <- watcher.Run(ctx, q, false)
	}()

	// Quit the program when the context ends (signal)
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	// Run TUI (blocking)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	cancel()

	return <-errCh
}
