// Package quote implements the quote bounded context: fetching tickers,
// aggregating them and selecting the best price.
package quote

import (
	"context"
	"time"

	exchangeDI "github.com/fd1az/bestprice/business/exchange/di"
	"github.com/fd1az/bestprice/business/quote/app"
	quoteDI "github.com/fd1az/bestprice/business/quote/di"
	"github.com/fd1az/bestprice/business/quote/infra"
	"github.com/fd1az/bestprice/business/quote/infra/httpapi"
	"github.com/fd1az/bestprice/business/quote/infra/httpsource"
	"github.com/fd1az/bestprice/internal/di"
	"github.com/fd1az/bestprice/internal/monolith"
	"github.com/fd1az/bestprice/internal/ratelimit"
)

// Module implements the quote bounded context.
type Module struct{}

// RegisterServices registers all quote services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register Source (HTTP transport) - exposed for health checks
	di.RegisterToken(c, quoteDI.Source, func(sr di.ServiceRegistry) *httpsource.Source {
		cfg := monolith.ConfigFrom(sr)
		log := monolith.LoggerFrom(sr)
		registry := exchangeDI.GetRegistry(sr)

		ids := make([]string, 0, registry.Len())
		for _, d := range registry.All() {
			ids = append(ids, d.ID)
		}

		source, err := httpsource.New(httpsource.Config{
			Timeout:            cfg.HTTP.Timeout,
			UserAgent:          cfg.HTTP.UserAgent,
			MaxBodyBytes:       cfg.HTTP.MaxBodyBytes,
			BreakerMaxFailures: cfg.Breaker.MaxFailures,
			BreakerOpenTimeout: cfg.Breaker.OpenTimeout,
		}, ids, log)
		if err != nil {
			panic("failed to create exchange source: " + err.Error())
		}
		return source
	})

	di.RegisterToken(c, quoteDI.Fetcher, func(sr di.ServiceRegistry) *app.Fetcher {
		return app.NewFetcher(quoteDI.GetSource(sr))
	})

	di.RegisterToken(c, quoteDI.QuoteService, func(sr di.ServiceRegistry) *app.QuoteService {
		svc, err := app.NewQuoteService(exchangeDI.GetRegistry(sr), quoteDI.GetFetcher(sr), monolith.LoggerFrom(sr))
		if err != nil {
			panic("failed to create quote service: " + err.Error())
		}
		return svc
	})

	// Reporter depends on the output mode chosen at startup
	di.RegisterToken(c, quoteDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		if monolith.ConfigFrom(sr).App.TUIMode {
			return infra.NewTUIReporter()
		}
		return infra.NewConsoleReporter(nil)
	})

	di.RegisterToken(c, quoteDI.Watcher, func(sr di.ServiceRegistry) *app.Watcher {
		cfg := monolith.ConfigFrom(sr)
		return app.NewWatcher(
			quoteDI.GetQuoteService(sr),
			quoteDI.GetReporter(sr),
			ratelimit.New(cfg.Watch.MaxRoundsPerMinute),
			cfg.Watch.Interval,
			monolith.LoggerFrom(sr),
		)
	})

	di.RegisterToken(c, quoteDI.APIServer, func(sr di.ServiceRegistry) *httpapi.Server {
		cfg := monolith.ConfigFrom(sr)
		log := monolith.LoggerFrom(sr)
		handler := httpapi.NewHandler(quoteDI.GetQuoteService(sr), httpapi.Defaults{
			Crypto: cfg.Query.Crypto,
			Fiat:   cfg.Query.Fiat,
			Scope:  cfg.Query.Scope,
		}, log)
		return httpapi.NewServer(cfg.API.Port, httpapi.NewRouter(handler, log), log)
	})

	return nil
}

// Startup initializes the quote module and, when enabled, the JSON API.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	reporter := quoteDI.GetReporter(mono.Services())
	if err := reporter.Start(ctx); err != nil {
		return err
	}

	var server *httpapi.Server
	if cfg.API.Enabled {
		server = quoteDI.GetAPIServer(mono.Services())
		if err := server.Start(); err != nil {
			return err
		}
		log.Info(ctx, "api server started", "port", cfg.API.Port)
	}

	go func() {
		<-ctx.Done()
		if server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Stop(shutdownCtx); err != nil {
				log.Warn(context.Background(), "api server shutdown failed", "error", err)
			}
		}
		if err := reporter.Stop(); err != nil {
			log.Warn(context.Background(), "reporter shutdown failed", "error", err)
		}
	}()

	log.Info(ctx, "quote module started", "api", cfg.API.Enabled)
	return nil
}
