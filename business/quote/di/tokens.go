// Package di contains dependency injection tokens for the quote context.
package di

import (
	"github.com/fd1az/bestprice/business/quote/app"
	"github.com/fd1az/bestprice/business/quote/infra/httpapi"
	"github.com/fd1az/bestprice/business/quote/infra/httpsource"
	"github.com/fd1az/bestprice/internal/di"
)

// Public service tokens - exposed to other modules
var (
	QuoteService = di.NewToken[*app.QuoteService]("quote.QuoteService")
	Watcher      = di.NewToken[*app.Watcher]("quote.Watcher")
	Reporter     = di.NewToken[app.Reporter]("quote.Reporter")
	Source       = di.NewToken[*httpsource.Source]("quote.Source")
)

// Private dependency tokens - internal to quote module
var (
	Fetcher   = di.NewToken[*app.Fetcher]("quote:fetcher")
	APIServer = di.NewToken[*httpapi.Server]("quote:apiServer")
)

// Helper functions for type-safe access
func GetQuoteService(c di.ServiceRegistry) *app.QuoteService {
	return di.GetToken(c, QuoteService)
}

func GetWatcher(c di.ServiceRegistry) *app.Watcher {
	return di.GetToken(c, Watcher)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}

func GetSource(c di.ServiceRegistry) *httpsource.Source {
	return di.GetToken(c, Source)
}

func GetFetcher(c di.ServiceRegistry) *app.Fetcher {
	return di.GetToken(c, Fetcher)
}

func GetAPIServer(c di.ServiceRegistry) *httpapi.Server {
	return di.GetToken(c, APIServer)
}
