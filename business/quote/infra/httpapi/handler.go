// Package httpapi exposes the quote service as a JSON API.
package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/business/quote/domain"
	"github.com/fd1az/bestprice/internal/apperror"
	"github.com/fd1az/bestprice/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// QuoteRunner runs a query.
type QuoteRunner interface {
	Run(ctx context.Context, q domain.Query) (*domain.Run, error)
	Registry() *exchange.Registry
}

// Defaults fill missing query parameters.
type Defaults struct {
	Crypto string
	Fiat   string
	Scope  string
}

// Handler serves the quote endpoints.
type Handler struct {
	service  QuoteRunner
	defaults Defaults
	logger   logger.LoggerInterface
}

// NewHandler creates a Handler.
func NewHandler(service QuoteRunner, defaults Defaults, log logger.LoggerInterface) *Handler {
	return &Handler{
		service:  service,
		defaults: defaults,
		logger:   log,
	}
}

// GetQuotes runs one aggregation.
// GET /v1/quotes?crypto=btc&fiat=eur&scope=all
func (h *Handler) GetQuotes(c *gin.Context) {
	requestID := requestIDFrom(c)
	ctx := c.Request.Context()

	crypto := c.DefaultQuery("crypto", h.defaults.Crypto)
	fiat := c.DefaultQuery("fiat", h.defaults.Fiat)
	scope := c.DefaultQuery("scope", h.defaults.Scope)

	pair, err := exchange.ParsePair(h.service.Registry().Assets(), crypto, fiat)
	if err != nil {
		h.abort(c, requestID, apperror.New(apperror.CodeUnsupportedCurrency,
			apperror.WithContext(strings.ToLower(crypto)+"/"+strings.ToLower(fiat)),
			apperror.WithCause(err)))
		return
	}

	q := domain.Query{Pair: pair, Scope: domain.ParseScope(scope)}
	run, err := h.service.Run(ctx, q)
	if err != nil {
		h.abort(c, requestID, err)
		return
	}

	h.logger.Info(ctx, "quote request served",
		"request_id", requestID,
		"run_id", run.ID.String(),
		"query", q.String(),
	)

	c.JSON(http.StatusOK, newRunResponse(run, requestID))
}

// ListExchanges returns the registry in display order.
// GET /v1/exchanges
func (h *Handler) ListExchanges(c *gin.Context) {
	descriptors := h.service.Registry().All()
	out := make([]ExchangeInfo, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, newExchangeInfo(d))
	}
	c.JSON(http.StatusOK, gin.H{"exchanges": out})
}

func (h *Handler) abort(c *gin.Context, requestID string, err error) {
	appErr := apperror.Wrap(err, apperror.CodeInternalError, "")
	h.logger.Warn(c.Request.Context(), "quote request rejected",
		"request_id", requestID,
		"code", string(appErr.Code),
		"error", appErr.Error(),
	)
	resp := appErr.ToResponse()
	resp["request_id"] = requestID
	c.AbortWithStatusJSON(appErr.StatusCode, resp)
}

// requestIDFrom returns the caller's request id or generates one.
func requestIDFrom(c *gin.Context) string {
	if id := c.GetHeader(requestIDHeader); id != "" {
		return id
	}
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	id := uuid.New().String()
	c.Set("request_id", id)
	return id
}
