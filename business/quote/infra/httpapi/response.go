package httpapi

import (
	"time"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/business/quote/domain"
	"github.com/fd1az/bestprice/internal/apperror"
)

// QuoteRow is one exchange in a run response. Bid and Ask are decimal
// strings or "N/A".
type QuoteRow struct {
	Exchange string `json:"exchange"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Bid      string `json:"bid"`
	Ask      string `json:"ask"`
	Error    string `json:"error,omitempty"`
}

// Side is the winning exchange on one side of the book.
type Side struct {
	Exchange  string `json:"exchange"`
	Label     string `json:"label"`
	Fee       string `json:"fee"`
	Price     string `json:"price"`
	Effective string `json:"effective"`
}

// Best is the fee-adjusted selection of an all-exchange run.
type Best struct {
	Bid           Side   `json:"bid"`
	Ask           Side   `json:"ask"`
	ProfitPercent string `json:"profit_percent"`
}

// RunResponse is the body of GET /v1/quotes.
type RunResponse struct {
	RunID      string         `json:"run_id"`
	RequestID  string         `json:"request_id"`
	Pair       string         `json:"pair"`
	Caption    string         `json:"caption"`
	Scope      string         `json:"scope"`
	Results    []QuoteRow     `json:"results"`
	Best       *Best          `json:"best,omitempty"`
	Notes      []string       `json:"notes,omitempty"`
	Error      map[string]any `json:"error,omitempty"`
	StartedAt  string         `json:"started_at"`
	DurationMs int64          `json:"duration_ms"`
}

// ExchangeInfo is one entry of GET /v1/exchanges.
type ExchangeInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Label     string `json:"label"`
	Fee       string `json:"fee"`
	Method    string `json:"method"`
	FixedPair string `json:"fixed_pair,omitempty"`
}

func newRunResponse(run *domain.Run, requestID string) RunResponse {
	resp := RunResponse{
		RunID:      run.ID.String(),
		RequestID:  requestID,
		Pair:       run.Query.Pair.String(),
		Caption:    run.Query.Pair.Caption(),
		Scope:      string(run.Query.Scope),
		Results:    make([]QuoteRow, 0, len(run.Results)),
		Notes:      run.Notes,
		StartedAt:  run.StartedAt.UTC().Format(time.RFC3339),
		DurationMs: run.Duration().Milliseconds(),
	}

	for _, r := range run.Rows() {
		resp.Results = append(resp.Results, QuoteRow{
			Exchange: r.ExchangeID,
			Name:     r.DisplayName,
			Status:   string(r.Status),
			Bid:      r.Bid,
			Ask:      r.Ask,
			Error:    r.Error,
		})
	}

	if run.Best != nil {
		resp.Best = &Best{
			Bid:           newSide(run.Best.BestBid),
			Ask:           newSide(run.Best.BestAsk),
			ProfitPercent: run.Best.ProfitPercent.StringFixed(2),
		}
	}

	if run.Err != nil {
		resp.Error = errorBody(run.Err)
	}

	return resp
}

func newSide(c domain.Candidate) Side {
	return Side{
		Exchange:  c.ExchangeID,
		Label:     c.Label(),
		Fee:       c.FeeRate.String(),
		Price:     c.Price.String(),
		Effective: c.Effective.StringFixed(2),
	}
}

func newExchangeInfo(d *exchange.Descriptor) ExchangeInfo {
	info := ExchangeInfo{
		ID:     d.ID,
		Name:   d.DisplayName,
		Label:  d.Label(),
		Fee:    d.FeeRate.String(),
		Method: d.Method(),
	}
	if d.FixedPair != nil {
		info.FixedPair = d.FixedPair.String()
	}
	return info
}

// errorBody returns the "error" object of an AppError response.
func errorBody(err error) map[string]any {
	appErr := apperror.Wrap(err, apperror.CodeInternalError, "")
	body, _ := appErr.ToResponse()["error"].(map[string]interface{})
	return body
}
