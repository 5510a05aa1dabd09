package domain

import (
	"strings"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
)

// Scope selects all exchanges or exactly one.
type Scope string

// ScopeAll queries every registered exchange.
const ScopeAll Scope = "all"

// ParseScope normalizes user input. Empty input means all exchanges.
func ParseScope(s string) Scope {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ScopeAll
	}
	return Scope(s)
}

// IsAll reports whether the scope covers every exchange.
func (s Scope) IsAll() bool {
	return s == ScopeAll
}

// ExchangeID returns the single exchange id, empty for ScopeAll.
func (s Scope) ExchangeID() string {
	if s.IsAll() {
		return ""
	}
	return string(s)
}

// Query is one user request: a pair and a scope.
type Query struct {
	Pair  exchange.Pair
	Scope Scope
}

// String returns e.g. "BTC/EUR@all".
func (q Query) String() string {
	return q.Pair.String() + "@" + string(q.Scope)
}
