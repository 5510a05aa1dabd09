package asset

import (
	"fmt"
	"strings"
	"sync"
)

// Registry is a thread-safe registry of known assets.
// Iteration follows registration order.
type Registry struct {
	bySymbol map[string]*Asset
	order    []*Asset
	mu       sync.RWMutex
}

// NewRegistry creates a new empty asset registry.
func NewRegistry() *Registry {
	return &Registry{
		bySymbol: make(map[string]*Asset),
	}
}

// Register adds an asset to the registry.
// Panics if an asset with the same symbol is already registered.
func (r *Registry) Register(a *Asset) {
	if a == nil {
		panic("asset: cannot register nil asset")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bySymbol[a.Symbol()]; exists {
		panic(fmt.Sprintf("asset: %s already registered", a.Symbol()))
	}

	r.bySymbol[a.Symbol()] = a
	r.order = append(r.order, a)
}

// Get retrieves an asset by symbol, case-insensitively.
func (r *Registry) Get(symbol string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	return a, ok
}

// MustGet retrieves an asset by symbol, panics if not found.
func (r *Registry) MustGet(symbol string) *Asset {
	a, ok := r.Get(symbol)
	if !ok {
		panic(fmt.Sprintf("asset: %s not found in registry", symbol))
	}
	return a
}

// Parse retrieves an asset by symbol and checks its kind.
func (r *Registry) Parse(symbol string, kind Kind) (*Asset, error) {
	a, ok := r.Get(symbol)
	if !ok {
		return nil, fmt.Errorf("unknown %s symbol %q", kind, symbol)
	}
	if a.Kind() != kind {
		return nil, fmt.Errorf("%s is %s, not %s", a.Symbol(), a.Kind(), kind)
	}
	return a, nil
}

// All returns all registered assets in registration order.
func (r *Registry) All() []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Asset, len(r.order))
	copy(result, r.order)
	return result
}

// Crypto returns the registered cryptocurrencies in registration order.
func (r *Registry) Crypto() []*Asset {
	return r.ofKind(KindCrypto)
}

// Fiat returns the registered fiat currencies in registration order.
func (r *Registry) Fiat() []*Asset {
	return r.ofKind(KindFiat)
}

func (r *Registry) ofKind(kind Kind) []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Asset
	for _, a := range r.order {
		if a.Kind() == kind {
			result = append(result, a)
		}
	}
	return result
}

// Count returns the number of registered assets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Has returns true if an asset with the given symbol is registered.
func (r *Registry) Has(symbol string) bool {
	_, ok := r.Get(symbol)
	return ok
}
