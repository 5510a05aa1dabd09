// Package exchange implements the exchange catalog bounded context.
package exchange

import (
	"context"

	exchangeDI "github.com/fd1az/bestprice/business/exchange/di"
	"github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/internal/di"
	"github.com/fd1az/bestprice/internal/monolith"
)

// Module implements the exchange bounded context.
type Module struct{}

// RegisterServices builds the registry eagerly so catalog and fee errors
// surface at startup.
func (m *Module) RegisterServices(c di.Container) error {
	cfg := monolith.ConfigFrom(c)
	assets := monolith.AssetsFrom(c)

	registry, err := domain.NewRegistry(assets, domain.DefaultDescriptors()...)
	if err != nil {
		return err
	}
	if fees := cfg.FeeOverrides(); len(fees) > 0 {
		registry, err = registry.WithFees(fees)
		if err != nil {
			return err
		}
	}

	di.RegisterToken(c, exchangeDI.Registry, func(sr di.ServiceRegistry) *domain.Registry {
		return registry
	})
	return nil
}

// Startup logs the loaded catalog.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	registry := exchangeDI.GetRegistry(mono.Services())
	for _, d := range registry.All() {
		mono.Logger().Debug(ctx, "exchange registered", "exchange", d.ID, "fee", d.FeePercent(), "method", d.Method())
	}
	mono.Logger().Info(ctx, "exchange module started", "exchanges", registry.Len())
	return nil
}
