// Package di contains dependency injection tokens for the exchange context.
package di

import (
	"github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Registry = di.NewToken[*domain.Registry]("exchange.Registry")
)

// GetRegistry resolves the exchange registry.
func GetRegistry(c di.ServiceRegistry) *domain.Registry {
	return di.GetToken(c, Registry)
}
