// Package monolith provides the application container and module interface.
package monolith

import (
	"context"

	"github.com/fd1az/bestprice/internal/asset"
	"github.com/fd1az/bestprice/internal/config"
	"github.com/fd1az/bestprice/internal/di"
	"github.com/fd1az/bestprice/internal/logger"
)

// Service keys for the shared infrastructure.
const (
	ConfigKey        = "config"
	LoggerKey        = "logger"
	AssetRegistryKey = "assetRegistry"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	AssetRegistry() *asset.Registry
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// App implements the Monolith interface.
type App struct {
	config        *config.Config
	logger        logger.LoggerInterface
	assetRegistry *asset.Registry
	container     di.Container
	closers       []func() error
}

// New creates a new Monolith instance.
func New(cfg *config.Config, log logger.LoggerInterface) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Use default asset registry (pre-populated with supported currencies)
	assetRegistry := asset.DefaultRegistry()

	container := di.NewContainer()
	container.Register(ConfigKey, cfg)
	container.Register(LoggerKey, log)
	container.Register(AssetRegistryKey, assetRegistry)

	return &App{
		config:        cfg,
		logger:        log,
		assetRegistry: assetRegistry,
		container:     container,
	}, nil
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *App) AssetRegistry() *asset.Registry {
	return a.assetRegistry
}

func (a *App) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *App) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *App) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *App) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// OnClose registers fn to run on Close, in reverse registration order.
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources registered with OnClose and returns the first error.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// ConfigFrom resolves the shared configuration.
func ConfigFrom(sr di.ServiceRegistry) *config.Config {
	return sr.Get(ConfigKey).(*config.Config)
}

// LoggerFrom resolves the shared logger.
func LoggerFrom(sr di.ServiceRegistry) logger.LoggerInterface {
	return sr.Get(LoggerKey).(logger.LoggerInterface)
}

// AssetsFrom resolves the shared asset registry.
func AssetsFrom(sr di.ServiceRegistry) *asset.Registry {
	return sr.Get(AssetRegistryKey).(*asset.Registry)
}
