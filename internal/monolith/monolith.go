// Package monolith provides the application container and module interface.
package monolith

import (
	"context"

	"github.com/arcbridge/venuearb/internal/config"
	"github.com/arcbridge/venuearb/internal/di"
	"github.com/arcbridge/venuearb/internal/instrument"
	"github.com/arcbridge/venuearb/internal/logger"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	Instruments() *instrument.Registry
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// app implements the Monolith interface.
type app struct {
	config      *config.Config
	logger      logger.LoggerInterface
	instruments *instrument.Registry
	container   di.Container
}

// New creates a new Monolith instance.
func New(cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	registry := instrument.NewRegistry()
	for _, sym := range cfg.Venues.Instruments {
		registry.Add(instrument.ID(sym))
	}

	container := di.NewContainer()

	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("instruments", registry)

	return &app{
		config:      cfg,
		logger:      log,
		instruments: registry,
		container:   container,
	}, nil
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) Instruments() *instrument.Registry {
	return a.instruments
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all resources.
func (a *app) Close() error {
	return nil
}
