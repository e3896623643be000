package internal

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/relay/pkg/container"
)

// App ties the container and the router together and is the entry point
// applications interact with: register bindings and controllers at
// startup, then hand Dispatch to a transport adapter.
type App struct {
	container *container.Container
	router    *Router
	log       *slog.Logger
	global    []Middleware
}

// NewApp creates an application with the given options.
func NewApp(opts ...Option) *App {
	a := &App{
		container: container.New(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.router = NewRouter(a.container, a.log, a.global...)
	return a
}

// Container exposes the dependency container for startup wiring.
// Bindings must not be mutated once dispatching begins.
func (a *App) Container() *container.Container { return a.container }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.log }

// Router returns the router for route table introspection.
func (a *App) Router() *Router { return a.router }

// Provide registers constructor functions with the container.
// Controllers and their dependencies are the typical candidates.
func (a *App) Provide(ctors ...any) error {
	for _, ctor := range ctors {
		if err := a.container.Provide(ctor); err != nil {
			return err
		}
	}
	return nil
}

// Register binds pre-built singletons (a logger, a database pool) into
// the container by their concrete type.
func (a *App) Register(instances ...any) {
	for _, inst := range instances {
		a.container.Register(inst)
	}
}

// Controllers registers controller route metadata with the router.
// Fails fast on configuration errors; call during startup only.
func (a *App) Controllers(ctrls ...Controller) error {
	return a.router.Register(ctrls...)
}

// Dispatch resolves one normalized request to a normalized response.
func (a *App) Dispatch(ctx context.Context, req *Request) *Response {
	return a.router.Dispatch(ctx, req)
}
