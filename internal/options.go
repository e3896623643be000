package internal

import (
	"log/slog"

	"github.com/dmitrymomot/relay/pkg/container"
)

// Option configures the application.
type Option func(*App)

// WithLogger sets the application logger. The logger is also registered
// in the container so handlers and services can depend on *slog.Logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *App) {
		if log != nil {
			a.log = log
			a.container.Register(log)
		}
	}
}

// WithContainer replaces the default empty container, allowing bindings
// prepared before the app exists.
func WithContainer(c *container.Container) Option {
	return func(a *App) {
		if c != nil {
			a.container = c
		}
	}
}

// WithMiddleware appends global middleware. Global middleware wraps every
// dispatch, before controller-level and route-level middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.global = append(a.global, mw...)
	}
}
