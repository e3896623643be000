// Package container provides a small reflection-based dependency
// container: singletons registered by type plus constructor functions
// resolved recursively on demand.
//
// Register bindings and constructors during startup, then treat the
// container as read-only; concurrent resolves during steady-state
// operation are safe without external locking.
//
//	c := container.New()
//	c.Register(logger)                    // pre-built singleton
//	c.MustProvide(NewUserService)         // func(*slog.Logger) *UserService
//	c.MustProvide(NewUserController)      // func(*UserService) *UserController
//
//	svc, err := container.Resolve[*UserService](c)
//
// Constructed instances are not cached: each resolution of a
// constructor-backed type builds a fresh instance unless the value was
// explicitly registered as a singleton. Circular constructor graphs are
// reported as ErrCircularDependency instead of recursing unbounded.
package container
