package container

import "errors"

// Sentinel errors for container operations.
var (
	// ErrNotRegistered is returned when no binding or constructor exists
	// for the requested type.
	ErrNotRegistered = errors.New("container: type not registered")

	// ErrCircularDependency is returned when constructor resolution
	// exceeds the depth guard, which indicates a dependency cycle.
	ErrCircularDependency = errors.New("container: circular dependency detected")

	// ErrInvalidConstructor is returned when Provide receives something
	// other than func(deps...) T or func(deps...) (T, error).
	ErrInvalidConstructor = errors.New("container: invalid constructor signature")

	// ErrConstructorFailed wraps an error returned by a constructor.
	ErrConstructorFailed = errors.New("container: constructor returned error")

	// ErrNilInstance is returned when Register receives a nil instance.
	ErrNilInstance = errors.New("container: nil instance")
)
