package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// DefaultMaxDepth bounds constructor recursion. Real dependency graphs
// are shallow; hitting the bound means a cycle.
const DefaultMaxDepth = 32

// Container maps types to pre-built singletons or constructor functions.
// Singletons are returned as-is on every resolve; constructor-backed
// types are built fresh per resolve, with their arguments resolved
// recursively in declaration order.
type Container struct {
	singletons map[reflect.Type]reflect.Value
	providers  map[reflect.Type]reflect.Value
	maxDepth   int
	mu         sync.RWMutex
}

// Option configures the container.
type Option func(*Container)

// WithMaxDepth overrides the constructor recursion bound.
func WithMaxDepth(depth int) Option {
	return func(c *Container) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		singletons: make(map[reflect.Type]reflect.Value),
		providers:  make(map[reflect.Type]reflect.Value),
		maxDepth:   DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register binds a pre-built instance as a singleton under its concrete
// type. Later registrations for the same type replace earlier ones.
func (c *Container) Register(instance any) {
	if instance == nil {
		return
	}
	v := reflect.ValueOf(instance)
	c.mu.Lock()
	c.singletons[v.Type()] = v
	c.mu.Unlock()
}

// RegisterAs binds an instance as a singleton under an interface type.
// The first argument is a nil interface pointer naming the type:
//
//	c.RegisterAs((*UserStore)(nil), pgStore)
func (c *Container) RegisterAs(iface, instance any) error {
	if instance == nil {
		return ErrNilInstance
	}
	t := reflect.TypeOf(iface)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Interface {
		return fmt.Errorf("container: RegisterAs needs a nil interface pointer, got %T", iface)
	}
	it := t.Elem()
	v := reflect.ValueOf(instance)
	if !v.Type().Implements(it) {
		return fmt.Errorf("container: %s does not implement %s", v.Type(), it)
	}
	c.mu.Lock()
	c.singletons[it] = v
	c.mu.Unlock()
	return nil
}

// Provide registers a constructor function. The constructor must be
// func(deps...) T or func(deps...) (T, error); T becomes resolvable and
// each dependency is resolved recursively when T is requested.
func (c *Container) Provide(ctor any) error {
	v := reflect.ValueOf(ctor)
	t := v.Type()
	if t == nil || t.Kind() != reflect.Func {
		return fmt.Errorf("%w: not a function: %T", ErrInvalidConstructor, ctor)
	}
	switch t.NumOut() {
	case 1:
		if t.Out(0) == errorType {
			return fmt.Errorf("%w: constructor returns only error", ErrInvalidConstructor)
		}
	case 2:
		if t.Out(1) != errorType {
			return fmt.Errorf("%w: second return value must be error", ErrInvalidConstructor)
		}
	default:
		return fmt.Errorf("%w: want T or (T, error), got %d return values", ErrInvalidConstructor, t.NumOut())
	}
	c.mu.Lock()
	c.providers[t.Out(0)] = v
	c.mu.Unlock()
	return nil
}

// MustProvide is Provide that panics on error. Intended for startup
// wiring where a bad constructor is a programming error.
func (c *Container) MustProvide(ctors ...any) {
	for _, ctor := range ctors {
		if err := c.Provide(ctor); err != nil {
			panic(err)
		}
	}
}

// Has reports whether a binding or constructor exists for the type.
func (c *Container) Has(t reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.singletons[t]; ok {
		return true
	}
	_, ok := c.providers[t]
	return ok
}

// Resolve returns an instance of the requested type: a registered
// singleton unchanged, or a freshly constructed value.
func (c *Container) Resolve(t reflect.Type) (any, error) {
	v, err := c.resolve(t, 0)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (c *Container) resolve(t reflect.Type, depth int) (reflect.Value, error) {
	if depth > c.maxDepth {
		return reflect.Value{}, fmt.Errorf("%w: depth %d exceeded resolving %s", ErrCircularDependency, c.maxDepth, t)
	}

	c.mu.RLock()
	singleton, isSingleton := c.singletons[t]
	provider, hasProvider := c.providers[t]
	c.mu.RUnlock()

	if isSingleton {
		return singleton, nil
	}
	if !hasProvider {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrNotRegistered, t)
	}

	pt := provider.Type()
	args := make([]reflect.Value, pt.NumIn())
	for i := range args {
		arg, err := c.resolve(pt.In(i), depth+1)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("argument %d of %s: %w", i, t, err)
		}
		args[i] = arg
	}

	out := provider.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, errors.Join(ErrConstructorFailed, out[1].Interface().(error))
	}
	return out[0], nil
}

// Resolve is a typed convenience wrapper over Container.Resolve.
func Resolve[T any](c *Container) (T, error) {
	var zero T
	v, err := c.Resolve(reflect.TypeOf(&zero).Elem())
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
