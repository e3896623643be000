package internal

// HandlerFunc is the signature of every step in the dispatch chain.
// It receives the per-dispatch Context and returns the response value,
// or an error that the router converts to a response.
type HandlerFunc func(c Context) (*Response, error)

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// A middleware can inspect or modify the request context, transform the
// response on the way out, or short-circuit by returning its own response
// without calling next.
//
// Example:
//
//	func Auth() relay.Middleware {
//	    return func(next relay.HandlerFunc) relay.HandlerFunc {
//	        return func(c relay.Context) (*relay.Response, error) {
//	            if c.Header("Authorization") == "" {
//	                return nil, relay.ErrUnauthorized("authentication required")
//	            }
//	            return next(c)
//	        }
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// Controller declares routes as structured metadata. Controllers are
// registered once at startup; at dispatch time a fresh instance is
// constructed through the container, so Routes must be callable on a
// zero-value prototype and must not touch injected dependencies.
//
// Example:
//
//	type UserController struct {
//	    users *UserService
//	}
//
//	func NewUserController(users *UserService) *UserController {
//	    return &UserController{users: users}
//	}
//
//	func (*UserController) Routes() []relay.RouteDef {
//	    return []relay.RouteDef{
//	        relay.GET("/{id}", "Show", relay.Path("id")),
//	        relay.POST("", "Create"),
//	    }
//	}
type Controller interface {
	Routes() []RouteDef
}

// Prefixer is optionally implemented by controllers to prepend a path
// segment to every route they declare.
type Prefixer interface {
	Prefix() string
}

// MiddlewareProvider is optionally implemented by controllers to attach
// middleware to every route they declare. Controller middleware runs after
// global middleware and before route-level middleware.
type MiddlewareProvider interface {
	Middleware() []Middleware
}
