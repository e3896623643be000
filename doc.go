// Package relay is a small backend framework built around a single
// request dispatch pass: match a route, compose the middleware chain,
// resolve every target-method parameter, invoke, and adapt the result to
// a normalized response.
//
// The core is transport-agnostic: a transport adapter (see the adapters
// package) produces a normalized Request and writes back the returned
// Response. Controllers declare routes as structured metadata and are
// constructed per dispatch through the dependency container, so handler
// methods receive their services, coerced path and query parameters, and
// validated request DTOs as plain arguments:
//
//	type UserController struct {
//	    users *UserService
//	}
//
//	func NewUserController(users *UserService) *UserController {
//	    return &UserController{users: users}
//	}
//
//	func (*UserController) Prefix() string { return "/users" }
//
//	func (*UserController) Routes() []relay.RouteDef {
//	    return []relay.RouteDef{
//	        relay.GET("/{id}", "Show", relay.Path("id")),
//	        relay.POST("", "Create"),
//	    }
//	}
//
//	func (c *UserController) Show(id int) (*relay.Outcome, error) { ... }
//	func (c *UserController) Create(req *CreateUserRequest) (*relay.Outcome, error) { ... }
//
// Startup wiring registers singletons and constructors with the
// container, then controllers with the router:
//
//	app := relay.New(relay.WithLogger(log))
//	app.Register(pool, cache)
//	if err := app.Provide(NewUserService, NewUserController); err != nil { ... }
//	if err := app.Controllers(&UserController{}); err != nil { ... }
//
// Validation failures surface as a 422 outcome carrying every failing
// field's messages; routing misses and malformed path parameters are
// indistinguishable 404 outcomes; unresolvable dependencies are 500-class
// configuration errors logged loudly.
package relay
