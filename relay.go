package relay

import (
	"github.com/dmitrymomot/relay/internal"
)

// Type aliases - public API
type (
	// App ties the container and the router together: register bindings
	// and controllers at startup, then hand Dispatch to a transport adapter.
	App = internal.App

	// Request is the normalized request value produced by a transport adapter.
	Request = internal.Request

	// Response is the normalized response value returned to the transport.
	Response = internal.Response

	// UploadedFile is an uploaded file as normalized by the transport.
	UploadedFile = internal.UploadedFile

	// Context provides request access and helper methods for one dispatch.
	Context = internal.Context

	// HandlerFunc is the signature of every step in the dispatch chain.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// Controller declares routes as structured metadata.
	Controller = internal.Controller

	// RouteDef is the declarative route metadata a controller returns from Routes.
	RouteDef = internal.RouteDef

	// Binding declares the source of one scalar handler parameter.
	Binding = internal.Binding

	// Route is the immutable dispatch record built at registration time.
	Route = internal.Route

	// Router owns the route table and performs dispatch.
	Router = internal.Router

	// Outcome is the structured API result a target method may return.
	Outcome = internal.Outcome

	// HTTPError represents a dispatch error with a status code.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// Option configures the application.
	Option = internal.Option

	// Validatable is implemented by DTO types hydrated from the request body.
	Validatable = internal.Validatable

	// Extractor tries multiple value sources in order.
	Extractor = internal.Extractor

	// ExtractorSource extracts a value from the dispatch context.
	ExtractorSource = internal.ExtractorSource
)

// New creates an application with the given options.
func New(opts ...Option) *App {
	return internal.NewApp(opts...)
}

// Application options.
var (
	// WithLogger sets the application logger.
	WithLogger = internal.WithLogger

	// WithContainer replaces the default empty container.
	WithContainer = internal.WithContainer

	// WithMiddleware appends global middleware.
	WithMiddleware = internal.WithMiddleware
)

// Route declaration helpers.
var (
	GET    = internal.GET
	POST   = internal.POST
	PUT    = internal.PUT
	PATCH  = internal.PATCH
	DELETE = internal.DELETE

	// Path binds a scalar handler parameter to a named path parameter.
	Path = internal.Path

	// Query binds a scalar handler parameter to a named query key.
	Query = internal.Query
)

// Outcome constructors.
var (
	// OK creates a successful outcome with the given payload.
	OK = internal.OK

	// Fail creates a failed outcome with a status code and message.
	Fail = internal.Fail

	// NewResponse creates a raw Response with a status code and body.
	NewResponse = internal.NewResponse
)

// HTTP error constructors.
var (
	NewHTTPError       = internal.NewHTTPError
	ErrBadRequest      = internal.ErrBadRequest
	ErrUnauthorized    = internal.ErrUnauthorized
	ErrForbidden       = internal.ErrForbidden
	ErrNotFound        = internal.ErrNotFound
	ErrConflict        = internal.ErrConflict
	ErrUnprocessable   = internal.ErrUnprocessable
	ErrTooManyRequests = internal.ErrTooManyRequests
	ErrInternal        = internal.ErrInternal

	WithDetail    = internal.WithDetail
	WithErrorCode = internal.WithErrorCode
	WithRequestID = internal.WithRequestID
	WithError     = internal.WithError

	IsHTTPError = internal.IsHTTPError
	AsHTTPError = internal.AsHTTPError
)

// Extractor sources.
var (
	NewExtractor    = internal.NewExtractor
	FromHeader      = internal.FromHeader
	FromQuery       = internal.FromQuery
	FromParam       = internal.FromParam
	FromBearerToken = internal.FromBearerToken
)
