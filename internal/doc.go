// Package internal contains the dispatch core: the route table and
// matcher, the middleware pipeline, the parameter resolver, and the
// normalized request/response values they operate on.
//
// The package is transport-agnostic. A transport adapter produces a
// Request (method, path, parsed query, parsed body, headers, uploads),
// calls App.Dispatch, and writes the returned Response back out. Nothing
// in here reads from the network or blocks on I/O; anything slow lives in
// target methods or injected services.
//
// Dispatch is a single pass: match the route, compose the middleware
// chain (global, then controller-level, then route-level), resolve every
// target-method parameter, invoke, and adapt the result. Routing misses
// and validation failures are converted to responses locally and never
// propagate as errors to the transport.
//
// The public API is re-exported by the root relay package; application
// code should not import this package directly.
package internal
