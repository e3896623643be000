package internal

// buildChain composes an ordered middleware list around a terminal action.
//
// The list is applied in reverse so the first middleware becomes the
// outermost wrapper. Every step in the resulting chain is a distinct
// immutable closure over "the rest of the chain": there is no shared
// cursor, so a middleware that calls next twice, or stores next and calls
// it later, replays the downstream chain deterministically.
func buildChain(terminal HandlerFunc, mw []Middleware) HandlerFunc {
	h := terminal
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
