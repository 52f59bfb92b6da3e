package filter

import (
	"net/http"
)

// Middleware wraps a handler with pre and post logic. A middleware may call
// the inner handler at most once; not calling it short-circuits the chain,
// in which case the middleware is responsible for writing the response.
type Middleware func(next http.Handler) http.Handler

// Chain is an ordered filter composition. Filters run in registration order
// on the request path and in reverse order on the response path: filter i's
// pre-logic runs before filter i+1's, filter i's post-logic after filter
// i+1's and after the terminal handler.
type Chain struct {
	middlewares []Middleware
}

func NewChain(middlewares ...Middleware) Chain {
	return Chain{middlewares: middlewares}
}

func (c Chain) Append(mw Middleware) Chain {
	return Chain{middlewares: append(c.middlewares[:len(c.middlewares):len(c.middlewares)], mw)}
}

func (c Chain) Len() int {
	return len(c.middlewares)
}

// Then composes the chain around the terminal handler. An empty chain
// returns the terminal handler itself. Failures raised inside a filter or
// the terminal handler propagate to the composed handler's caller unaltered.
func (c Chain) Then(terminal http.Handler) http.Handler {
	h := terminal
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		h = c.middlewares[i](h)
	}
	return h
}
