// Package app assembles handlers, middleware and the store into a
// running service core.
package app

import (
	"fmt"
	"regexp"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/errors"
)

var isRoute = regexp.MustCompile(`^[a-z_]+/[a-z_]+$`).MatchString

// Router is a Handler that dispatches messages to the proper
// registered Handler by path.
type Router struct {
	routes map[string]escrowd.Handler
}

var (
	_ escrowd.Registry = (*Router)(nil)
	_ escrowd.Handler  = (*Router)(nil)
)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]escrowd.Handler),
	}
}

// Handle assigns a handler to the given path. Panics on a malformed
// path or a duplicate registration, both are setup bugs.
func (r *Router) Handle(path string, h escrowd.Handler) {
	if !isRoute(path) {
		panic(fmt.Sprintf("invalid route: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("route %s registered twice", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler, or a notFoundHandler that
// reports the missing path.
func (r *Router) handler(tx escrowd.Tx) escrowd.Handler {
	path := escrowd.GetPath(tx)
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	return r.handler(tx).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	return r.handler(tx).Deliver(ctx, store, tx)
}

type notFoundHandler string

func (path notFoundHandler) Check(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(path))
}

func (path notFoundHandler) Deliver(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(path))
}
