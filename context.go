package escrowd

import (
	"context"
	"time"

	"github.com/custodia-labs/escrowd/errors"
)

// Context carries request scoped values between the dispatcher, middleware
// and handlers.
type Context = context.Context

type contextKey int

const (
	contextKeyDispatchTime contextKey = iota
)

// WithDispatchTime sets the moment the transaction is applied. The
// dispatcher sets this exactly once per transaction so that every handler
// observes the same clock reading.
func WithDispatchTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyDispatchTime, t)
}

// DispatchTime returns the moment the transaction is applied. It fails if
// called outside of a dispatch.
func DispatchTime(ctx Context) (time.Time, error) {
	t, ok := ctx.Value(contextKeyDispatchTime).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "dispatch time not set")
	}
	return t, nil
}
