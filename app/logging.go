package app

import (
	"time"

	"github.com/rs/zerolog"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/errors"
)

// Logging is a decorator that writes one structured log line per
// processed transaction.
type Logging struct {
	log zerolog.Logger
}

var _ escrowd.Decorator = Logging{}

// NewLogging creates a Logging decorator.
func NewLogging(log zerolog.Logger) Logging {
	return Logging{log: log}
}

// Check logs the validation of the transaction.
func (l Logging) Check(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	l.report("check", tx, start, err)
	return res, err
}

// Deliver logs the execution of the transaction.
func (l Logging) Deliver(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	l.report("deliver", tx, start, err)
	return res, err
}

func (l Logging) report(phase string, tx escrowd.Tx, start time.Time, err error) {
	e := l.log.Info()
	if err != nil {
		e = l.log.Warn().Uint32("code", errors.Code(err)).Str("err", err.Error())
	}
	e.Str("phase", phase).
		Str("path", escrowd.GetPath(tx)).
		Dur("duration", time.Since(start)).
		Msg("tx")
}
