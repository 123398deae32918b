package report

import (
	"context"

	"go.uber.org/multierr"
)

type multiSink []Sink

// Multi fans each report out to every sink. All sinks are tried; their
// errors are combined.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) Emit(ctx context.Context, r Report) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Emit(ctx, r))
	}
	return err
}
