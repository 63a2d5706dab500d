package shop

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Sinks records a purchase into every member concurrently. One sink failing
// does not stop the others; all failures are joined.
type Sinks []PurchaseSink

func (s Sinks) Record(ctx context.Context, p Purchase) error {
	errs := make([]error, len(s))
	var g errgroup.Group
	for i, sink := range s {
		i, sink := i, sink
		g.Go(func() error {
			errs[i] = sink.Record(ctx, p)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
