package shop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingSink struct {
	calls atomic.Int32
	err   error
}

func (c *countingSink) Record(ctx context.Context, p Purchase) error {
	c.calls.Add(1)
	return c.err
}

func TestSinksRecordsEverywhere(t *testing.T) {
	boom := errors.New("boom")
	a := &countingSink{}
	b := &countingSink{err: boom}
	c := &countingSink{}

	err := Sinks{a, b, c}.Record(context.Background(), Purchase{ID: 1})
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 1, a.calls.Load())
	assert.EqualValues(t, 1, b.calls.Load())
	assert.EqualValues(t, 1, c.calls.Load())
}

func TestSinksEmpty(t *testing.T) {
	assert.NoError(t, Sinks(nil).Record(context.Background(), Purchase{}))
}
