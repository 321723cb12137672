// Package batch runs a function over a set of items so that one item's
// failure never stops its siblings, and reports what happened to each.
package batch

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Outcome is the result of running fn over a single item.
type Outcome[T, R any] struct {
	Item  T
	Value R
	Err   error
}

func (o Outcome[T, R]) OK() bool { return o.Err == nil }

// Outcomes keeps the input order of Run.
type Outcomes[T, R any] []Outcome[T, R]

// Run calls fn for every item, sequentially, collecting each result.
// A cancelled context marks the remaining items as failed with ctx.Err().
// A panic inside fn is recovered and recorded as that item's error.
func Run[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) Outcomes[T, R] {
	out := make(Outcomes[T, R], 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			out = append(out, Outcome[T, R]{Item: item, Err: err})
			continue
		}
		v, err := call(ctx, item, fn)
		out = append(out, Outcome[T, R]{Item: item, Value: v, Err: err})
	}
	return out
}

func call[T, R any](ctx context.Context, item T, fn func(context.Context, T) (R, error)) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, item)
}

func (oc Outcomes[T, R]) Succeeded() []Outcome[T, R] {
	var res []Outcome[T, R]
	for _, o := range oc {
		if o.Err == nil {
			res = append(res, o)
		}
	}
	return res
}

func (oc Outcomes[T, R]) Failed() []Outcome[T, R] {
	var res []Outcome[T, R]
	for _, o := range oc {
		if o.Err != nil {
			res = append(res, o)
		}
	}
	return res
}

// Err combines every item error, or returns nil if all items succeeded.
func (oc Outcomes[T, R]) Err() error {
	var err error
	for _, o := range oc {
		err = multierr.Append(err, o.Err)
	}
	return err
}
