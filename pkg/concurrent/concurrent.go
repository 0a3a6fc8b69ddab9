// Package concurrent runs independent jobs on errgroups.
package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs action for each item in its own goroutine, at most limit at a
// time (limit <= 0 means unbounded). The context passed to action is
// cancelled as soon as one action fails; ForEach returns the first error.
func ForEach[T any](ctx context.Context, items []T, limit int, action func(context.Context, T) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, item := range items {
		item := item
		g.Go(func() error {
			return action(ctx, item)
		})
	}
	return g.Wait()
}

// Map is ForEach that keeps one result per item, in input order. On error the
// results of actions that did finish are still filled in.
func Map[T any, R any](ctx context.Context, items []T, limit int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for idx, item := range items {
		idx, item := idx, item
		g.Go(func() error {
			r, err := mapFn(ctx, item)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}
	return out, g.Wait()
}
