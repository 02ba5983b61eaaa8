package content

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// JoinAll runs every task concurrently and returns their results in task order.
// The first failure cancels the context passed to the remaining tasks and is
// returned on its own; no partial results are returned.
func JoinAll[T any](ctx context.Context, tasks ...func(ctx context.Context) (T, error)) ([]T, error) {
	g, gctx := errgroup.WithContext(ctx)
	results := make([]T, len(tasks))
	for i, task := range tasks {
		g.Go(func() error {
			v, err := task(gctx)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
