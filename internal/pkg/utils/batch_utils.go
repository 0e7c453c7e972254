package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// TolerantBatch runs fn for every item with at most limit calls in flight.
// A failed item is replaced by fallback(item, err); the batch itself never
// fails. Results keep the order of items regardless of completion order.
// limit <= 1 runs the items sequentially.
func TolerantBatch[T, R any](
	ctx context.Context,
	items []T,
	limit int,
	fn func(ctx context.Context, item T) (R, error),
	fallback func(item T, err error) R,
) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}
	if limit < 1 {
		limit = 1
	}

	// errgroup используется только как ограничитель параллельности: ошибки не пробрасываются
	var eg errgroup.Group
	eg.SetLimit(limit)

	for i, item := range items {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = fallback(item, err)
				return nil
			}
			r, err := fn(ctx, item)
			if err != nil {
				results[i] = fallback(item, err)
				return nil
			}
			results[i] = r
			return nil
		})
	}
	_ = eg.Wait()
	return results
}
