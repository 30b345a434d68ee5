package result

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/NielsdaWheelz/verilib/internal/errors"
)

// MergeParallel reduces results as a balanced tree, merging the pairs of
// each level concurrently. Because Merge is associative and commutative the
// outcome equals MergeAll(results).
func MergeParallel(ctx context.Context, results []VerifyCommandResult) (VerifyCommandResult, error) {
	if len(results) == 0 {
		return MergeAll(nil)
	}

	level := results
	for len(level) > 1 {
		next := make([]VerifyCommandResult, (len(level)+1)/2)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := range next {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				l := 2 * i
				if l+1 == len(level) {
					next[i] = level[l]
					return nil
				}
				next[i] = Merge(level[l], level[l+1])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return VerifyCommandResult{}, errors.Wrap(errors.EInternal, "merge cancelled", err)
		}
		level = next
	}
	return level[0], nil
}
