package convert

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// batch 以 batch.workers 为并发上限描述所有输入。
func (c *Converter) batch(ctx context.Context, inputs []string) ([]Result, error) {
	results := make([]Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Batch.Workers)

	for i, in := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := c.Describe(gctx, in)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// 所有 goroutine 正常结束但父 ctx 已取消时，结果可能不完整。
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
