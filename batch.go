package decgo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/decgo/model"
)

// DecodeBatch translates sentences on up to parallelism workers. Each
// sentence decodes with fully private search state; results are
// returned in input order. The first error cancels the remaining work.
func (d *Decoder) DecodeBatch(ctx context.Context, sources []model.Sentence, parallelism int) ([]*Result, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	results := make([]*Result, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, src := range sources {
		g.Go(func() error {
			res, err := d.Decode(ctx, src)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		d.logger.LogBatch(ctx, len(sources), 1)
		return nil, err
	}
	d.logger.LogBatch(ctx, len(sources), 0)
	return results, nil
}
