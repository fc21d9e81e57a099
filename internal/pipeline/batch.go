package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/bailgen/internal/rules"
	"github.com/dgallion1/bailgen/internal/vars"
)

// Request is one entry of a batch.
type Request struct {
	Facts    vars.Context
	Sections []rules.SectionKey
}

// GenerateBatch runs independent requests with at most limit in flight.
// Results keep the order of requests. Cancelling ctx stops scheduling new
// requests; generations already running complete.
func (g *Generator) GenerateBatch(ctx context.Context, reqs []Request, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 1
	}
	results := make([]Result, len(reqs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, req := range reqs {
		if err := egCtx.Err(); err != nil {
			break
		}
		i, req := i, req
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = g.Generate(req.Facts, req.Sections)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}
	g.log.Info("batch complete", "requests", len(reqs), "limit", limit)
	return results, nil
}
