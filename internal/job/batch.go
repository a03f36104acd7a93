package job

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunBatch runs jobs with at most workers in flight. The first failure
// cancels jobs that have not started yet and is returned. Outcomes are
// indexed like jobs; entries for failed or skipped jobs are nil.
func (r *Runner) RunBatch(ctx context.Context, jobs []Job, workers int) ([]*Outcome, error) {
	if workers <= 0 {
		workers = 1
	}

	log := logger()
	log.Info("batch starting", "jobs", len(jobs), "workers", workers)

	outcomes := make([]*Outcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		i, j := i, j
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			out, err := r.Run(gctx, j)
			if err != nil {
				log.Error("job failed", "job", j.name(), "error", err)
				return err
			}
			outcomes[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}

	if err := ctx.Err(); err != nil {
		return outcomes, err
	}

	log.Info("batch complete", "jobs", len(jobs))
	return outcomes, nil
}
