package batch

import (
	"context"
	"sync"
	"time"

	"github.com/replenwise/replenish/internal/domain"
	"github.com/rs/zerolog/log"
)

// Planner is the planning surface the runner fans out over. It is satisfied
// by the plan service.
type Planner interface {
	Advice(ctx context.Context, sku string, today time.Time, p domain.PolicyParams) (*domain.ReorderAdvice, error)
}

// Result is the outcome for one SKU of a batch run.
type Result struct {
	SKU    string                `json:"sku"`
	Advice *domain.ReorderAdvice `json:"advice,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// Runner computes reorder advice for many SKUs concurrently.
type Runner struct {
	planner Planner
	workers int
}

func NewRunner(planner Planner, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{planner: planner, workers: workers}
}

// Run fans the SKU list out over the worker pool and returns one result per
// SKU in input order. A failed SKU records its error and never aborts the
// rest of the batch.
func (r *Runner) Run(ctx context.Context, skus []string, today time.Time, p domain.PolicyParams) []Result {
	results := make([]Result, len(skus))

	jobChan := make(chan int, len(skus))
	var wg sync.WaitGroup

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobChan {
				sku := skus[idx]
				advice, err := r.planner.Advice(ctx, sku, today, p)
				if err != nil {
					log.Warn().Err(err).Int("worker", workerID).Str("sku", sku).Msg("batch: advice failed")
					results[idx] = Result{SKU: sku, Error: err.Error()}
					continue
				}
				results[idx] = Result{SKU: sku, Advice: advice}
			}
		}(i)
	}

	for idx := range skus {
		select {
		case <-ctx.Done():
			close(jobChan)
			wg.Wait()
			for i := idx; i < len(skus); i++ {
				if results[i].SKU == "" {
					results[i] = Result{SKU: skus[i], Error: ctx.Err().Error()}
				}
			}
			return results
		case jobChan <- idx:
		}
	}
	close(jobChan)

	wg.Wait()
	return results
}
