package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/replenwise/replenish/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlanner struct {
	calls   atomic.Int64
	failSKU string
}

func (s *stubPlanner) Advice(ctx context.Context, sku string, today time.Time, p domain.PolicyParams) (*domain.ReorderAdvice, error) {
	s.calls.Add(1)
	if sku == s.failSKU {
		return nil, fmt.Errorf("no data for %s", sku)
	}
	return &domain.ReorderAdvice{SKU: sku, ReorderPoint: len(sku)}, nil
}

func TestRunKeepsInputOrder(t *testing.T) {
	planner := &stubPlanner{}
	runner := NewRunner(planner, 4)

	skus := []string{"A", "BB", "CCC", "DDDD", "EEEEE"}
	results := runner.Run(context.Background(), skus, time.Now(), domain.PolicyParams{})

	require.Len(t, results, len(skus))
	for i, res := range results {
		assert.Equal(t, skus[i], res.SKU)
		require.NotNil(t, res.Advice)
		assert.Equal(t, len(skus[i]), res.Advice.ReorderPoint)
	}
	assert.Equal(t, int64(len(skus)), planner.calls.Load())
}

func TestRunFailureDoesNotAbortBatch(t *testing.T) {
	planner := &stubPlanner{failSKU: "BAD"}
	runner := NewRunner(planner, 2)

	results := runner.Run(context.Background(), []string{"OK", "BAD", "ALSO-OK"}, time.Now(), domain.PolicyParams{})

	require.Len(t, results, 3)
	assert.NotNil(t, results[0].Advice)
	assert.Nil(t, results[1].Advice)
	assert.Contains(t, results[1].Error, "no data")
	assert.NotNil(t, results[2].Advice)
}

func TestRunClampsWorkerCount(t *testing.T) {
	runner := NewRunner(&stubPlanner{}, 0)
	results := runner.Run(context.Background(), []string{"A"}, time.Now(), domain.PolicyParams{})
	require.Len(t, results, 1)
	assert.NotNil(t, results[0].Advice)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(&stubPlanner{}, 2)
	results := runner.Run(ctx, []string{"A", "B", "C"}, time.Now(), domain.PolicyParams{})

	require.Len(t, results, 3)
	for i, res := range results {
		assert.NotEmpty(t, res.SKU, "result %d should carry its sku", i)
	}
}
