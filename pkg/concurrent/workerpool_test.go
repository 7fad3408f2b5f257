// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name          string
		workerCount   int
		expectedCount int
	}{
		{"positive count", 4, 4},
		{"zero count defaults to one", 0, 1},
		{"negative count defaults to one", -3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wp := NewWorkerPool(tt.workerCount)
			assert.Equal(t, tt.expectedCount, wp.workerCount)
		})
	}
}

func TestWorkerPoolRun(t *testing.T) {
	ctx := context.Background()

	t.Run("runs all functions", func(t *testing.T) {
		wp := NewWorkerPool(2)
		var count atomic.Int32

		err := wp.Run(ctx,
			func() error { count.Add(1); return nil },
			func() error { count.Add(1); return nil },
			func() error { count.Add(1); return nil },
		)

		assert.NoError(t, err)
		assert.Equal(t, int32(3), count.Load())
	})

	t.Run("returns first error", func(t *testing.T) {
		wp := NewWorkerPool(1)
		wantErr := errors.New("boom")

		err := wp.Run(ctx,
			func() error { return wantErr },
			func() error { return nil },
		)

		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("no functions", func(t *testing.T) {
		wp := NewWorkerPool(2)
		assert.NoError(t, wp.Run(ctx))
	})
}

func TestWorkerPoolRunAll(t *testing.T) {
	ctx := context.Background()

	t.Run("collects all errors without cancelling siblings", func(t *testing.T) {
		wp := NewWorkerPool(3)
		var count atomic.Int32

		errs := wp.RunAll(ctx,
			func() error { count.Add(1); return errors.New("first") },
			func() error { count.Add(1); return nil },
			func() error { count.Add(1); return errors.New("second") },
		)

		assert.Len(t, errs, 2)
		assert.Equal(t, int32(3), count.Load())
	})

	t.Run("no errors", func(t *testing.T) {
		wp := NewWorkerPool(2)
		errs := wp.RunAll(ctx, func() error { return nil })
		assert.Empty(t, errs)
	})

	t.Run("cancelled context reports context error", func(t *testing.T) {
		wp := NewWorkerPool(1)
		cancelledCtx, cancel := context.WithCancel(ctx)
		cancel()

		errs := wp.RunAll(cancelledCtx, func() error { return nil })
		assert.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], context.Canceled)
	})
}
