package xtpool

import (
	"context"
	"math"
	"testing"
)

func FuzzNew(f *testing.F) {
	f.Add(1, 1)
	f.Add(0, 0)
	f.Add(-1, -1)
	f.Add(math.MaxInt, 1)
	f.Add(1, math.MaxInt)
	f.Add(MaxWorkers, MaxQueueCapacity)
	f.Add(MaxWorkers+1, 1)
	f.Add(1, MaxQueueCapacity+1)

	f.Fuzz(func(t *testing.T, workers, capacity int) {
		p, err := New(workers, capacity)
		valid := workers >= 1 && workers <= MaxWorkers && capacity >= 1 && capacity <= MaxQueueCapacity
		if !valid {
			if StatusOf(err) != StatusConfigError {
				t.Fatalf("New(%d, %d) = %v, want config error", workers, capacity, err)
			}
			return
		}
		if err != nil {
			t.Fatalf("New(%d, %d) = %v", workers, capacity, err)
		}

		accepted := 0
		for range min(capacity, 16) + 1 {
			if p.Submit(context.Background(), func() {}) == nil {
				accepted++
			}
		}
		if err := p.Destroy(context.Background(), ShutdownDrain); err != nil {
			t.Fatalf("Destroy: %v", err)
		}
		if got := p.Stats().Executed; got != uint64(accepted) {
			t.Fatalf("executed %d, accepted %d", got, accepted)
		}
	})
}
