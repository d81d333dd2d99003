package xtpool

import (
	"context"
	"sync/atomic"
	"testing"
)

func BenchmarkSubmit(b *testing.B) {
	p, err := New(4, 10000)
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()
	b.ReportAllocs()
	var rejected int64
	for b.Loop() {
		if err := p.Submit(ctx, func() {}); err != nil {
			rejected++
		}
	}
	if rejected > 0 {
		b.ReportMetric(float64(rejected)/float64(b.N)*100, "reject-%")
	}
}

func BenchmarkSubmit_Parallel(b *testing.B) {
	p, err := New(8, 10000)
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()
	var rejected atomic.Int64
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := p.Submit(ctx, func() {}); err != nil {
				rejected.Add(1)
			}
		}
	})
	if r := rejected.Load(); r > 0 {
		b.ReportMetric(float64(r)/float64(b.N)*100, "reject-%")
	}
}
