package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// metricLine 是一条可打印的指标汇总。
type metricLine struct {
	name  string
	value string
}

// collectMetrics 从 ManualReader 读取一次指标，按名称与属性展开为可打印的行。
func collectMetrics(ctx context.Context, reader *sdkmetric.ManualReader) ([]metricLine, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}

	var lines []metricLine
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, metricLine{label(m.Name, dp.Attributes), fmt.Sprint(dp.Value)})
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, metricLine{label(m.Name, dp.Attributes), fmt.Sprint(dp.Value)})
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					mean := 0.0
					if dp.Count > 0 {
						mean = dp.Sum / float64(dp.Count)
					}
					lines = append(lines, metricLine{
						label(m.Name, dp.Attributes),
						fmt.Sprintf("count=%d mean=%.6fs", dp.Count, mean),
					})
				}
			}
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].name < lines[j].name })
	return lines, nil
}

// label 只展开 pool 以外的属性，pool 名称已在汇总头部输出。
func label(name string, set attribute.Set) string {
	var parts []string
	iter := set.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		if kv.Key == "pool" {
			continue
		}
		parts = append(parts, string(kv.Key)+"="+kv.Value.Emit())
	}
	if len(parts) == 0 {
		return name
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}
