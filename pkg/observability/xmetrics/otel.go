package xmetrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xtpool"

	metricSubmitted     = "xtpool.task.submitted"
	metricExecuted      = "xtpool.task.executed"
	metricDiscarded     = "xtpool.task.discarded"
	metricDuration      = "xtpool.task.duration"
	metricQueueDepth    = "xtpool.queue.depth"
	metricQueueCapacity = "xtpool.queue.capacity"
	metricWorkersLive   = "xtpool.workers.live"
	metricWorkersIdle   = "xtpool.workers.idle"
)

type otelConfig struct {
	instrumentationName string
	tracerProvider      trace.TracerProvider
	meterProvider       metric.MeterProvider
	attrs               []attribute.KeyValue
}

// Option 定义 OTel Recorder 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 instrumentation 名称，空值被忽略。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider，nil 被忽略。
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.tracerProvider = provider
		}
	}
}

// WithMeterProvider 设置 MeterProvider，nil 被忽略。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// WithAttributes 设置附加到所有指标与跨度上的固定属性。空 key 被跳过。
func WithAttributes(attrs ...Attr) Option {
	return func(cfg *otelConfig) {
		for _, a := range attrs {
			if a.Key == "" {
				continue
			}
			cfg.attrs = append(cfg.attrs, attribute.String(a.Key, a.Value))
		}
	}
}

type otelRecorder struct {
	tracer    trace.Tracer
	meter     metric.Meter
	attrs     metric.MeasurementOption
	baseAttrs []attribute.KeyValue

	submitted metric.Int64Counter
	executed  metric.Int64Counter
	discarded metric.Int64Counter
	duration  metric.Float64Histogram

	queueDepth    metric.Int64ObservableGauge
	queueCapacity metric.Int64ObservableGauge
	workersLive   metric.Int64ObservableGauge
	workersIdle   metric.Int64ObservableGauge
}

// NewOTelRecorder 创建基于 OpenTelemetry 的 Recorder。
// 默认使用全局 TracerProvider 与 MeterProvider。
func NewOTelRecorder(opts ...Option) (Recorder, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		tracerProvider:      otel.GetTracerProvider(),
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)
	r := &otelRecorder{
		tracer:    cfg.tracerProvider.Tracer(cfg.instrumentationName),
		meter:     meter,
		attrs:     metric.WithAttributes(cfg.attrs...),
		baseAttrs: cfg.attrs,
	}

	var err error
	if r.submitted, err = meter.Int64Counter(metricSubmitted,
		metric.WithDescription("task submissions by outcome"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateInstrument, err)
	}
	if r.executed, err = meter.Int64Counter(metricExecuted,
		metric.WithDescription("tasks executed by workers"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateInstrument, err)
	}
	if r.discarded, err = meter.Int64Counter(metricDiscarded,
		metric.WithDescription("queued tasks discarded by immediate shutdown"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateInstrument, err)
	}
	if r.duration, err = meter.Float64Histogram(metricDuration,
		metric.WithDescription("task execution time"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateInstrument, err)
	}
	if r.queueDepth, err = meter.Int64ObservableGauge(metricQueueDepth,
		metric.WithDescription("tasks waiting in the queue"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateInstrument, err)
	}
	if r.queueCapacity, err = meter.Int64ObservableGauge(metricQueueCapacity,
		metric.WithDescription("queue capacity"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateInstrument, err)
	}
	if r.workersLive, err = meter.Int64ObservableGauge(metricWorkersLive,
		metric.WithDescription("workers that have not exited"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateInstrument, err)
	}
	if r.workersIdle, err = meter.Int64ObservableGauge(metricWorkersIdle,
		metric.WithDescription("workers waiting for tasks"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateInstrument, err)
	}
	return r, nil
}

// Submitted 记录一次提交。
func (r *otelRecorder) Submitted(ctx context.Context, outcome string) {
	attrs := make([]attribute.KeyValue, 0, len(r.baseAttrs)+1)
	attrs = append(attrs, r.baseAttrs...)
	attrs = append(attrs, attribute.String("outcome", outcome))
	r.submitted.Add(metricsContext(ctx), 1, metric.WithAttributes(attrs...))
}

// Executed 记录一次执行。
func (r *otelRecorder) Executed(ctx context.Context, d time.Duration) {
	ctx = metricsContext(ctx)
	r.executed.Add(ctx, 1, r.attrs)
	r.duration.Record(ctx, d.Seconds(), r.attrs)
}

// Discarded 记录丢弃数量，n <= 0 时不记录。
func (r *otelRecorder) Discarded(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	r.discarded.Add(metricsContext(ctx), int64(n), r.attrs)
}

// Observe 注册 gauge 回调。
func (r *otelRecorder) Observe(source func() Snapshot) (func() error, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	reg, err := r.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := source()
		o.ObserveInt64(r.queueDepth, int64(s.Queued), r.attrs)
		o.ObserveInt64(r.queueCapacity, int64(s.Capacity), r.attrs)
		o.ObserveInt64(r.workersLive, int64(s.LiveWorkers), r.attrs)
		o.ObserveInt64(r.workersIdle, int64(s.IdleWorkers), r.attrs)
		return nil
	}, r.queueDepth, r.queueCapacity, r.workersLive, r.workersIdle)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegisterCallback, err)
	}
	return reg.Unregister, nil
}

// Start 开启生命周期跨度。
func (r *otelRecorder) Start(ctx context.Context, operation string) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := r.tracer.Start(ctx, operation, trace.WithAttributes(r.baseAttrs...))
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

// End 结束跨度，err 非 nil 时标记为错误。
func (s *otelSpan) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

// metricsContext 返回不可取消的 context，确保调用方 ctx 已取消时指标仍被记录。
func metricsContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
