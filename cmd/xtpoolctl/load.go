package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"text/tabwriter"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/time/rate"

	"github.com/omeyang/xtpool/pkg/config/xconf"
	"github.com/omeyang/xtpool/pkg/lifecycle/xrun"
	"github.com/omeyang/xtpool/pkg/observability/xlog"
	"github.com/omeyang/xtpool/pkg/observability/xmetrics"
	"github.com/omeyang/xtpool/pkg/pool/xtpool"
	"github.com/omeyang/xtpool/pkg/pool/xtsubmit"
)

// loadConfig 是一次压测的完整参数。
type loadConfig struct {
	pool     xconf.PoolConfig
	tasks    int
	rate     float64
	work     time.Duration
	retry    bool
	attempts uint
	guard    bool
	backlog  int
	report   time.Duration

	configPath string
	prefix     string
	watch      bool
	loader     *xconf.Loader
}

// loadResult 汇总一次压测的结果。
type loadResult struct {
	stats       xtpool.Stats
	rejected    map[xtpool.Status]int
	ran         int64
	dropped     int
	elapsed     time.Duration
	interrupted bool
	destroyErr  error
	metrics     []metricLine
}

func runLoad(ctx context.Context, lc loadConfig, stdout, stderr io.Writer) (*loadResult, error) {
	logger, closeLog, err := buildLogger(lc.pool, stderr)
	if err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	defer func() { _ = closeLog() }()

	if lc.watch && lc.loader != nil {
		w, err := xconf.Watch(lc.loader, func(l *xconf.Loader, err error) {
			if err == nil {
				err = applyLogLevel(l, lc.prefix, logger)
			}
			if err != nil {
				logger.Warn(context.Background(), "config reload failed", xlog.Err(err))
			}
		})
		if err != nil {
			return nil, err
		}
		defer func() { _ = w.Stop() }()
	}

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	recorder, err := xmetrics.NewOTelRecorder(
		xmetrics.WithMeterProvider(provider),
		xmetrics.WithAttributes(xmetrics.Attr{Key: "pool", Value: lc.pool.Name}),
	)
	if err != nil {
		return nil, err
	}

	pool, err := xtpool.New(lc.pool.Workers, lc.pool.QueueCapacity,
		xtpool.WithName(lc.pool.Name),
		xtpool.WithLogger(logger),
		xtpool.WithRecorder(recorder),
	)
	if err != nil {
		return nil, err
	}
	mode, err := lc.pool.Mode()
	if err != nil {
		_ = pool.Close()
		return nil, err
	}

	submit, backlog, err := newSubmitFunc(pool, lc, logger)
	if err != nil {
		_ = pool.Close()
		return nil, err
	}

	res := &loadResult{rejected: make(map[xtpool.Status]int)}
	var ran atomic.Int64
	task := func() {
		if lc.work > 0 {
			time.Sleep(lc.work)
		}
		ran.Add(1)
	}

	limit := rate.Inf
	if lc.rate > 0 {
		limit = rate.Limit(lc.rate)
	}
	limiter := rate.NewLimiter(limit, 1)

	begin := time.Now()
	g, _ := xrun.NewGroup(ctx, xrun.WithName("xtpoolctl"), xrun.WithLogger(logger))
	g.HandleSignals()
	g.GoWithName("producer", func(ctx context.Context) error {
		defer g.Cancel(nil)
		for range lc.tasks {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
			err := submit(ctx, task)
			if err == nil {
				continue
			}
			res.rejected[xtpool.StatusOf(err)]++
			if errors.Is(err, xtpool.ErrShuttingDown) {
				break
			}
		}
		if backlog != nil {
			res.dropped = drainBacklog(ctx, backlog, logger)
		}
		return nil
	})
	if lc.report > 0 {
		g.GoWithName("reporter", xrun.Ticker(lc.report, false, func(context.Context) error {
			s := pool.Stats()
			fmt.Fprintf(stdout, "queued=%d live=%d waiting=%d executing=%d executed=%d rejected=%d\n",
				s.Queued, s.LiveWorkers, s.WaitingWorkers, s.ExecutingWorkers, s.Executed, s.Rejected)
			return nil
		}))
	}

	var destroyErr error
	g.GoWithName("pool", func(ctx context.Context) error {
		destroyErr = xrun.PoolService(pool, mode, lc.pool.ShutdownTimeout)(ctx)
		return nil
	})

	err = g.Wait()
	res.elapsed = time.Since(begin)
	res.interrupted = errors.Is(err, xrun.ErrSignal)
	if err != nil && !res.interrupted {
		return nil, err
	}

	res.destroyErr = destroyErr
	if errors.Is(destroyErr, xtpool.ErrThreadFailure) {
		// 残留 worker 完成当前任务后才会退出，统计以退出后为准
		<-pool.Done()
	}
	res.stats = pool.Stats()
	res.ran = ran.Load()
	if res.metrics, err = collectMetrics(context.Background(), reader); err != nil {
		logger.Warn(context.Background(), "collect metrics failed", xlog.Err(err))
	}
	if destroyErr != nil {
		return res, destroyErr
	}
	return res, nil
}

// newSubmitFunc 按参数组合提交策略：Guard 在最内层，其外是 Backlog 或 Retry。
// 启用积压时返回对应的 Backlog，生产结束后由调用方补交剩余任务。
func newSubmitFunc(pool *xtpool.Pool, lc loadConfig, logger xlog.Logger) (func(context.Context, func()) error, *xtsubmit.Backlog, error) {
	var target xtsubmit.Submitter = pool
	if lc.guard {
		g, err := xtsubmit.NewGuard(pool,
			xtsubmit.WithGuardName(lc.pool.Name),
			xtsubmit.WithGuardLogger(logger),
		)
		if err != nil {
			return nil, nil, err
		}
		target = g
	}
	if lc.backlog > 0 {
		b, err := xtsubmit.NewBacklog(target, lc.backlog)
		if err != nil {
			return nil, nil, err
		}
		return b.Submit, b, nil
	}
	if !lc.retry {
		return target.Submit, nil, nil
	}
	return func(ctx context.Context, fn func()) error {
		return xtsubmit.Retry(ctx, target, fn, xtsubmit.WithAttempts(lc.attempts))
	}, nil, nil
}

// drainBacklog 持续补交积压任务，直到积压清空、ctx 结束或目标不再接受任务。
// 返回最终被丢弃的任务数。
func drainBacklog(ctx context.Context, b *xtsubmit.Backlog, logger xlog.Logger) int {
	for b.Len() > 0 {
		if _, err := b.Flush(ctx); err != nil {
			logger.Warn(ctx, "backlog flush stopped", xlog.Err(err), xlog.QueueDepth(b.Len()))
			break
		}
		if b.Len() == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return b.Drop()
		case <-time.After(time.Millisecond):
		}
	}
	return b.Drop()
}

func buildLogger(cfg xconf.PoolConfig, stderr io.Writer) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetOutput(stderr).
		SetLevelString(cfg.Log.Level).
		SetFormat(cfg.Log.Format).
		SetAttrs(xlog.Component("xtpoolctl"))
	if cfg.Log.File != "" {
		b = b.SetRotation(cfg.Log.File, xlog.WithMaxSizeMB(100), xlog.WithMaxBackups(3))
	}
	return b.Build()
}

// applyLogLevel 读取重载后的日志级别并应用。
func applyLogLevel(l *xconf.Loader, prefix string, logger xlog.LoggerWithLevel) error {
	cfg, err := l.Pool(prefix)
	if err != nil {
		return err
	}
	level, err := xlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	logger.Info(context.Background(), "log level updated", xlog.Operation(level.String()))
	return nil
}

func (r *loadResult) print(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "pool\t%s (%s)\n", r.stats.Name, r.stats.ID)
	fmt.Fprintf(tw, "state\t%s\n", r.stats.State)
	fmt.Fprintf(tw, "elapsed\t%s\n", r.elapsed.Round(time.Millisecond))
	fmt.Fprintf(tw, "interrupted\t%t\n", r.interrupted)
	fmt.Fprintf(tw, "submitted\t%d\n", r.stats.Submitted)
	fmt.Fprintf(tw, "executed\t%d\n", r.stats.Executed)
	fmt.Fprintf(tw, "discarded\t%d\n", r.stats.Discarded)
	fmt.Fprintf(tw, "rejected\t%d\n", r.stats.Rejected)
	for s := xtpool.StatusUnknown; s <= xtpool.StatusResourceError; s++ {
		n := r.rejected[s]
		if n == 0 {
			continue
		}
		name := s.String()
		if s == xtpool.StatusUnknown {
			name = "other"
		}
		fmt.Fprintf(tw, "  %s\t%d\n", name, n)
	}
	if r.dropped > 0 {
		fmt.Fprintf(tw, "backlog dropped\t%d\n", r.dropped)
	}
	if r.elapsed > 0 {
		fmt.Fprintf(tw, "throughput\t%.0f tasks/s\n", float64(r.ran)/r.elapsed.Seconds())
	}
	for _, m := range r.metrics {
		fmt.Fprintf(tw, "%s\t%s\n", m.name, m.value)
	}
	_ = tw.Flush()
}
