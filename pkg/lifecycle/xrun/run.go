package xrun

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omeyang/xtpool/pkg/observability/xlog"
	"github.com/omeyang/xtpool/pkg/pool/xtpool"
)

// DefaultSignals 返回默认监听的系统信号：SIGHUP、SIGINT、SIGTERM、SIGQUIT。
// 每次调用返回新的切片。
func DefaultSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
}

// testSigChanKey 用于在测试中通过 context 注入信号通道，避免发送真实信号。
type testSigChanKey struct{}

func testSigChan(ctx context.Context) <-chan os.Signal {
	c, _ := ctx.Value(testSigChanKey{}).(<-chan os.Signal)
	return c
}

func withTestSigChan(ctx context.Context, c <-chan os.Signal) context.Context {
	return context.WithValue(ctx, testSigChanKey{}, c)
}

// Run 监听默认信号并运行 services，等价于 RunWithOptions(ctx, nil, services...)。
func Run(ctx context.Context, services ...func(ctx context.Context) error) error {
	return RunWithOptions(ctx, nil, services...)
}

// RunWithOptions 运行 services 直到全部返回。
//
// 除非使用 [WithoutSignalHandler]，收到信号时以 [*SignalError] 取消所有服务，
// 并由返回值带出。
func RunWithOptions(ctx context.Context, opts []Option, services ...func(ctx context.Context) error) error {
	g, _ := NewGroup(ctx, opts...)
	if !g.opts.noSignalHandler {
		g.HandleSignals(g.opts.signals...)
	}
	for _, svc := range services {
		g.Go(svc)
	}
	return g.Wait()
}

// HandleSignals 注册一个信号监听服务：收到任一信号时以 [*SignalError] 取消 Group。
// 未指定信号时使用 DefaultSignals()。
func (g *Group) HandleSignals(signals ...os.Signal) {
	// signal.Notify 不带信号参数会订阅全部信号
	if len(signals) == 0 {
		signals = DefaultSignals()
	}
	g.Go(func(ctx context.Context) error {
		testc := testSigChan(ctx)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, signals...)
		defer signal.Stop(sigCh)

		var sig os.Signal
		select {
		case sig = <-testc:
		case sig = <-sigCh:
		case <-ctx.Done():
			return ctx.Err()
		}
		g.opts.logger.Info(ctx, "received signal",
			xlog.Component(g.opts.name),
			xlog.Operation(sig.String()),
		)
		g.cancel(&SignalError{Signal: sig})
		return nil
	})
}

// Ticker 返回周期执行 fn 的服务函数。immediate 为 true 时启动后先执行一次。
// fn 返回错误时服务以该错误退出。
func Ticker(interval time.Duration, immediate bool, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if interval <= 0 {
			return ErrInvalidInterval
		}
		if fn == nil {
			return ErrNilFunc
		}
		if immediate {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx); err != nil {
				return err
			}
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Destroyer 是 *xtpool.Pool 满足的关闭接口。
type Destroyer interface {
	Destroy(ctx context.Context, mode xtpool.ShutdownMode) error
}

var _ Destroyer = (*xtpool.Pool)(nil)

// PoolService 返回一个服务函数：阻塞到 ctx 取消，然后以 mode 销毁 pool。
//
// timeout <= 0 表示无限等待 worker 退出。销毁成功时返回 nil，
// 使 pool 的正常关闭不会掩盖 Group 的取消原因；超时返回 xtpool.ErrThreadFailure。
func PoolService(p Destroyer, mode xtpool.ShutdownMode, timeout time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if p == nil {
			return ErrNilPool
		}
		<-ctx.Done()

		dctx := context.WithoutCancel(ctx)
		if timeout > 0 {
			var cancel context.CancelFunc
			dctx, cancel = context.WithTimeout(dctx, timeout)
			defer cancel()
		}
		return p.Destroy(dctx, mode)
	}
}
