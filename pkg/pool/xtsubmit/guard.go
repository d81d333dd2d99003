package xtsubmit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/omeyang/xtpool/pkg/observability/xlog"
)

// 默认熔断参数
const (
	DefaultTripAfter   = 5
	DefaultOpenTimeout = time.Second
)

// GuardOption 配置 [Guard]。
type GuardOption func(*guardOptions)

type guardOptions struct {
	name        string
	tripAfter   uint32
	openTimeout time.Duration
	probes      uint32
	logger      xlog.Logger
}

// WithGuardName 设置熔断器名称，用于日志。
func WithGuardName(name string) GuardOption {
	return func(o *guardOptions) {
		o.name = name
	}
}

// WithTripAfter 设置连续多少次队列满后熔断。0 将被忽略。
func WithTripAfter(n uint32) GuardOption {
	return func(o *guardOptions) {
		if n > 0 {
			o.tripAfter = n
		}
	}
}

// WithOpenTimeout 设置熔断打开后多久进入半开状态。非正值将被忽略。
func WithOpenTimeout(d time.Duration) GuardOption {
	return func(o *guardOptions) {
		if d > 0 {
			o.openTimeout = d
		}
	}
}

// WithProbes 设置半开状态允许的试探提交数。0 将被忽略。
func WithProbes(n uint32) GuardOption {
	return func(o *guardOptions) {
		if n > 0 {
			o.probes = n
		}
	}
}

// WithGuardLogger 设置日志记录器，用于记录熔断状态变化。nil 将被忽略。
func WithGuardLogger(l xlog.Logger) GuardOption {
	return func(o *guardOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Guard 用熔断器保护提交。
//
// 只有 ErrQueueFull 计为失败；ShuttingDown 等错误说明调用方用错了 pool，
// 不代表过载，不影响熔断统计。
type Guard struct {
	target Submitter
	name   string
	cb     *gobreaker.CircuitBreaker[struct{}]
}

var _ Submitter = (*Guard)(nil)

// NewGuard 创建熔断保护的 Submitter。
func NewGuard(target Submitter, opts ...GuardOption) (*Guard, error) {
	if target == nil {
		return nil, ErrNilSubmitter
	}
	o := guardOptions{
		name:        "xtpool",
		tripAfter:   DefaultTripAfter,
		openTimeout: DefaultOpenTimeout,
		probes:      1,
		logger:      xlog.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	st := gobreaker.Settings{
		Name:        o.name,
		MaxRequests: o.probes,
		Timeout:     o.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= o.tripAfter
		},
		IsSuccessful: func(err error) bool {
			return !IsQueueFull(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			o.logger.Warn(context.Background(), "submit breaker state changed",
				xlog.Component(name),
				xlog.Operation(from.String()+"->"+to.String()),
			)
		},
	}

	return &Guard{
		target: target,
		name:   o.name,
		cb:     gobreaker.NewCircuitBreaker[struct{}](st),
	}, nil
}

// Submit 经熔断器提交 fn。
//
// 熔断打开或半开限流时不调用目标 pool，返回包装了 gobreaker 错误的 [ErrOverloaded]。
func (g *Guard) Submit(ctx context.Context, fn func()) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := g.cb.Execute(func() (struct{}, error) {
		return struct{}{}, g.target.Submit(ctx, fn)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s: %w", ErrOverloaded, g.name, err)
	}
	return err
}

// State 返回熔断器当前状态。
func (g *Guard) State() gobreaker.State {
	return g.cb.State()
}

// Counts 返回当前统计窗口的计数。
func (g *Guard) Counts() gobreaker.Counts {
	return g.cb.Counts()
}
