package xtsubmit

import (
	"context"
	"time"

	"github.com/avast/retry-go/v5"

	"github.com/omeyang/xtpool/pkg/pool/xtpool"
)

// 默认重试参数
const (
	DefaultAttempts = 5
	DefaultDelay    = 5 * time.Millisecond
	DefaultMaxDelay = 200 * time.Millisecond
)

// RetryOption 配置 [Retry]。
type RetryOption func(*retryOptions)

type retryOptions struct {
	attempts uint
	delay    time.Duration
	maxDelay time.Duration
	onRetry  func(attempt uint, err error)
}

// WithAttempts 设置最大尝试次数（含首次）。0 将被忽略。
func WithAttempts(n uint) RetryOption {
	return func(o *retryOptions) {
		if n > 0 {
			o.attempts = n
		}
	}
}

// WithBackoff 设置初始退避与最大退避。非正值将被忽略。
func WithBackoff(delay, maxDelay time.Duration) RetryOption {
	return func(o *retryOptions) {
		if delay > 0 {
			o.delay = delay
		}
		if maxDelay > 0 {
			o.maxDelay = maxDelay
		}
	}
}

// WithOnRetry 设置每次重试前的回调，attempt 从 0 开始。
func WithOnRetry(fn func(attempt uint, err error)) RetryOption {
	return func(o *retryOptions) {
		o.onRetry = fn
	}
}

// Retry 提交 fn，队列满时按指数退避重试。
//
// 只有 [xtpool.ErrQueueFull] 会触发重试；ShuttingDown、InvalidArgument 等
// 错误立即返回。重试次数耗尽时返回最后一次的错误（即 ErrQueueFull）。
// ctx 结束时停止重试并返回 ctx 的错误。
func Retry(ctx context.Context, s Submitter, fn func(), opts ...RetryOption) error {
	if s == nil {
		return ErrNilSubmitter
	}
	if fn == nil {
		return xtpool.ErrInvalidArgument
	}
	if ctx == nil {
		ctx = context.Background()
	}

	o := retryOptions{
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
		maxDelay: DefaultMaxDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	ropts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(o.attempts),
		retry.Delay(o.delay),
		retry.MaxDelay(o.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(IsQueueFull),
		retry.LastErrorOnly(true),
	}
	if o.onRetry != nil {
		ropts = append(ropts, retry.OnRetry(o.onRetry))
	}

	return retry.New(ropts...).Do(func() error {
		return s.Submit(ctx, fn)
	})
}
