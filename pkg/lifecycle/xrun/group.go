package xrun

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xtpool/pkg/observability/xlog"
)

// Group 基于 errgroup + context 管理多个服务的并发运行和协调关闭。
//
// Go、GoWithName、Cancel 可并发调用；Wait 只应调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     *groupOptions
}

// NewGroup 创建 Group 并返回派生的 context。nil ctx 视为 context.Background()。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	return &Group{
		eg:       eg,
		ctx:      egCtx,
		causeCtx: causeCtx,
		cancel:   cancel,
		opts:     options,
	}, egCtx
}

// Go 启动一个服务。fn 返回非 nil 错误时取消其他所有服务。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 与 Go 相同，但会记录服务的启停日志。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		log := g.opts.logger.With(xlog.Component(g.opts.name), xlog.Operation(name))
		log.Debug(g.ctx, "service starting")
		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn(context.WithoutCancel(g.ctx), "service exited with error", xlog.Err(err))
		} else {
			log.Debug(context.WithoutCancel(g.ctx), "service stopped")
		}
		return err
	})
}

// Wait 等待所有服务结束。
//
// 返回第一个非 nil 错误。Group 被主动取消（Cancel 或信号）时，
// context.Canceled 会被替换为取消原因；没有显式原因时返回 nil。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()

	// causeCtx 未被取消时，context.Canceled 来自服务内部，不过滤
	if errors.Is(err, context.Canceled) && g.causeCtx.Err() != nil {
		return g.cause()
	}
	if err == nil && g.causeCtx.Err() != nil {
		return g.cause()
	}
	return err
}

func (g *Group) cause() error {
	if cause := context.Cause(g.causeCtx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return nil
}

// Cancel 主动取消所有服务，cause 成为 Wait 的返回值。
// cause 不应包装 context.Canceled，否则会被当作普通取消过滤掉。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 返回 Group 的 context。
func (g *Group) Context() context.Context {
	return g.ctx
}
