package xmetrics

import (
	"context"
	"time"
)

// Outcome 取值，与 xtpool 的 Status 名称保持一致。
const (
	OutcomeOK              = "ok"
	OutcomeQueueFull       = "queue_full"
	OutcomeShuttingDown    = "shutting_down"
	OutcomeLockError       = "lock_error"
	OutcomeInvalidArgument = "invalid_argument"
)

// Snapshot 是 gauge 回调读取的瞬时状态。
type Snapshot struct {
	Queued      int
	Capacity    int
	LiveWorkers int
	IdleWorkers int
}

// Attr 表示固定属性。
type Attr struct {
	Key   string
	Value string
}

// Span 表示一次生命周期观测。
type Span interface {
	// End 结束观测；err 非 nil 时记录为失败。
	End(err error)
}

// Recorder 定义 pool 使用的观测接口。
//
// 实现必须是并发安全的：Submitted 在提交方 goroutine 上调用，
// Executed 在 worker goroutine 上调用。
type Recorder interface {
	// Submitted 记录一次提交及其结果。
	Submitted(ctx context.Context, outcome string)

	// Executed 记录一个任务执行完成及其耗时。
	Executed(ctx context.Context, d time.Duration)

	// Discarded 记录立即关闭时被丢弃的排队任务数。
	Discarded(ctx context.Context, n int)

	// Observe 注册 gauge 数据源，返回注销函数。
	Observe(source func() Snapshot) (unregister func() error, err error)

	// Start 为生命周期操作开启观测跨度。
	Start(ctx context.Context, operation string) (context.Context, Span)
}

// NoopRecorder 是空实现。
type NoopRecorder struct{}

var _ Recorder = NoopRecorder{}

// Submitted 空实现。
func (NoopRecorder) Submitted(context.Context, string) {}

// Executed 空实现。
func (NoopRecorder) Executed(context.Context, time.Duration) {}

// Discarded 空实现。
func (NoopRecorder) Discarded(context.Context, int) {}

// Observe 空实现，返回的注销函数总是成功。
func (NoopRecorder) Observe(func() Snapshot) (func() error, error) {
	return func() error { return nil }, nil
}

// Start 返回 ctx 和空跨度。nil ctx 被替换为 context.Background()。
func (NoopRecorder) Start(ctx context.Context, _ string) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, NoopSpan{}
}

// NoopSpan 是空跨度。
type NoopSpan struct{}

// End 空实现。
func (NoopSpan) End(error) {}
