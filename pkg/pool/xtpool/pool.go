package xtpool

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/omeyang/xtpool/internal/ctxlock"
	"github.com/omeyang/xtpool/internal/ring"
	"github.com/omeyang/xtpool/pkg/observability/xlog"
	"github.com/omeyang/xtpool/pkg/observability/xmetrics"
)

// 创建参数的硬上限。
const (
	MaxWorkers       = 64
	MaxQueueCapacity = 65536
)

// State 表示 pool 的关闭状态，只能单调地从 Running 转换到两种关闭状态之一。
type State int

const (
	// StateRunning 表示 pool 正常接受任务。
	StateRunning State = iota
	// StateDrainAndStop 表示不再接受任务，worker 处理完队列后退出。
	StateDrainAndStop
	// StateStopImmediately 表示不再接受任务，排队任务被丢弃，worker 尽快退出。
	StateStopImmediately
)

// String 返回状态名称。
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDrainAndStop:
		return "drain_and_stop"
	case StateStopImmediately:
		return "stop_immediately"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ShutdownMode 是 [Pool.Destroy] 的关闭模式。数值固定，可直接写入配置或协议。
type ShutdownMode int

const (
	// ShutdownImmediate 丢弃排队任务，正在执行的任务完成后 worker 退出。
	ShutdownImmediate ShutdownMode = 1
	// ShutdownDrain 执行完所有已入队任务后 worker 退出。
	ShutdownDrain ShutdownMode = 2
)

// String 返回模式名称。
func (m ShutdownMode) String() string {
	switch m {
	case ShutdownImmediate:
		return "immediate"
	case ShutdownDrain:
		return "drain"
	default:
		return fmt.Sprintf("ShutdownMode(%d)", int(m))
	}
}

func (m ShutdownMode) state() (State, bool) {
	switch m {
	case ShutdownImmediate:
		return StateStopImmediately, true
	case ShutdownDrain:
		return StateDrainAndStop, true
	default:
		return StateRunning, false
	}
}

var _ io.Closer = (*Pool)(nil)

// Pool 是固定 worker 数量、有界环形队列的任务池。
//
// 一把锁和一个条件变量保护队列与关闭状态的全部字段；
// 提交方和 worker 在这把锁上互斥。
type Pool struct {
	id       string
	name     string
	capacity int
	opts     options
	logger   xlog.Logger
	recorder xmetrics.Recorder

	mu    *ctxlock.Mutex
	cond  *sync.Cond
	queue *ring.Ring[task]
	state State
	// workers 在 New 返回后不再增长。
	workers  []*worker
	live     int
	waiting  int
	released bool

	unregister func() error
	wg         sync.WaitGroup
	done       chan struct{}

	submitted atomic.Uint64
	rejected  atomic.Uint64
	executed  atomic.Uint64
	discarded atomic.Uint64
}

// New 创建 pool 并启动全部 worker。
//
// workers 必须在 [1, MaxWorkers] 内，queueCapacity 必须在 [1, MaxQueueCapacity] 内，
// 否则返回 [ErrConfig] 系列错误且不分配任何资源。
//
// worker 逐个启动；任一 worker 启动失败时，已启动的 worker 会被要求立即停止并
// 等待退出，资源释放后返回 [ErrResource]。调用方不会拿到半初始化的 Pool。
func New(workers, queueCapacity int, opts ...Option) (*Pool, error) {
	if workers <= 0 || workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidWorkers, workers, MaxWorkers)
	}
	if queueCapacity <= 0 || queueCapacity > MaxQueueCapacity {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidQueueCapacity, queueCapacity, MaxQueueCapacity)
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	queue, err := ring.New[task](queueCapacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResource, err)
	}

	p := &Pool{
		id:       uuid.NewString(),
		name:     o.name,
		capacity: queueCapacity,
		opts:     o,
		recorder: o.recorder,
		mu:       ctxlock.New(),
		queue:    queue,
		state:    StateRunning,
		workers:  make([]*worker, 0, workers),
		done:     make(chan struct{}),
	}
	p.cond = sync.NewCond(p.mu)
	p.logger = o.logger.With(xlog.Component("xtpool"), xlog.PoolName(p.name), xlog.PoolID(p.id))

	ctx, span := p.recorder.Start(context.Background(), "xtpool.create")
	if err := p.spawn(ctx, workers); err != nil {
		span.End(err)
		return nil, err
	}

	unregister, err := p.recorder.Observe(p.snapshot)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrResource, err)
		p.unwind(ctx, err)
		span.End(err)
		return nil, err
	}
	p.unregister = unregister

	go func() {
		p.wg.Wait()
		close(p.done)
	}()

	p.logger.Info(ctx, "pool created",
		xlog.Count(int64(workers)),
		xlog.QueueDepth(queueCapacity),
	)
	span.End(nil)
	return p, nil
}

// spawn 逐个启动 worker，每个 worker 报告启动结果后才启动下一个。
func (p *Pool) spawn(ctx context.Context, n int) error {
	for i := range n {
		w := &worker{id: i, pool: p}
		p.workers = append(p.workers, w)

		ready := make(chan error, 1)
		p.wg.Add(1)
		go w.start(ready)

		if err := <-ready; err != nil {
			err = fmt.Errorf("%w: start worker %d: %w", ErrResource, i, err)
			p.unwind(ctx, err)
			return err
		}
	}
	return nil
}

// unwind 回滚创建：要求已启动的 worker 立即退出，等待其结束后释放资源。
func (p *Pool) unwind(ctx context.Context, cause error) {
	p.mu.Lock()
	p.state = StateStopImmediately
	started := p.live
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
	p.release()
	p.logger.Warn(ctx, "pool creation rolled back", xlog.Err(cause), xlog.Count(int64(started)))
}

// Submit 将 fn 追加到队尾并唤醒一个等待中的 worker。
//
// 返回值：
//   - nil: 入队成功
//   - [ErrInvalidArgument]: p 或 fn 为 nil
//   - [ErrLock]: ctx 在获取锁之前结束
//   - [ErrQueueFull]: 队列已满（先于关闭状态检查）
//   - [ErrShuttingDown]: pool 已开始关闭
//
// Submit 不会阻塞等待队列空位，也不会在内部重试；被拒绝时队列保持不变。
// nil ctx 视为 context.Background()。
func (p *Pool) Submit(ctx context.Context, fn func()) error {
	if p == nil || fn == nil {
		return ErrInvalidArgument
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := p.mu.LockContext(ctx); err != nil {
		p.rejected.Add(1)
		p.recorder.Submitted(ctx, xmetrics.OutcomeLockError)
		return fmt.Errorf("%w: %w", ErrLock, err)
	}
	err := p.enqueue(task{run: fn})
	p.mu.Unlock()

	if err != nil {
		p.rejected.Add(1)
		p.recorder.Submitted(ctx, StatusOf(err).String())
		return err
	}
	p.submitted.Add(1)
	p.recorder.Submitted(ctx, xmetrics.OutcomeOK)
	return nil
}

// enqueue 写入队尾。调用方必须持有 p.mu。
//
// 队列满先于关闭状态检查：关闭中但队列已满时返回 ErrQueueFull。
// 资源释放后队列已不存在，只报告 ErrShuttingDown。
func (p *Pool) enqueue(t task) error {
	if p.released {
		return ErrShuttingDown
	}
	if p.queue.Full() {
		return ErrQueueFull
	}
	if p.state != StateRunning {
		return ErrShuttingDown
	}
	p.queue.Push(t)
	p.cond.Signal()
	return nil
}

// Destroy 关闭 pool 并等待所有 worker 退出。
//
// mode 为 [ShutdownImmediate] 时，排队中尚未开始的任务被丢弃；
// 为 [ShutdownDrain] 时，所有已入队任务都会执行完毕。
// 从调用开始 pool 即拒绝新任务。
//
// 返回值：
//   - nil: 所有 worker 已退出，资源已释放
//   - [ErrInvalidArgument]: p 为 nil 或 mode 无效
//   - [ErrLock]: ctx 在获取锁之前结束
//   - [ErrShuttingDown]: pool 已在关闭中，本次调用不改变任何状态
//   - [ErrThreadFailure]: ctx 在所有 worker 退出前结束
//
// 返回 ErrThreadFailure 时资源不会被释放：仍在运行的 worker 可能继续访问队列，
// 因此宁可保留也不提前释放。可通过 [Pool.Done] 等待残留 worker 最终退出。
//
// 不要在任务内部以 ShutdownDrain 调用 Destroy 并传入无截止时间的 ctx，
// 该 worker 会等待自己退出而永久阻塞。
func (p *Pool) Destroy(ctx context.Context, mode ShutdownMode) error {
	if p == nil {
		return ErrInvalidArgument
	}
	target, ok := mode.state()
	if !ok {
		return fmt.Errorf("%w: unknown shutdown mode %d", ErrInvalidArgument, int(mode))
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := p.mu.LockContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrLock, err)
	}
	if p.state != StateRunning {
		p.mu.Unlock()
		return ErrShuttingDown
	}
	p.state = target
	dropped := 0
	if target == StateStopImmediately {
		dropped = p.queue.Discard()
	}
	pending := p.queue.Len()
	p.cond.Broadcast()
	p.mu.Unlock()

	ctx, span := p.recorder.Start(ctx, "xtpool.destroy")
	if dropped > 0 {
		p.discarded.Add(uint64(dropped))
		p.recorder.Discarded(ctx, dropped)
	}
	p.logger.Info(ctx, "pool shutting down",
		xlog.Operation(mode.String()),
		xlog.QueueDepth(pending),
		xlog.Count(int64(dropped)),
	)

	if err := p.wait(ctx); err != nil {
		err = fmt.Errorf("%w: %w", ErrThreadFailure, err)
		p.logger.Error(ctx, "workers did not exit, resources retained", xlog.Err(err))
		span.End(err)
		return err
	}

	p.release()
	p.logger.Info(ctx, "pool destroyed", xlog.Count(int64(p.executed.Load())))
	span.End(nil)
	return nil
}

// wait 等待所有 worker 退出。worker 已全部退出时优先返回 nil，即使 ctx 同时结束。
func (p *Pool) wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	default:
	}
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// Close 等价于 Destroy(context.Background(), ShutdownDrain)。
func (p *Pool) Close() error {
	return p.Destroy(context.Background(), ShutdownDrain)
}

// Done 返回一个在所有 worker 退出后关闭的 channel。
// 主要用于 Destroy 返回 [ErrThreadFailure] 后等待残留 worker。
// nil Pool 返回 nil channel。
func (p *Pool) Done() <-chan struct{} {
	if p == nil {
		return nil
	}
	return p.done
}

// release 释放队列缓冲区、worker 记录与指标回调。只在所有 worker 退出后调用。
func (p *Pool) release() {
	p.mu.Lock()
	p.queue.Release()
	p.workers = nil
	p.released = true
	unregister := p.unregister
	p.unregister = nil
	p.mu.Unlock()

	if unregister != nil {
		if err := unregister(); err != nil {
			p.logger.Warn(context.Background(), "unregister metrics callback failed", xlog.Err(err))
		}
	}
}
