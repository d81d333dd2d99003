package xtpool

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/omeyang/xtpool/pkg/observability/xlog"
)

// WorkerState 表示 worker 的状态机位置。
//
//	Idle → Waiting → Dequeuing → Executing → Waiting → ... → Exited
type WorkerState int32

const (
	// WorkerIdle 表示 worker 已启动但尚未进入等待（执行启动钩子期间）。
	WorkerIdle WorkerState = iota
	// WorkerWaiting 表示 worker 正在条件变量上等待任务或关闭信号。
	WorkerWaiting
	// WorkerDequeuing 表示 worker 持锁从队头取任务。
	WorkerDequeuing
	// WorkerExecuting 表示 worker 在锁外执行任务。
	WorkerExecuting
	// WorkerExited 表示 worker 已退出，不会再处理任何任务。
	WorkerExited
)

// String 返回状态名称。
func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerWaiting:
		return "waiting"
	case WorkerDequeuing:
		return "dequeuing"
	case WorkerExecuting:
		return "executing"
	case WorkerExited:
		return "exited"
	default:
		return "WorkerState(" + strconv.Itoa(int(s)) + ")"
	}
}

// worker 只持有 pool 的非拥有引用，生命周期不会超过 pool。
type worker struct {
	id    int
	pool  *Pool
	state atomic.Int32
}

func (w *worker) setState(s WorkerState) { w.state.Store(int32(s)) }

func (w *worker) getState() WorkerState { return WorkerState(w.state.Load()) }

// start 在 worker goroutine 上执行启动钩子，并通过 ready 报告结果。
// 启动失败的 worker 直接进入 Exited，不计入 live。
func (w *worker) start(ready chan<- error) {
	p := w.pool
	defer p.wg.Done()

	if err := w.init(); err != nil {
		w.setState(WorkerExited)
		ready <- err
		return
	}

	p.mu.Lock()
	p.live++
	p.mu.Unlock()
	ready <- nil

	w.loop()
}

// init 执行启动钩子，钩子 panic 被转换为错误。
func (w *worker) init() (err error) {
	fn := w.pool.opts.workerInit
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker init panic: %v", r)
		}
	}()
	return fn(w.id)
}

// loop 是 worker 的主循环。
//
// 持锁等待直到队列非空或收到关闭信号；取出任务后先释放锁再执行，
// 保证长任务不会阻塞提交方和其他 worker。
func (w *worker) loop() {
	p := w.pool
	ctx := context.Background()
	for {
		p.mu.Lock()
		w.setState(WorkerWaiting)
		p.waiting++
		for p.queue.Len() == 0 && p.state == StateRunning {
			p.cond.Wait()
		}
		p.waiting--

		if p.state == StateStopImmediately || (p.state == StateDrainAndStop && p.queue.Len() == 0) {
			p.live--
			w.setState(WorkerExited)
			p.mu.Unlock()
			p.logger.Debug(ctx, "worker exited", xlog.WorkerID(w.id))
			return
		}

		w.setState(WorkerDequeuing)
		t, _ := p.queue.Pop()
		p.mu.Unlock()

		w.setState(WorkerExecuting)
		begin := time.Now()
		t.run()
		p.executed.Add(1)
		p.recorder.Executed(ctx, time.Since(begin))
	}
}
