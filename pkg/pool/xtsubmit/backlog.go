package xtsubmit

import (
	"context"
	"sync"

	"github.com/eapache/queue"

	"github.com/omeyang/xtpool/pkg/pool/xtpool"
)

// Backlog 在目标 pool 队列满时把任务暂存在调用方侧的 FIFO 中，
// 由 [Backlog.Flush] 按原顺序补交。
//
// 只要积压非空，新任务一律排在积压之后，保证整体提交顺序不变。
type Backlog struct {
	target Submitter
	limit  int

	mu      sync.Mutex
	pending *queue.Queue
}

var _ Submitter = (*Backlog)(nil)

// NewBacklog 创建积压缓冲。limit 为积压上限，<= 0 表示不限。
func NewBacklog(target Submitter, limit int) (*Backlog, error) {
	if target == nil {
		return nil, ErrNilSubmitter
	}
	return &Backlog{
		target:  target,
		limit:   limit,
		pending: queue.New(),
	}, nil
}

// Submit 提交 fn。
//
// 目标队列满时任务进入积压并返回 nil；积压达到上限时返回 [ErrBacklogFull]。
// 其他错误（如 ShuttingDown）原样返回，任务不会被积压。
func (b *Backlog) Submit(ctx context.Context, fn func()) error {
	if fn == nil {
		return xtpool.ErrInvalidArgument
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.flushLocked(ctx); err != nil {
		return err
	}
	if b.pending.Length() > 0 {
		return b.holdLocked(fn)
	}

	err := b.target.Submit(ctx, fn)
	if IsQueueFull(err) {
		return b.holdLocked(fn)
	}
	return err
}

// Flush 按顺序补交积压任务，直到积压清空或目标队列再次变满。
// 返回本次成功补交的数量。遇到队列满以外的错误时停止并返回该错误。
func (b *Backlog) Flush(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked(ctx)
}

// Len 返回当前积压数量。
func (b *Backlog) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending.Length()
}

// Drop 清空积压并返回被丢弃的数量。
func (b *Backlog) Drop() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.pending.Length()
	b.pending = queue.New()
	return n
}

func (b *Backlog) holdLocked(fn func()) error {
	if b.limit > 0 && b.pending.Length() >= b.limit {
		return ErrBacklogFull
	}
	b.pending.Add(fn)
	return nil
}

func (b *Backlog) flushLocked(ctx context.Context) (int, error) {
	flushed := 0
	for b.pending.Length() > 0 {
		fn, _ := b.pending.Peek().(func())
		err := b.target.Submit(ctx, fn)
		if IsQueueFull(err) {
			return flushed, nil
		}
		if err != nil {
			return flushed, err
		}
		b.pending.Remove()
		flushed++
	}
	return flushed, nil
}
