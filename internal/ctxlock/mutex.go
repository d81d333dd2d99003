// Package ctxlock 提供支持 context 取消的互斥锁。
//
// Mutex 使用容量为 1 的 channel 作为互斥量：
//   - 发送成功 = 获取锁
//   - 发送阻塞 = 锁被占用
//   - 接收 = 释放锁
//
// Mutex 实现 sync.Locker，可直接作为 sync.Cond 的 L 使用。
package ctxlock

import (
	"context"
	"errors"
)

// ErrNotLocked 表示对未持有的锁调用 Unlock。
var ErrNotLocked = errors.New("ctxlock: unlock of unlocked mutex")

// Mutex 是可被 context 中断获取的互斥锁。零值不可用，需通过 New 创建。
type Mutex struct {
	ch chan struct{}
}

// New 创建未加锁的 Mutex。
func New() *Mutex {
	return &Mutex{ch: make(chan struct{}, 1)}
}

// Lock 阻塞直到获取锁。
func (m *Mutex) Lock() {
	m.ch <- struct{}{}
}

// LockContext 获取锁，ctx 结束时放弃并返回 ctx.Err()。
//
// ctx 已结束时即使锁空闲也不会获取，保证取消语义可预测。
func (m *Mutex) LockContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case m.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryLock 非阻塞获取锁，成功返回 true。
func (m *Mutex) TryLock() bool {
	select {
	case m.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Unlock 释放锁。对未加锁的 Mutex 调用会 panic，与 sync.Mutex 一致。
func (m *Mutex) Unlock() {
	select {
	case <-m.ch:
	default:
		panic(ErrNotLocked)
	}
}
