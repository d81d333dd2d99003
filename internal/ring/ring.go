// Package ring 提供定长环形缓冲区，作为 xtpool 的有界任务队列。
//
// Ring 本身不做并发保护：调用方必须在持有同一把锁的前提下访问，
// 这与 xtpool 的"一锁一条件变量"模型一致。
package ring

// Ring 是容量固定的 FIFO 环形缓冲区。
//
// 不变量：
//   - 0 <= count <= len(buf)
//   - 0 <= head, tail < len(buf)
//   - tail == (head + count) mod len(buf)
//   - 满 iff count == len(buf)；空 iff count == 0
type Ring[T any] struct {
	buf   []T
	head  int
	tail  int
	count int
}

// New 创建容量为 capacity 的环形缓冲区。
// capacity <= 0 时返回 ErrInvalidCapacity。
func New[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Ring[T]{buf: make([]T, capacity)}, nil
}

// Push 在队尾写入 v。队列已满时返回 false，且不修改任何状态。
func (r *Ring[T]) Push(v T) bool {
	if r.count == len(r.buf) {
		return false
	}
	r.buf[r.tail] = v
	r.tail = r.next(r.tail)
	r.count++
	return true
}

// Pop 从队头取出一个元素。队列为空时返回零值和 false。
//
// 取出后槽位被清零，返回值与缓冲区不再共享引用。
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.head = r.next(r.head)
	r.count--
	return v, true
}

// Peek 返回队头元素但不取出。
func (r *Ring[T]) Peek() (T, bool) {
	if r.count == 0 {
		var zero T
		return zero, false
	}
	return r.buf[r.head], true
}

// Discard 丢弃所有未读元素并返回丢弃数量。
// head/tail 保持原位，仅清零槽位并将 count 归零。
func (r *Ring[T]) Discard() int {
	n := r.count
	var zero T
	for i, idx := 0, r.head; i < n; i, idx = i+1, r.next(idx) {
		r.buf[idx] = zero
	}
	r.head = r.tail
	r.count = 0
	return n
}

// Release 丢弃所有元素并释放底层数组。
// Release 之后 Ring 不可再使用：Cap 返回 0，Push 总是失败。
func (r *Ring[T]) Release() {
	r.buf = nil
	r.head, r.tail, r.count = 0, 0, 0
}

// Len 返回当前元素数量。
func (r *Ring[T]) Len() int { return r.count }

// Cap 返回容量。
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Full 报告队列是否已满。
func (r *Ring[T]) Full() bool { return r.count == len(r.buf) }

// Empty 报告队列是否为空。
func (r *Ring[T]) Empty() bool { return r.count == 0 }

// Head 返回下一个读位置。
func (r *Ring[T]) Head() int { return r.head }

// Tail 返回下一个写位置。
func (r *Ring[T]) Tail() int { return r.tail }

func (r *Ring[T]) next(i int) int {
	i++
	if i == len(r.buf) {
		return 0
	}
	return i
}
