package xtpool

import "context"

// task 是队列中的任务记录，按值拷贝入队，入队后不可变。
type task struct {
	run func()
}

// SubmitArg 提交 fn(arg)。arg 按值绑定，调用方负责其引用对象的生命周期，
// pool 不会检查或释放 arg。
//
// 返回值与 [Pool.Submit] 相同；fn 为 nil 时返回 [ErrInvalidArgument]。
func SubmitArg[T any](ctx context.Context, p *Pool, fn func(T), arg T) error {
	if fn == nil {
		return ErrInvalidArgument
	}
	return p.Submit(ctx, func() { fn(arg) })
}
