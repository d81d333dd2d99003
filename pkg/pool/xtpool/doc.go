// Package xtpool 提供固定 worker 数量、有界 FIFO 队列的任务池。
//
// Pool 在创建时一次性启动全部 worker，所有 worker 共享一个环形队列，
// 队列和关闭状态由一把锁与一个条件变量保护。提交方在锁内写入队尾并唤醒
// 一个等待中的 worker；worker 在锁内从队头取出任务，释放锁后执行。
//
// # 状态码
//
// 所有失败都以哨兵错误返回，可用 errors.Is 判断，也可用 [StatusOf] 映射为
// [Status]：
//   - [ErrInvalidArgument]: nil pool、nil 任务或未知关闭模式
//   - [ErrLock]: ctx 在拿到锁之前结束
//   - [ErrQueueFull]: 队列已满，本次提交未改变队列
//   - [ErrShuttingDown]: pool 已开始关闭（队列满的判断优先于关闭状态）
//   - [ErrThreadFailure]: Destroy 等待 worker 退出失败
//   - [ErrConfig]: worker 数或队列容量超出范围
//   - [ErrResource]: 创建期间资源准备失败（worker 启动钩子、指标回调注册）
//
// # 创建
//
// New 要么返回完全可用的 Pool，要么不留下任何东西：worker 启动失败时，
// 已启动的 worker 被要求立即退出并被等待，随后释放队列。
//
// # 关闭
//
// Destroy 支持两种模式：
//   - [ShutdownImmediate]: 丢弃所有未开始的任务，执行中的任务完成后退出
//   - [ShutdownDrain]: 所有已入队任务执行完毕后退出
//
// 两种模式下 pool 都会立即拒绝新任务。同一 pool 只有第一次 Destroy 生效，
// 之后的调用返回 [ErrShuttingDown]。
//
// Destroy 的 ctx 在 worker 全部退出之前结束时返回 [ErrThreadFailure]，
// 此时队列与 worker 记录不会被释放，残留 worker 在后台继续运行到退出，
// 可通过 [Pool.Done] 等待。
//
// # 注意事项
//
//   - Submit 不阻塞等待空位，也不重试；需要重试或熔断时使用 xtsubmit
//   - 任务 panic 不会被恢复
//   - 永不返回的任务会永久占用一个 worker，ShutdownDrain 也会因此无法完成
//   - 不要在任务内部用无截止时间的 ctx 调用 Destroy
package xtpool
