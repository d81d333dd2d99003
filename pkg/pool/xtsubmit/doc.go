// Package xtsubmit 为 xtpool 提供提交策略。
//
// xtpool.Pool.Submit 在队列满时立即返回 ErrQueueFull，从不阻塞或重试。
// 需要其他语义时，在调用方组合本包的策略：
//   - [Retry]: 队列满时按指数退避重试，其他错误立即返回
//   - [Guard]: 持续队列满时熔断，熔断期间快速失败，避免无效提交
//   - [Backlog]: 队列满时把任务放入调用方侧的无界 FIFO，稍后按顺序补交
//
// 三者都只依赖 [Submitter] 接口，可以相互组合，例如 Retry 包在 Guard 外层：
// 熔断错误不是 ErrQueueFull，因此不会被重试。
package xtsubmit
