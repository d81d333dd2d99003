// Package pool 包含任务池相关的子包。
//
//   - xtpool: 固定 worker 数量、有界队列的任务池
//   - xtsubmit: 面向 xtpool 的提交策略（重试、熔断、积压缓冲）
package pool
