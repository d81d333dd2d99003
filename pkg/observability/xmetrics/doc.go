// Package xmetrics 为 worker pool 提供指标与追踪接口。
//
// # 设计理念
//
// xmetrics 仅定义最小化接口 [Recorder]，pool 只依赖接口；
// 默认实现 [NoopRecorder] 不做任何事，[NewOTelRecorder] 基于 OpenTelemetry。
//
// # 指标命名
//
//   - xtpool.task.submitted（counter，属性 outcome）
//   - xtpool.task.executed（counter）
//   - xtpool.task.discarded（counter）
//   - xtpool.task.duration（histogram，单位 s）
//   - xtpool.queue.depth / xtpool.queue.capacity（gauge）
//   - xtpool.workers.live / xtpool.workers.idle（gauge）
//
// 所有指标都附带通过 [WithAttributes] 设置的固定属性（如 pool 名称）。
//
// # 生命周期跨度
//
// [Recorder.Start] 为创建、销毁等生命周期操作开启一个跨度，
// OTel 实现会产生同名 trace span。
package xmetrics
