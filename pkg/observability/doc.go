// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，支持 lumberjack 文件轮转
//   - xmetrics: pool 指标与生命周期追踪，基于 OpenTelemetry
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 默认实现为空操作，不注入时零开销
package observability
