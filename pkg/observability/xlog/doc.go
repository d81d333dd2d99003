// Package xlog 基于 log/slog 的结构化日志库。
//
// # 核心功能
//
//   - Builder 模式配置（输出目标、级别、格式、轮转）
//   - 动态级别调整（运行时热更新，派生 Logger 共享级别）
//   - 所有方法强制传入 context，属性只接受 slog.Attr
//   - [Discard] 提供静默 Logger，供库代码作为默认值
//
// # 创建 Logger
//
// Builder 采用 first-error-wins：遇到第一个配置错误后，后续 Set 操作不再覆盖该错误。
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/app.log").
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// # 日志轮转
//
// [Builder.SetRotation] 基于 lumberjack 按文件大小轮转，
// 清理函数负责关闭底层文件。
//
// # 便捷属性
//
// [Err]、[Duration]、[Component]、[Operation]、[Count]，
// 以及 worker pool 相关的 [PoolName]、[PoolID]、[WorkerID]、[QueueDepth]、[Status]。
package xlog
