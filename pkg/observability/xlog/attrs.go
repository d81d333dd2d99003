package xlog

import (
	"fmt"
	"log/slog"
	"time"
)

// 常用属性 Key 常量
const (
	KeyError      = "error"
	KeyDuration   = "duration"
	KeyCount      = "count"
	KeyComponent  = "component"
	KeyOperation  = "operation"
	KeyPoolName   = "pool"
	KeyPoolID     = "pool_id"
	KeyWorkerID   = "worker_id"
	KeyQueueDepth = "queue_depth"
	KeyStatus     = "status"
)

// Err 创建错误属性。err 为 nil 时返回空属性（会被 slog 忽略）。
//
//	if err != nil {
//	    logger.Error(ctx, "operation failed", xlog.Err(err))
//	}
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建人类可读的耗时属性（如 "1.5s"）。
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 创建操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Count 创建计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

// PoolName 创建 pool 名称属性
func PoolName(name string) slog.Attr {
	return slog.String(KeyPoolName, name)
}

// PoolID 创建 pool 实例 ID 属性
func PoolID(id string) slog.Attr {
	return slog.String(KeyPoolID, id)
}

// WorkerID 创建 worker 编号属性
func WorkerID(id int) slog.Attr {
	return slog.Int(KeyWorkerID, id)
}

// QueueDepth 创建队列深度属性
func QueueDepth(n int) slog.Attr {
	return slog.Int(KeyQueueDepth, n)
}

// Status 创建状态属性，接受任意 fmt.Stringer。
func Status(s fmt.Stringer) slog.Attr {
	return slog.String(KeyStatus, s.String())
}
