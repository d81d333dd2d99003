package xtpool

import (
	"errors"
	"fmt"
)

// 所有公开操作返回的错误都能通过 [StatusOf] 映射到唯一的 [Status]。
var (
	// ErrInvalidArgument 表示 pool 为 nil、任务为 nil 或关闭模式无效。
	ErrInvalidArgument = errors.New("xtpool: invalid argument")

	// ErrLock 表示在 context 结束前未能获取 pool 的锁。
	ErrLock = errors.New("xtpool: lock error")

	// ErrShuttingDown 表示 pool 已开始关闭，不再接受任务或重复关闭。
	ErrShuttingDown = errors.New("xtpool: pool is shutting down")

	// ErrQueueFull 表示任务队列已满。
	ErrQueueFull = errors.New("xtpool: queue is full")

	// ErrThreadFailure 表示 Destroy 未能在 context 结束前等到所有 worker 退出。
	ErrThreadFailure = errors.New("xtpool: worker join failed")

	// ErrConfig 表示创建参数无效，此时不会分配任何资源。
	ErrConfig = errors.New("xtpool: invalid config")

	// ErrResource 表示创建过程中资源初始化或 worker 启动失败，已完整回滚。
	ErrResource = errors.New("xtpool: resource error")
)

var (
	// ErrInvalidWorkers 表示 worker 数量不在 [1, MaxWorkers] 内。
	ErrInvalidWorkers = fmt.Errorf("%w: worker count out of range", ErrConfig)

	// ErrInvalidQueueCapacity 表示队列容量不在 [1, MaxQueueCapacity] 内。
	ErrInvalidQueueCapacity = fmt.Errorf("%w: queue capacity out of range", ErrConfig)
)

// Status 是 pool 操作结果的状态码。
//
// 1~5 的数值是稳定的对外错误码，
// ConfigError 和 ResourceError 只由 New 返回。
type Status int

const (
	// StatusUnknown 表示错误不属于 xtpool 的状态词汇。
	StatusUnknown Status = -1
	// StatusOK 表示成功。
	StatusOK Status = 0
	// StatusInvalidArgument 对应 [ErrInvalidArgument]。
	StatusInvalidArgument Status = 1
	// StatusLockError 对应 [ErrLock]。
	StatusLockError Status = 2
	// StatusShuttingDown 对应 [ErrShuttingDown]。
	StatusShuttingDown Status = 3
	// StatusQueueFull 对应 [ErrQueueFull]。
	StatusQueueFull Status = 4
	// StatusThreadFailure 对应 [ErrThreadFailure]。
	StatusThreadFailure Status = 5
	// StatusConfigError 对应 [ErrConfig]。
	StatusConfigError Status = 6
	// StatusResourceError 对应 [ErrResource]。
	StatusResourceError Status = 7
)

// String 返回状态的 snake_case 名称，可直接用作日志字段或指标标签。
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidArgument:
		return "invalid_argument"
	case StatusLockError:
		return "lock_error"
	case StatusShuttingDown:
		return "shutting_down"
	case StatusQueueFull:
		return "queue_full"
	case StatusThreadFailure:
		return "thread_failure"
	case StatusConfigError:
		return "config_error"
	case StatusResourceError:
		return "resource_error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// statusErrors 按检查顺序排列。ErrInvalidWorkers 等派生错误包装了 ErrConfig，
// 因此只需匹配基础哨兵错误。
var statusErrors = []struct {
	err    error
	status Status
}{
	{ErrInvalidArgument, StatusInvalidArgument},
	{ErrLock, StatusLockError},
	{ErrShuttingDown, StatusShuttingDown},
	{ErrQueueFull, StatusQueueFull},
	{ErrThreadFailure, StatusThreadFailure},
	{ErrConfig, StatusConfigError},
	{ErrResource, StatusResourceError},
}

// StatusOf 将错误映射为 [Status]。nil 映射为 [StatusOK]，
// 无法识别的错误映射为 [StatusUnknown]。
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	for _, se := range statusErrors {
		if errors.Is(err, se.err) {
			return se.status
		}
	}
	return StatusUnknown
}
