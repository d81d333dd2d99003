package xtpool

import (
	"github.com/omeyang/xtpool/pkg/observability/xlog"
	"github.com/omeyang/xtpool/pkg/observability/xmetrics"
)

// Option 定义 Pool 可选配置函数类型。
type Option func(*options)

type options struct {
	logger     xlog.Logger
	recorder   xmetrics.Recorder
	name       string
	workerInit func(id int) error
}

func defaultOptions() options {
	return options{
		logger:   xlog.Discard(),
		recorder: xmetrics.NoopRecorder{},
	}
}

// WithLogger 设置日志记录器。默认丢弃所有日志，传入 nil 将被忽略。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRecorder 设置指标记录器。默认不记录，传入 nil 将被忽略。
func WithRecorder(r xmetrics.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithName 设置 pool 名称，用于在多实例场景下区分日志与指标来源。
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithWorkerInit 设置 worker 启动钩子，在 worker 进入等待循环前于该 worker 的
// goroutine 上执行。
//
// 钩子返回错误（或 panic）视为该 worker 启动失败：New 会停止并等待已启动的
// worker，释放全部资源后返回 [ErrResource]。
func WithWorkerInit(fn func(id int) error) Option {
	return func(o *options) {
		o.workerInit = fn
	}
}
