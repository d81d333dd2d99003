package xtsubmit

import "errors"

var (
	// ErrNilSubmitter 表示未提供目标 Submitter。
	ErrNilSubmitter = errors.New("xtsubmit: nil submitter")

	// ErrOverloaded 表示熔断器处于打开或半开限流状态，任务未被提交。
	ErrOverloaded = errors.New("xtsubmit: pool overloaded")

	// ErrBacklogFull 表示积压缓冲已达上限。
	ErrBacklogFull = errors.New("xtsubmit: backlog is full")
)
