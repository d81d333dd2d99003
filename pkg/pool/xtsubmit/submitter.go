package xtsubmit

import (
	"context"
	"errors"

	"github.com/omeyang/xtpool/pkg/pool/xtpool"
)

// Submitter 是 *xtpool.Pool 满足的最小提交接口。
type Submitter interface {
	Submit(ctx context.Context, fn func()) error
}

var _ Submitter = (*xtpool.Pool)(nil)

// IsQueueFull 判断错误是否为队列满。
func IsQueueFull(err error) bool {
	return errors.Is(err, xtpool.ErrQueueFull)
}
