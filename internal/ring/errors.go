package ring

import "errors"

// ErrInvalidCapacity 表示容量不是正数。
var ErrInvalidCapacity = errors.New("ring: capacity must be positive")
