package xconf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/omeyang/xtpool/pkg/observability/xlog"
	"github.com/omeyang/xtpool/pkg/pool/xtpool"
)

// 默认配置值
const (
	DefaultWorkers         = 4
	DefaultQueueCapacity   = 1024
	DefaultShutdownMode    = "drain"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// PoolConfig 是 xtpool 的配置结构。
type PoolConfig struct {
	Name            string        `koanf:"name"`
	Workers         int           `koanf:"workers"`
	QueueCapacity   int           `koanf:"queue_capacity"`
	ShutdownMode    string        `koanf:"shutdown_mode"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Log             LogConfig     `koanf:"log"`
}

// LogConfig 是日志配置。File 为空时输出到 stderr。
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// DefaultPoolConfig 返回默认配置。
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Workers:         DefaultWorkers,
		QueueCapacity:   DefaultQueueCapacity,
		ShutdownMode:    DefaultShutdownMode,
		ShutdownTimeout: DefaultShutdownTimeout,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Validate 校验所有字段，返回合并后的全部问题。
func (c PoolConfig) Validate() error {
	var errs []error
	if c.Workers < 1 || c.Workers > xtpool.MaxWorkers {
		errs = append(errs, fmt.Errorf("workers %d not in [1, %d]", c.Workers, xtpool.MaxWorkers))
	}
	if c.QueueCapacity < 1 || c.QueueCapacity > xtpool.MaxQueueCapacity {
		errs = append(errs, fmt.Errorf("queue_capacity %d not in [1, %d]", c.QueueCapacity, xtpool.MaxQueueCapacity))
	}
	if _, err := ParseShutdownMode(c.ShutdownMode); err != nil {
		errs = append(errs, err)
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout %s is negative", c.ShutdownTimeout))
	}
	if _, err := xlog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q not in [text, json]", c.Log.Format))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Mode 返回解析后的关闭模式。
func (c PoolConfig) Mode() (xtpool.ShutdownMode, error) {
	return ParseShutdownMode(c.ShutdownMode)
}

// ParseShutdownMode 解析关闭模式字符串（drain 或 immediate，大小写不敏感）。
func ParseShutdownMode(s string) (xtpool.ShutdownMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drain", "wait":
		return xtpool.ShutdownDrain, nil
	case "immediate":
		return xtpool.ShutdownImmediate, nil
	default:
		return 0, fmt.Errorf("shutdown_mode %q not in [drain, immediate]", s)
	}
}
