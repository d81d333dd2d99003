package xlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 轮转默认值
const (
	// DefaultMaxSizeMB 单个日志文件最大大小（MB）
	DefaultMaxSizeMB = 100
	// DefaultMaxBackups 保留的备份文件数量
	DefaultMaxBackups = 7
	// DefaultMaxAgeDays 备份保留天数
	DefaultMaxAgeDays = 30
)

// RotationOption 日志轮转配置函数
type RotationOption func(*lumberjack.Logger)

// WithMaxSizeMB 设置单个文件大小上限（MB），非正数被忽略。
func WithMaxSizeMB(n int) RotationOption {
	return func(l *lumberjack.Logger) {
		if n > 0 {
			l.MaxSize = n
		}
	}
}

// WithMaxBackups 设置备份文件数量上限，负数被忽略，0 表示不限制。
func WithMaxBackups(n int) RotationOption {
	return func(l *lumberjack.Logger) {
		if n >= 0 {
			l.MaxBackups = n
		}
	}
}

// WithCompress 设置是否 gzip 压缩备份文件。
func WithCompress(enable bool) RotationOption {
	return func(l *lumberjack.Logger) {
		l.Compress = enable
	}
}

// Builder 日志配置构建器
//
// Builder 为一次性使用：Build 之后不应复用。
type Builder struct {
	output   io.Writer
	levelVar *slog.LevelVar
	format   string
	rotator  io.Closer
	attrs    []slog.Attr
	err      error
}

// New 创建配置构建器：输出到 stderr，Info 级别，text 格式。
func New() *Builder {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	return &Builder{
		output:   os.Stderr,
		levelVar: levelVar,
		format:   "text",
	}
}

// setErr 记录第一个配置错误。
func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// SetOutput 设置日志输出目标
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if w == nil {
		b.setErr(ErrNilOutput)
		return b
	}
	b.output = w
	return b
}

// SetLevel 设置日志级别
func (b *Builder) SetLevel(level Level) *Builder {
	b.levelVar.Set(slog.Level(level))
	return b
}

// SetLevelString 通过字符串设置日志级别
func (b *Builder) SetLevelString(s string) *Builder {
	level, err := ParseLevel(s)
	if err != nil {
		b.setErr(err)
		return b
	}
	return b.SetLevel(level)
}

// SetFormat 设置输出格式：text 或 json。空值视为 text。
func (b *Builder) SetFormat(format string) *Builder {
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case "":
		b.format = "text"
	case "text", "json":
		b.format = normalized
	default:
		b.setErr(fmt.Errorf("%w: %q", ErrUnknownFormat, format))
	}
	return b
}

// SetRotation 将输出切换为按大小轮转的日志文件。
func (b *Builder) SetRotation(filename string, opts ...RotationOption) *Builder {
	if strings.TrimSpace(filename) == "" {
		b.setErr(ErrEmptyFilename)
		return b
	}
	lj := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(lj)
		}
	}
	b.rotator = lj
	b.output = lj
	return b
}

// SetAttrs 设置每条日志都携带的固定属性。
func (b *Builder) SetAttrs(attrs ...slog.Attr) *Builder {
	b.attrs = append(b.attrs, attrs...)
	return b
}

// Build 构建 Logger 实例
//
// 返回值：
//   - LoggerWithLevel: 日志实例，同时支持动态级别控制
//   - func() error: 清理函数，用于关闭轮转文件；幂等
//   - error: 配置错误
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	opts := &slog.HandlerOptions{Level: b.levelVar}
	var handler slog.Handler
	switch b.format {
	case "json":
		handler = slog.NewJSONHandler(b.output, opts)
	default:
		handler = slog.NewTextHandler(b.output, opts)
	}
	if len(b.attrs) > 0 {
		handler = handler.WithAttrs(b.attrs)
	}

	logger := &xlogger{handler: handler, levelVar: b.levelVar}
	return logger, b.createCleanup(), nil
}

// createCleanup 创建清理函数
func (b *Builder) createCleanup() func() error {
	var once sync.Once
	rotator := b.rotator

	return func() error {
		var err error
		once.Do(func() {
			if rotator != nil {
				err = rotator.Close()
			}
		})
		return err
	}
}
