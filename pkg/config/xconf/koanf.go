package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 定义配置文件格式。
type Format string

// 支持的配置格式。
const (
	// FormatYAML YAML 格式（推荐用于 K8s ConfigMap）。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

const (
	delim = "."
	tag   = "koanf"
)

// Loader 持有已解析的配置，Reload 后原子替换底层 koanf 实例。
type Loader struct {
	mu      sync.RWMutex
	k       *koanf.Koanf
	path    string
	format  Format
	isBytes bool
}

// New 从文件路径创建 Loader，根据扩展名识别格式。
func New(path string) (*Loader, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	k, err := loadFile(path, format)
	if err != nil {
		return nil, err
	}
	return &Loader{k: k, path: path, format: format}, nil
}

// NewFromBytes 从字节数据创建 Loader。空数据得到空配置，Pool 返回默认值。
func NewFromBytes(data []byte, format Format) (*Loader, error) {
	if !isValidFormat(format) {
		return nil, ErrUnsupportedFormat
	}
	k := koanf.New(delim)
	if len(data) > 0 {
		if err := loadData(k, data, format); err != nil {
			return nil, err
		}
	}
	return &Loader{k: k, format: format, isBytes: true}, nil
}

// Client 返回当前的 koanf 实例。Reload 之后旧指针仍可用，但数据是旧的。
func (l *Loader) Client() *koanf.Koanf {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.k
}

// Unmarshal 将 path 下的配置反序列化到 target，path 为空时反序列化整个配置。
// target 中已有的值在配置缺少对应键时保留。
func (l *Loader) Unmarshal(path string, target any) error {
	k := l.Client()
	if err := k.UnmarshalWithConf(path, target, koanf.UnmarshalConf{Tag: tag}); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return nil
}

// Pool 在默认值之上反序列化 path 下的配置并校验。
func (l *Loader) Pool(path string) (PoolConfig, error) {
	cfg := DefaultPoolConfig()
	if err := l.Unmarshal(path, &cfg); err != nil {
		return PoolConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return PoolConfig{}, err
	}
	return cfg, nil
}

// Reload 重新读取配置文件。解析失败时保留旧配置。
func (l *Loader) Reload() error {
	if l.isBytes {
		return ErrNotReloadable
	}
	k, err := loadFile(l.path, l.format)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.k = k
	l.mu.Unlock()
	return nil
}

// Path 返回配置文件路径，从字节数据创建时为空。
func (l *Loader) Path() string {
	return l.path
}

// Format 返回配置格式。
func (l *Loader) Format() Format {
	return l.format
}

func loadFile(path string, format Format) (*koanf.Koanf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	k := koanf.New(delim)
	if err := loadData(k, data, format); err != nil {
		return nil, err
	}
	return k, nil
}

func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, ext)
	}
}

func isValidFormat(format Format) bool {
	return format == FormatYAML || format == FormatJSON
}

func loadData(k *koanf.Koanf, data []byte, format Format) error {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return ErrUnsupportedFormat
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}
