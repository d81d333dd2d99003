package xmetrics

import "errors"

var (
	// ErrCreateInstrument 表示创建 OTel 指标仪表失败。
	ErrCreateInstrument = errors.New("xmetrics: create instrument failed")

	// ErrRegisterCallback 表示注册 gauge 回调失败。
	ErrRegisterCallback = errors.New("xmetrics: register callback failed")

	// ErrNilSource 表示 Observe 的数据源为 nil。
	ErrNilSource = errors.New("xmetrics: nil snapshot source")
)
