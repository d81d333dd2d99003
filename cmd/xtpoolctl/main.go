// xtpoolctl 是 xtpool 的命令行工具：压测、查看限制、校验配置。
//
// 用法:
//
//	xtpoolctl [全局选项] <命令> [命令参数]
//
// 命令:
//
//	run            创建 pool 并按给定速率提交模拟任务，结束后输出统计与指标
//	limits         输出创建参数上限与状态码
//	validate       校验配置文件
//
// 退出码:
//
//	0: 成功（run 被信号中断也视为成功）
//	1: 执行失败或配置无效
//	2: 参数错误
//
// 示例:
//
//	xtpoolctl run --workers 8 --queue 256 --tasks 10000 --rate 2000
//	xtpoolctl run --config pool.yaml --retry --task-duration 2ms
//	xtpoolctl run --queue 16 --backlog 1000 --guard
//	xtpoolctl validate --config pool.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/omeyang/xtpool/pkg/pool/xtpool"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	// 容器内按 CPU quota 设置 GOMAXPROCS，默认 worker 数随之调整
	undo, _ := maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	code := run(os.Args, os.Stdout, os.Stderr)
	undo()
	os.Exit(code)
}

// usageError 表示参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// exitError 表示输出已完成、只需设置退出码的失败。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// defaultWorkers 返回默认 worker 数：GOMAXPROCS，不超过 xtpool.MaxWorkers。
func defaultWorkers() int {
	return min(runtime.GOMAXPROCS(0), xtpool.MaxWorkers)
}

func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xtpoolctl",
		Usage:     "xtpool 固定 worker 任务池工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			createRunCommand(stdout, stderr),
			createLimitsCommand(stdout),
			createValidateCommand(stdout),
		},
		// 禁止 urfave/cli 直接调用 os.Exit，由 run 统一映射退出码
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)
	if err := app.Run(context.Background(), args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		if isCLIUsageError(err) {
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// isCLIUsageError 识别 urfave/cli 产生的 flag 解析类错误。
func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"flag provided but not defined", "invalid value", "No help topic for"} {
		if strings.Contains(msg, prefix) {
			return true
		}
	}
	return false
}
