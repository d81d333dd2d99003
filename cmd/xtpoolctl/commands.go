package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xtpool/pkg/config/xconf"
	"github.com/omeyang/xtpool/pkg/pool/xtpool"
)

// createLimitsCommand 输出创建参数上限与状态码表。
func createLimitsCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "limits",
		Usage: "输出创建参数上限与状态码",
		Action: func(context.Context, *cli.Command) error {
			return printLimits(stdout)
		},
	}
}

func printLimits(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "max_workers\t%d\n", xtpool.MaxWorkers)
	fmt.Fprintf(tw, "max_queue_capacity\t%d\n", xtpool.MaxQueueCapacity)
	fmt.Fprintf(tw, "default_workers\t%d\n", defaultWorkers())
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "code\tstatus")
	for s := xtpool.StatusOK; s <= xtpool.StatusResourceError; s++ {
		fmt.Fprintf(tw, "%d\t%s\n", int(s), s)
	}
	return tw.Flush()
}

// createValidateCommand 校验配置文件并输出解析结果。
func createValidateCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "校验配置文件",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "配置文件路径（.yaml/.yml/.json）", Required: true},
			&cli.StringFlag{Name: "prefix", Usage: "配置所在的键前缀，为空表示根"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			l, err := xconf.New(cmd.String("config"))
			if err != nil {
				return err
			}
			cfg, err := l.Pool(cmd.String("prefix"))
			if err != nil {
				return err
			}
			printConfig(stdout, cfg)
			return nil
		},
	}
}

func printConfig(w io.Writer, cfg xconf.PoolConfig) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "name\t%s\n", cfg.Name)
	fmt.Fprintf(tw, "workers\t%d\n", cfg.Workers)
	fmt.Fprintf(tw, "queue_capacity\t%d\n", cfg.QueueCapacity)
	fmt.Fprintf(tw, "shutdown_mode\t%s\n", cfg.ShutdownMode)
	fmt.Fprintf(tw, "shutdown_timeout\t%s\n", cfg.ShutdownTimeout)
	fmt.Fprintf(tw, "log.level\t%s\n", cfg.Log.Level)
	fmt.Fprintf(tw, "log.format\t%s\n", cfg.Log.Format)
	fmt.Fprintf(tw, "log.file\t%s\n", cfg.Log.File)
	_ = tw.Flush()
}

// createRunCommand 创建 run 子命令。
func createRunCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "创建 pool 并提交模拟任务",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "配置文件路径，命令行参数优先于文件"},
			&cli.StringFlag{Name: "prefix", Usage: "配置所在的键前缀"},
			&cli.BoolFlag{Name: "watch", Usage: "监视配置文件并热更新日志级别"},
			&cli.StringFlag{Name: "name", Usage: "pool 名称"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "worker 数量", Value: defaultWorkers()},
			&cli.IntFlag{Name: "queue", Aliases: []string{"q"}, Usage: "队列容量", Value: xconf.DefaultQueueCapacity},
			&cli.IntFlag{Name: "tasks", Aliases: []string{"n"}, Usage: "提交任务总数", Value: 1000},
			&cli.FloatFlag{Name: "rate", Usage: "每秒提交数，0 表示不限速"},
			&cli.DurationFlag{Name: "task-duration", Usage: "每个模拟任务的耗时"},
			&cli.StringFlag{Name: "mode", Usage: "关闭模式：drain 或 immediate", Value: xconf.DefaultShutdownMode},
			&cli.DurationFlag{Name: "shutdown-timeout", Usage: "等待 worker 退出的上限，0 表示不限", Value: xconf.DefaultShutdownTimeout},
			&cli.BoolFlag{Name: "retry", Usage: "队列满时退避重试"},
			&cli.UintFlag{Name: "retry-attempts", Usage: "重试的最大尝试次数", Value: 50},
			&cli.BoolFlag{Name: "guard", Usage: "持续队列满时熔断提交"},
			&cli.IntFlag{Name: "backlog", Usage: "队列满时在调用方暂存的任务上限，0 表示不暂存（与 --retry 互斥）"},
			&cli.DurationFlag{Name: "report-interval", Usage: "进度输出间隔，0 表示不输出", Value: time.Second},
			&cli.StringFlag{Name: "log-level", Usage: "日志级别", Value: xconf.DefaultLogLevel},
			&cli.StringFlag{Name: "log-format", Usage: "日志格式：text 或 json", Value: xconf.DefaultLogFormat},
			&cli.StringFlag{Name: "log-file", Usage: "日志文件路径（按大小轮转），为空输出到 stderr"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			lc, err := loadConfigFromCommand(cmd)
			if err != nil {
				return err
			}
			res, err := runLoad(ctx, lc, stdout, stderr)
			if res != nil {
				res.print(stdout)
			}
			return err
		},
	}
}

// loadConfigFromCommand 合并配置文件与命令行参数。显式设置的参数覆盖文件值。
func loadConfigFromCommand(cmd *cli.Command) (loadConfig, error) {
	lc := loadConfig{
		pool:       xconf.DefaultPoolConfig(),
		tasks:      cmd.Int("tasks"),
		rate:       cmd.Float("rate"),
		work:       cmd.Duration("task-duration"),
		retry:      cmd.Bool("retry"),
		attempts:   cmd.Uint("retry-attempts"),
		guard:      cmd.Bool("guard"),
		backlog:    cmd.Int("backlog"),
		report:     cmd.Duration("report-interval"),
		configPath: cmd.String("config"),
		prefix:     cmd.String("prefix"),
		watch:      cmd.Bool("watch"),
	}
	if lc.configPath != "" {
		l, err := xconf.New(lc.configPath)
		if err != nil {
			return lc, err
		}
		// 文件值覆盖默认值，随后显式参数再覆盖文件值
		cfg, err := l.Pool(lc.prefix)
		if err != nil {
			return lc, err
		}
		lc.pool = cfg
		lc.loader = l
	} else if lc.watch {
		return lc, &usageError{msg: "--watch requires --config"}
	}

	if lc.configPath == "" || cmd.IsSet("workers") {
		lc.pool.Workers = cmd.Int("workers")
	}
	if lc.configPath == "" || cmd.IsSet("queue") {
		lc.pool.QueueCapacity = cmd.Int("queue")
	}
	if lc.configPath == "" || cmd.IsSet("mode") {
		lc.pool.ShutdownMode = cmd.String("mode")
	}
	if lc.configPath == "" || cmd.IsSet("shutdown-timeout") {
		lc.pool.ShutdownTimeout = cmd.Duration("shutdown-timeout")
	}
	if lc.configPath == "" || cmd.IsSet("log-level") {
		lc.pool.Log.Level = cmd.String("log-level")
	}
	if lc.configPath == "" || cmd.IsSet("log-format") {
		lc.pool.Log.Format = cmd.String("log-format")
	}
	if cmd.IsSet("log-file") {
		lc.pool.Log.File = cmd.String("log-file")
	}
	if cmd.IsSet("name") {
		lc.pool.Name = cmd.String("name")
	}

	if lc.tasks < 0 {
		return lc, &usageError{msg: fmt.Sprintf("--tasks must not be negative, got %d", lc.tasks)}
	}
	if lc.backlog < 0 {
		return lc, &usageError{msg: fmt.Sprintf("--backlog must not be negative, got %d", lc.backlog)}
	}
	if lc.backlog > 0 && lc.retry {
		return lc, &usageError{msg: "--backlog and --retry are mutually exclusive"}
	}
	if lc.rate < 0 {
		return lc, &usageError{msg: fmt.Sprintf("--rate must not be negative, got %g", lc.rate)}
	}
	if err := lc.pool.Validate(); err != nil {
		return lc, &usageError{msg: err.Error()}
	}
	return lc, nil
}
