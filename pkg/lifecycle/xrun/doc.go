// Package xrun 基于 errgroup 协调一组并发服务的运行与关闭。
//
// 任一服务返回错误、父 context 取消、或收到系统信号时，所有服务的 ctx
// 都会被取消。退出原因通过 context.Cause 保留：信号退出时 Wait 返回
// [*SignalError]，可用 errors.Is(err, ErrSignal) 判断。
//
// # 典型用法
//
//	err := xrun.RunWithOptions(ctx, []xrun.Option{xrun.WithLogger(logger)},
//	    producer,
//	    xrun.Ticker(time.Second, false, report),
//	    xrun.PoolService(pool, xtpool.ShutdownDrain, 30*time.Second),
//	)
//
// [PoolService] 在 ctx 取消后销毁 pool，把 xtpool.ErrThreadFailure 等错误
// 作为服务错误返回。
package xrun
