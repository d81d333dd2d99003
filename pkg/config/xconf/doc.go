// Package xconf 加载 xtpool 的配置，基于 koanf 实现。
//
// # 加载
//
// [New] 从文件加载（按扩展名识别 .yaml/.yml/.json），[NewFromBytes] 从字节数据加载，
// 适用于 K8s ConfigMap 等场景。[Loader.Pool] 在默认值之上覆盖文件中出现的键，
// 并校验结果：
//
//	name: ingest
//	workers: 8
//	queue_capacity: 4096
//	shutdown_mode: drain
//	shutdown_timeout: 30s
//	log:
//	  level: info
//	  format: json
//	  file: /var/log/ingest.log
//
// workers 与 queue_capacity 的取值范围和 xtpool.New 一致，
// 超出范围时 Validate 返回 [ErrInvalidConfig]，不会等到创建 pool 才失败。
//
// # 热重载
//
// [Watch] 监视配置文件所在目录（编辑器可能先删除再创建文件），
// 内置防抖，重载后回调调用方。pool 的 worker 数和队列容量在创建后不可变，
// 重载只对日志级别等运行时可调的字段有意义。
//
// 从字节数据创建的 Loader 不支持 Reload 与 Watch。
package xconf
