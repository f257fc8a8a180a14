// Package xlog 基于 log/slog 的结构化日志库。
//
// # 核心功能
//
//   - Builder 模式配置（输出目标、级别、格式、源码位置、文件轮转）
//   - 动态级别调整，派生 Logger 共享级别
//   - 便捷属性构造：[Err]、[Duration]、[Count]、[Component]、[Operation]、[Input]、[Family]
//   - [Discard]：丢弃所有输出，用于测试或未配置日志的调用方
//
// # 创建 Logger
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// Builder 遇到第一个配置错误后记录下来，由 Build 返回。
//
// # 文件轮转
//
// [Builder.SetRotation] 使用 lumberjack 按体积轮转，cleanup 负责关闭文件。
// lumberjack 的后台压缩 goroutine 在 Close 后仍会驻留，这是上游限制。
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)。
// Level 实现 encoding.TextUnmarshaler，koanf 解码配置时可直接得到 Level。
package xlog
