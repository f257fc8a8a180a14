// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog，支持文件轮转
//   - xmetrics: 统一观测接口（追踪、指标），默认基于 OpenTelemetry
package observability
