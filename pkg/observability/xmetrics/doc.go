// Package xmetrics 提供最小化的观测接口（tracing + metrics）。
//
// 调用方只依赖 Observer/Span；默认实现基于 OpenTelemetry，
// 未配置 provider 时使用 otel 全局 provider（默认为 noop）。
//
//	obs, _ := xmetrics.NewOTelObserver()
//	ctx, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		Component: "convert",
//		Operation: "batch",
//	})
//	defer func() { span.End(xmetrics.Result{Err: err}) }()
//
// # 指标
//
//   - xip.operation.total：计数，属性 component / operation / status
//   - xip.operation.duration：耗时直方图（秒），属性同上
package xmetrics
