// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xip: IPv4/IPv6 地址校验、整数编解码与多视图渲染
package util
