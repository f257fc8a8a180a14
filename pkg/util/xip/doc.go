// Package xip 提供 IPv4/IPv6 地址的校验、数值编解码与文本渲染。
//
// 地址以定宽无符号整数为唯一规范形式（IPv4 为 uint32，IPv6 为 [Uint128]），
// 所有文本（点分十进制、冒号十六进制、"0x" 十六进制）都是从数值派生的视图。
//
// # 核心功能
//
//   - validate.go: [ValidateIPv4] / [ValidateIPv6]，严格与宽松两种校验策略
//   - codec.go: [IPv4ToNum]、[NumToIPv4]、[IPv6ToNum]、[NumToIPv6]、[ToHex]
//   - ipv4.go / ipv6.go: 不可变值类型 [IPv4]、[IPv6]，带可选端口
//   - address.go: 标签联合 [Address]，按字面量语法识别地址族
//   - netip.go: 与 [net/netip]、[net.IP] 互转
//   - encoding.go: Text/JSON/SQL 序列化
//
// # 快速示例
//
//	a, _ := xip.AddressFromUint64(0xDEADBEEF)
//	v4, _ := a.AsIPv4()
//	fmt.Println(v4)               // 222.173.190.239
//	fmt.Println(a.AsIPv6())       // 0:0:0:0:0:0:DEAD:BEEF
//	fmt.Println(a.Hex())          // 0xDEADBEEF
//
//	fmt.Println(xip.NumToIPv6(xip.U128From64(25601440), xip.WithRemoveZeroes(true))) // ::186:A5A0
//
// 端口既可以写在文本里，也可以通过 [WithPort] 显式给出，显式端口优先：
//
//	xip.MustParseIPv4("222.173.190.239:25565", xip.WithPort(80)).String() // 222.173.190.239:80
//
// # 地址族转换
//
// [IPv4.AsIPv6] 把 32 位数值零扩展到 128 位的低位；[IPv6.AsIPv4] 要求数值落在 32 位内，
// 否则返回 [ErrOutOfRange]。转换只改变视图，数值不变，因此 Hex 在两个视图上相同。
// 这里的转换不是 RFC 4291 的 IPv4-mapped 映射（::ffff:a.b.c.d）。
//
// # 校验策略
//
// [Strict] 是规范校验。[Lenient] 只放宽 IPv4 每段的取值上限到 65535，
// 用于构造数值越界但语法完整的测试输入；段数、端口规则不变。
// IPv6 没有宽松语义，两种策略接受同一集合。
//
// 校验函数是全函数：任何输入都只返回 bool，不 panic、不返回错误。
// 转换与构造函数对非法输入返回错误，不截断、不钳位。
//
// # 文本渲染
//
// IPv6 分组统一输出大写十六进制。[NumToIPv6] 默认不补零、不压缩；
// [WithRemoveZeroes] 压缩最长的零分组序列（长度相同取最左侧，长度 1 也压缩），
// 这与 RFC 5952 不同。从含 "::" 的文本解析得到的 [IPv6] 由 String 输出压缩形式，
// 其余构造方式输出完整 8 段，渲染偏好不影响 Equal。
//
// # 错误处理
//
// 预定义错误变量支持 errors.Is 判断：
//
//	_, err := xip.Parse("not-an-ip")
//	if errors.Is(err, xip.ErrUnrecognizedAddress) {
//	    // 既不是 IPv4 也不是 IPv6
//	}
//
// # 并发
//
// 包内没有共享可变状态，所有函数都是纯函数，值类型可在多个 goroutine 间自由传递。
package xip
