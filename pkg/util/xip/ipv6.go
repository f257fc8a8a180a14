package xip

import (
	"fmt"
	"math/big"
)

// IPv6 表示 128 位 IPv6 地址及可选端口。
//
// IPv6 是不可变值类型，并发安全。除数值和端口外，它还记录一个渲染偏好：
// 从含 "::" 的文本解析得到的值由 [IPv6.String] 输出压缩形式，
// 其余构造方式输出完整的 8 段形式。渲染偏好不参与 [IPv6.Equal]，
// 因此比较地址应使用 Equal 而不是 ==。
type IPv6 struct {
	num     Uint128
	port    uint16
	hasPort bool
	compact bool
}

// ParseIPv6 解析 "addr" 或 "[addr]:port"。
// 文本按 [Strict] 校验，不合法返回 [ErrInvalidAddress]。
// [WithPort] 给出的端口覆盖文本中的端口。
func ParseIPv6(s string, opts ...Option) (IPv6, error) {
	o, err := collectOptions(opts)
	if err != nil {
		return IPv6{}, err
	}
	lit, ok := scanIPv6(s, Strict)
	if !ok {
		return IPv6{}, fmt.Errorf("%w: %q is not an IPv6 literal", ErrInvalidAddress, s)
	}
	a := IPv6{num: uint128FromGroups(lit.groups), compact: lit.compact}
	a.port, a.hasPort = o.resolvePort(lit.port, lit.hasPort)
	return a, nil
}

// MustParseIPv6 类似 [ParseIPv6]，但解析失败时 panic。
// 仅用于包级变量初始化或测试。
func MustParseIPv6(s string, opts ...Option) IPv6 {
	a, err := ParseIPv6(s, opts...)
	if err != nil {
		panic(fmt.Sprintf("xip.MustParseIPv6(%q): %v", s, err))
	}
	return a
}

// IPv6From 从 [Uint128] 数值构造 IPv6。
// 只有端口选项非法时返回错误。
func IPv6From(n Uint128, opts ...Option) (IPv6, error) {
	o, err := collectOptions(opts)
	if err != nil {
		return IPv6{}, err
	}
	a := IPv6{num: n}
	a.port, a.hasPort = o.resolvePort(0, false)
	return a, nil
}

// IPv6FromBig 从 [*big.Int] 构造 IPv6。
// nil、负数或超过 128 位返回 [ErrOutOfRange]。
func IPv6FromBig(n *big.Int, opts ...Option) (IPv6, error) {
	u, err := Uint128FromBig(n)
	if err != nil {
		return IPv6{}, err
	}
	return IPv6From(u, opts...)
}

// Num 返回 128 位数值。
func (a IPv6) Num() Uint128 { return a.num }

// Port 返回端口，ok 为 false 表示未携带端口。
func (a IPv6) Port() (port uint16, ok bool) { return a.port, a.hasPort }

// HasPort 报告是否携带端口。
func (a IPv6) HasPort() bool { return a.hasPort }

// Family 返回 [V6]。
func (a IPv6) Family() Family { return V6 }

// IsCompressed 报告 [IPv6.String] 是否输出 "::" 压缩形式。
func (a IPv6) IsCompressed() bool { return a.compact }

// Compressed 返回设置了渲染偏好的副本，数值与端口不变。
func (a IPv6) Compressed(compact bool) IPv6 {
	a.compact = compact
	return a
}

// WithoutPort 返回去掉端口的副本。
func (a IPv6) WithoutPort() IPv6 {
	return IPv6{num: a.num, compact: a.compact}
}

// Equal 报告两个值的数值与端口是否都相同，忽略渲染偏好。
func (a IPv6) Equal(b IPv6) bool {
	return a.num == b.num && a.port == b.port && a.hasPort == b.hasPort
}

// Compare 先按数值、再按端口比较；无端口排在有端口之前。
func (a IPv6) Compare(b IPv6) int {
	if c := a.num.Compare(b.num); c != 0 {
		return c
	}
	return comparePort(a.port, a.hasPort, b.port, b.hasPort)
}

// Format 按选项渲染地址部分（不含端口），等价于 NumToIPv6(a.Num(), opts...)。
func (a IPv6) Format(opts ...FormatOption) string {
	return NumToIPv6(a.num, opts...)
}

// String 返回地址文本，携带端口时为 "[addr]:port"。
func (a IPv6) String() string {
	var buf [len("[FFFF:FFFF:FFFF:FFFF:FFFF:FFFF:FFFF:FFFF]:65535")]byte
	return string(a.appendTo(buf[:0]))
}

func (a IPv6) appendTo(b []byte) []byte {
	o := defaultFormatOptions()
	o.removeZeroes = a.compact
	if !a.hasPort {
		return appendIPv6(b, a.num, o)
	}
	b = append(b, '[')
	b = appendIPv6(b, a.num, o)
	b = append(b, ']')
	return appendPort(b, a.port)
}

// Hex 返回数值的十六进制表示，如 "0xDEADBEEF"。
func (a IPv6) Hex() string { return ToHex(a.num) }

// AsIPv4 将数值视为 IPv4，端口保留。
// 数值超过 32 位返回 [ErrOutOfRange]。
func (a IPv6) AsIPv4() (IPv4, error) {
	if !a.num.FitsUint32() {
		return IPv4{}, fmt.Errorf("%w: %s does not fit in 32 bits", ErrOutOfRange, ToHex(a.num))
	}
	return IPv4{num: uint32(a.num.lo), port: a.port, hasPort: a.hasPort}, nil
}
