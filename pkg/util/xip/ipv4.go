package xip

import (
	"fmt"
	"math"
)

// IPv4 表示 32 位 IPv4 地址及可选端口。
//
// IPv4 是不可变值类型：
//   - 数值是唯一的规范形式，所有文本都由它派生
//   - 可直接比较（==）和用作 map key，== 与 [IPv4.Equal] 等价
//   - 并发安全，无需加锁
//
// 零值表示 0.0.0.0 且无端口。
type IPv4 struct {
	num     uint32
	port    uint16
	hasPort bool
}

// ParseIPv4 解析 "a.b.c.d" 或 "a.b.c.d:port"。
// 文本按 [Strict] 校验，不合法返回 [ErrInvalidAddress]。
// [WithPort] 给出的端口覆盖文本中的端口。
func ParseIPv4(s string, opts ...Option) (IPv4, error) {
	o, err := collectOptions(opts)
	if err != nil {
		return IPv4{}, err
	}
	lit, ok := scanIPv4(s, Strict)
	if !ok {
		return IPv4{}, fmt.Errorf("%w: %q is not an IPv4 literal", ErrInvalidAddress, s)
	}
	a := IPv4{num: lit.num()}
	a.port, a.hasPort = o.resolvePort(lit.port, lit.hasPort)
	return a, nil
}

// MustParseIPv4 类似 [ParseIPv4]，但解析失败时 panic。
// 仅用于包级变量初始化或测试。
func MustParseIPv4(s string, opts ...Option) IPv4 {
	a, err := ParseIPv4(s, opts...)
	if err != nil {
		panic(fmt.Sprintf("xip.MustParseIPv4(%q): %v", s, err))
	}
	return a
}

// IPv4From 从 uint32 数值构造 IPv4。
// 只有端口选项非法时返回错误。
func IPv4From(n uint32, opts ...Option) (IPv4, error) {
	o, err := collectOptions(opts)
	if err != nil {
		return IPv4{}, err
	}
	a := IPv4{num: n}
	a.port, a.hasPort = o.resolvePort(0, false)
	return a, nil
}

// IPv4FromUint64 从 uint64 数值构造 IPv4。
// 超过 32 位返回 [ErrOutOfRange]，不做截断。
func IPv4FromUint64(n uint64, opts ...Option) (IPv4, error) {
	if n > math.MaxUint32 {
		return IPv4{}, fmt.Errorf("%w: %d does not fit in 32 bits", ErrOutOfRange, n)
	}
	return IPv4From(uint32(n), opts...)
}

// Num 返回 32 位数值。
func (a IPv4) Num() uint32 { return a.num }

// Port 返回端口，ok 为 false 表示未携带端口。
func (a IPv4) Port() (port uint16, ok bool) { return a.port, a.hasPort }

// HasPort 报告是否携带端口。
func (a IPv4) HasPort() bool { return a.hasPort }

// Family 返回 [V4]。
func (a IPv4) Family() Family { return V4 }

// WithoutPort 返回去掉端口的副本。
func (a IPv4) WithoutPort() IPv4 {
	return IPv4{num: a.num}
}

// Equal 报告两个值的数值与端口是否都相同。
func (a IPv4) Equal(b IPv4) bool { return a == b }

// Compare 先按数值、再按端口比较；无端口排在有端口之前。
func (a IPv4) Compare(b IPv4) int {
	switch {
	case a.num < b.num:
		return -1
	case a.num > b.num:
		return 1
	}
	return comparePort(a.port, a.hasPort, b.port, b.hasPort)
}

// String 返回 "a.b.c.d" 或 "a.b.c.d:port"。
func (a IPv4) String() string {
	var buf [len("255.255.255.255:65535")]byte
	return string(a.appendTo(buf[:0]))
}

func (a IPv4) appendTo(b []byte) []byte {
	b = appendIPv4(b, a.num)
	if a.hasPort {
		b = appendPort(b, a.port)
	}
	return b
}

// Hex 返回数值的十六进制表示，如 "0xDEADBEEF"。
func (a IPv4) Hex() string { return ToHex(a.Num128()) }

// Num128 返回零扩展到 128 位的数值。
func (a IPv4) Num128() Uint128 { return U128From64(uint64(a.num)) }

// AsIPv6 将数值零扩展为 IPv6，端口保留。
//
//	xip.MustParseIPv4("222.173.190.239").AsIPv6().String() // "0:0:0:0:0:0:DEAD:BEEF"
func (a IPv4) AsIPv6() IPv6 {
	return IPv6{num: a.Num128(), port: a.port, hasPort: a.hasPort}
}

func comparePort(ap uint16, aok bool, bp uint16, bok bool) int {
	switch {
	case aok != bok:
		if aok {
			return 1
		}
		return -1
	case ap < bp:
		return -1
	case ap > bp:
		return 1
	default:
		return 0
	}
}
