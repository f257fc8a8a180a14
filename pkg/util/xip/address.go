package xip

import (
	"fmt"
	"math/big"
)

// Address 是 [IPv4] 与 [IPv6] 的标签联合，地址族在构造时确定。
//
// 零值 Address{} 无效：[Address.IsValid] 返回 false，String 返回空字符串。
// 比较地址使用 [Address.Equal]。
type Address struct {
	family Family
	v4     IPv4
	v6     IPv6
}

// Parse 按字面量语法识别地址族并构造 Address。
// 先尝试 [Strict] IPv4，再尝试 [Strict] IPv6，都不匹配返回 [ErrUnrecognizedAddress]。
func Parse(s string, opts ...Option) (Address, error) {
	if ValidateIPv4(s, Strict) {
		a, err := ParseIPv4(s, opts...)
		if err != nil {
			return Address{}, err
		}
		return AddressOf4(a), nil
	}
	if ValidateIPv6(s, Strict) {
		a, err := ParseIPv6(s, opts...)
		if err != nil {
			return Address{}, err
		}
		return AddressOf6(a), nil
	}
	return Address{}, fmt.Errorf("%w: %q", ErrUnrecognizedAddress, s)
}

// MustParse 类似 [Parse]，但失败时 panic。
// 仅用于包级变量初始化或测试。
func MustParse(s string, opts ...Option) Address {
	a, err := Parse(s, opts...)
	if err != nil {
		panic(fmt.Sprintf("xip.MustParse(%q): %v", s, err))
	}
	return a
}

// AddressOf4 包装一个 IPv4 值。
func AddressOf4(a IPv4) Address { return Address{family: V4, v4: a} }

// AddressOf6 包装一个 IPv6 值。
func AddressOf6(a IPv6) Address { return Address{family: V6, v6: a} }

// AddressFrom 从数值构造 Address：落在 32 位内的数值为 IPv4，否则为 IPv6。
// 只有端口选项非法时返回错误。
func AddressFrom(n Uint128, opts ...Option) (Address, error) {
	if n.FitsUint32() {
		a, err := IPv4From(uint32(n.lo), opts...)
		if err != nil {
			return Address{}, err
		}
		return AddressOf4(a), nil
	}
	a, err := IPv6From(n, opts...)
	if err != nil {
		return Address{}, err
	}
	return AddressOf6(a), nil
}

// AddressFromUint64 等价于 AddressFrom(U128From64(n), opts...)。
func AddressFromUint64(n uint64, opts ...Option) (Address, error) {
	return AddressFrom(U128From64(n), opts...)
}

// AddressFromBig 从 [*big.Int] 构造 Address。
// nil、负数或超过 128 位返回 [ErrOutOfRange]。
func AddressFromBig(n *big.Int, opts ...Option) (Address, error) {
	u, err := Uint128FromBig(n)
	if err != nil {
		return Address{}, err
	}
	return AddressFrom(u, opts...)
}

// Family 返回地址族，零值返回 [Unknown]。
func (a Address) Family() Family { return a.family }

// IsValid 报告 a 是否由构造函数创建。
func (a Address) IsValid() bool { return a.family != Unknown }

// IPv4 返回 IPv4 值，ok 表示 a 是否为 IPv4。
func (a Address) IPv4() (v IPv4, ok bool) { return a.v4, a.family == V4 }

// IPv6 返回 IPv6 值，ok 表示 a 是否为 IPv6。
func (a Address) IPv6() (v IPv6, ok bool) { return a.v6, a.family == V6 }

// Num 返回 128 位数值，IPv4 零扩展。零值返回 0。
func (a Address) Num() Uint128 {
	switch a.family {
	case V4:
		return a.v4.Num128()
	case V6:
		return a.v6.num
	default:
		return Uint128{}
	}
}

// Port 返回端口，ok 为 false 表示未携带端口。
func (a Address) Port() (port uint16, ok bool) {
	switch a.family {
	case V4:
		return a.v4.Port()
	case V6:
		return a.v6.Port()
	default:
		return 0, false
	}
}

// AsIPv4 返回 IPv4 视图。IPv6 数值超过 32 位返回 [ErrOutOfRange]，
// 零值返回 [ErrInvalidAddress]。
func (a Address) AsIPv4() (IPv4, error) {
	switch a.family {
	case V4:
		return a.v4, nil
	case V6:
		return a.v6.AsIPv4()
	default:
		return IPv4{}, fmt.Errorf("%w: zero Address", ErrInvalidAddress)
	}
}

// AsIPv6 返回 IPv6 视图，IPv4 零扩展。零值返回 IPv6 零值。
func (a Address) AsIPv6() IPv6 {
	switch a.family {
	case V4:
		return a.v4.AsIPv6()
	case V6:
		return a.v6
	default:
		return IPv6{}
	}
}

// NumToIPv6 按选项将数值渲染为 IPv6 文本（不含端口），与地址族无关。
//
//	a, _ := xip.AddressFromUint64(25601440)
//	a.NumToIPv6(xip.WithShorten(false)) // "0000:0000:0000:0000:0000:0000:0186:A5A0"
func (a Address) NumToIPv6(opts ...FormatOption) string {
	return NumToIPv6(a.Num(), opts...)
}

// Hex 返回数值的十六进制表示，与地址族无关。
func (a Address) Hex() string { return ToHex(a.Num()) }

// String 返回所属地址族的文本，零值返回空字符串。
func (a Address) String() string {
	switch a.family {
	case V4:
		return a.v4.String()
	case V6:
		return a.v6.String()
	default:
		return ""
	}
}

// Equal 报告地址族、数值与端口是否都相同。
// IPv4 与 IPv6 永不相等，即使数值相同。
func (a Address) Equal(b Address) bool {
	if a.family != b.family {
		return false
	}
	switch a.family {
	case V4:
		return a.v4.Equal(b.v4)
	case V6:
		return a.v6.Equal(b.v6)
	default:
		return true
	}
}
