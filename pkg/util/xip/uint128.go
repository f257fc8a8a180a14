package xip

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
)

// Uint128 是 128 位无符号整数，作为 IPv6 地址的规范数值形式。
//
// Uint128 是值类型：可直接用 == 比较，可作为 map key，并发安全。
// 零值表示 0。
type Uint128 struct {
	hi uint64
	lo uint64
}

// U128 由高 64 位和低 64 位构造 Uint128。
func U128(hi, lo uint64) Uint128 {
	return Uint128{hi: hi, lo: lo}
}

// U128From64 将 uint64 零扩展为 Uint128。
func U128From64(v uint64) Uint128 {
	return Uint128{lo: v}
}

// Uint128FromBytes 从大端 16 字节构造 Uint128。
func Uint128FromBytes(b [16]byte) Uint128 {
	return Uint128{
		hi: binary.BigEndian.Uint64(b[:8]),
		lo: binary.BigEndian.Uint64(b[8:]),
	}
}

// Uint128FromBig 将 [*big.Int] 转换为 Uint128。
// nil、负数或超过 128 位的值返回 [ErrOutOfRange]，不做截断。
func Uint128FromBig(v *big.Int) (Uint128, error) {
	if v == nil {
		return Uint128{}, fmt.Errorf("%w: nil big.Int", ErrOutOfRange)
	}
	if v.Sign() < 0 || v.BitLen() > 128 {
		return Uint128{}, fmt.Errorf("%w: %s does not fit in 128 bits", ErrOutOfRange, v)
	}
	var b [16]byte
	v.FillBytes(b[:])
	return Uint128FromBytes(b), nil
}

// ParseUint128 解析十进制或带前缀（0x、0o、0b）的整数文本。
// 无法解析返回 [ErrInvalidAddress]，超出 128 位返回 [ErrOutOfRange]。
func ParseUint128(s string) (Uint128, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return Uint128{}, fmt.Errorf("%w: not an integer: %q", ErrInvalidAddress, s)
	}
	return Uint128FromBig(v)
}

// Hi 返回高 64 位。
func (u Uint128) Hi() uint64 { return u.hi }

// Lo 返回低 64 位。
func (u Uint128) Lo() uint64 { return u.lo }

// IsZero 报告 u 是否为 0。
func (u Uint128) IsZero() bool { return u == Uint128{} }

// FitsUint32 报告 u 是否落在 IPv4 的 32 位范围内。
func (u Uint128) FitsUint32() bool {
	return u.hi == 0 && u.lo <= math.MaxUint32
}

// Bytes 返回大端 16 字节表示。
func (u Uint128) Bytes() [16]byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], u.hi)
	binary.BigEndian.PutUint64(b[8:], u.lo)
	return b
}

// Big 返回等值的 [*big.Int]，每次调用都分配新对象。
func (u Uint128) Big() *big.Int {
	b := u.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// Compare 比较两个值。返回 -1 (u < v)、0 (u == v)、1 (u > v)。
func (u Uint128) Compare(v Uint128) int {
	switch {
	case u.hi < v.hi:
		return -1
	case u.hi > v.hi:
		return 1
	case u.lo < v.lo:
		return -1
	case u.lo > v.lo:
		return 1
	default:
		return 0
	}
}

// String 返回十进制表示。
func (u Uint128) String() string {
	if u.hi == 0 {
		return fmt.Sprint(u.lo)
	}
	return u.Big().String()
}

// group 返回第 i 个 16 位分组，i=0 为最高位分组。
func (u Uint128) group(i int) uint16 {
	if i < 4 {
		return uint16(u.hi >> (48 - 16*i))
	}
	return uint16(u.lo >> (48 - 16*(i-4)))
}

// uint128FromGroups 按大端顺序拼接 8 个 16 位分组。
func uint128FromGroups(g [8]uint16) Uint128 {
	var u Uint128
	for i := range 4 {
		u.hi = u.hi<<16 | uint64(g[i])
		u.lo = u.lo<<16 | uint64(g[i+4])
	}
	return u
}
