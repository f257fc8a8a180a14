package xip

import (
	"fmt"
	"strconv"
)

// hexDigits 是大写十六进制字符表，所有 IPv6 与十六进制输出统一使用大写。
const hexDigits = "0123456789ABCDEF"

// FormatOption 配置 IPv6 文本渲染。
type FormatOption func(*formatOptions)

type formatOptions struct {
	shorten      bool
	removeZeroes bool
}

func defaultFormatOptions() formatOptions {
	return formatOptions{shorten: true}
}

func collectFormatOptions(opts []FormatOption) formatOptions {
	o := defaultFormatOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithShorten 设置是否省略分组前导零。
// 默认 true（"186"）；false 时每个分组补齐为 4 位（"0186"）。
func WithShorten(shorten bool) FormatOption {
	return func(o *formatOptions) {
		o.shorten = shorten
	}
}

// WithRemoveZeroes 设置是否将最长的全零分组序列压缩为 "::"。
// 默认 false。最长序列有多个时压缩最左侧的一个；长度为 1 的序列同样会被压缩。
// 与 WithShorten(false) 同时使用时，序列之外的分组仍补齐为 4 位。
func WithRemoveZeroes(remove bool) FormatOption {
	return func(o *formatOptions) {
		o.removeZeroes = remove
	}
}

// IPv4ToNum 将点分十进制 IPv4 文本转换为 uint32（大端）。
// 使用 [Strict] 校验，文本中的 ":port" 后缀被忽略。
// 校验失败返回 [ErrInvalidAddress]。
func IPv4ToNum(s string) (uint32, error) {
	lit, ok := scanIPv4(s, Strict)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not an IPv4 literal", ErrInvalidAddress, s)
	}
	return lit.num(), nil
}

// NumToIPv4 将 uint32 渲染为点分十进制文本。
// 超出 32 位的数值在进入 uint32 之前由 [IPv4FromUint64] 或 [AddressFromBig] 拒绝。
func NumToIPv4(n uint32) string {
	var buf [len("255.255.255.255")]byte
	return string(appendIPv4(buf[:0], n))
}

// IPv6ToNum 将 IPv6 文本转换为 [Uint128]（大端）。
// 使用 [Strict] 校验，"::" 展开为对应数量的零分组，"[addr]:port" 中的端口被忽略。
// 校验失败返回 [ErrInvalidAddress]。
func IPv6ToNum(s string) (Uint128, error) {
	lit, ok := scanIPv6(s, Strict)
	if !ok {
		return Uint128{}, fmt.Errorf("%w: %q is not an IPv6 literal", ErrInvalidAddress, s)
	}
	return uint128FromGroups(lit.groups), nil
}

// NumToIPv6 将 [Uint128] 渲染为 8 个冒号分隔的大写十六进制分组。
//
// 默认输出不补零、不压缩，例如 "0:0:0:0:0:0:186:A5A0"。
// 使用 [WithShorten] 与 [WithRemoveZeroes] 调整输出：
//
//	NumToIPv6(n, WithShorten(false))     // "0000:0000:0000:0000:0000:0000:0186:A5A0"
//	NumToIPv6(n, WithRemoveZeroes(true)) // "::186:A5A0"
func NumToIPv6(n Uint128, opts ...FormatOption) string {
	var buf [len("FFFF:FFFF:FFFF:FFFF:FFFF:FFFF:FFFF:FFFF")]byte
	return string(appendIPv6(buf[:0], n, collectFormatOptions(opts)))
}

// ToHex 返回 "0x" 前缀的大写十六进制表示，不补前导零（0 输出 "0x0"）。
func ToHex(n Uint128) string {
	if n.hi == 0 {
		return "0x" + upperHex(n.lo)
	}
	return fmt.Sprintf("0x%X%016X", n.hi, n.lo)
}

func upperHex(v uint64) string {
	b := make([]byte, 0, 16)
	b = strconv.AppendUint(b, v, 16)
	for i, c := range b {
		if 'a' <= c && c <= 'f' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func appendIPv4(b []byte, n uint32) []byte {
	b = strconv.AppendUint(b, uint64(n>>24), 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, uint64(n>>16&0xff), 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, uint64(n>>8&0xff), 10)
	b = append(b, '.')
	return strconv.AppendUint(b, uint64(n&0xff), 10)
}

func appendIPv6(b []byte, n Uint128, o formatOptions) []byte {
	start, end := -1, -1
	if o.removeZeroes {
		start, end = longestZeroRun(n)
	}
	for i := 0; i < 8; i++ {
		if i == start {
			b = append(b, ':', ':')
			i = end - 1
			continue
		}
		// 紧跟在 "::" 之后的分组不再加分隔符。
		if i > 0 && i != end {
			b = append(b, ':')
		}
		b = appendGroup(b, n.group(i), o.shorten)
	}
	return b
}

// longestZeroRun 返回最长全零分组序列的区间 [start, end)。
// 没有零分组时返回 (-1, -1)；长度相同时保留最左侧的序列。
func longestZeroRun(n Uint128) (start, end int) {
	start, end = -1, -1
	for i := 0; i < 8; {
		if n.group(i) != 0 {
			i++
			continue
		}
		j := i
		for j < 8 && n.group(j) == 0 {
			j++
		}
		if j-i > end-start {
			start, end = i, j
		}
		i = j
	}
	return start, end
}

func appendGroup(b []byte, x uint16, shorten bool) []byte {
	if !shorten {
		return append(b, hexDigits[x>>12], hexDigits[x>>8&0xf], hexDigits[x>>4&0xf], hexDigits[x&0xf])
	}
	if x >= 0x1000 {
		b = append(b, hexDigits[x>>12])
	}
	if x >= 0x100 {
		b = append(b, hexDigits[x>>8&0xf])
	}
	if x >= 0x10 {
		b = append(b, hexDigits[x>>4&0xf])
	}
	return append(b, hexDigits[x&0xf])
}
