package xip

import "strings"

// Strictness 定义校验策略。
type Strictness uint8

const (
	// Strict 规范校验：IPv4 每段取值 [0, 255]。
	Strict Strictness = iota
	// Lenient 宽松校验：IPv4 每段取值放宽到 [0, 65535]，段数与端口规则不变。
	// IPv6 没有宽松语义，Lenient 与 Strict 接受同一集合。
	Lenient
)

// String 返回策略名称。
func (s Strictness) String() string {
	if s == Lenient {
		return "lenient"
	}
	return "strict"
}

const (
	maxPort        = 65535
	maxOctet       = 255
	maxLenientPart = 65535
)

// ValidateIPv4 报告 s 是否为合法的 IPv4 字面量（可带 ":port" 后缀）。
//
// 规则：
//   - 可选的 ":port"，端口为纯数字且不超过 65535（两种模式一致）
//   - 地址部分恰好 4 段，以 "." 分隔，每段非空且为纯数字
//   - [Strict] 每段不超过 255，[Lenient] 每段不超过 65535
//
// 任何输入都不会 panic。
func ValidateIPv4(s string, mode Strictness) bool {
	_, ok := scanIPv4(s, mode)
	return ok
}

// ValidateIPv6 报告 s 是否为合法的 IPv6 字面量。
//
// 规则：
//   - 带方括号时必须是 "[addr]:port"，端口为纯数字且不超过 65535
//   - 不带方括号时整个字符串都是地址，不含端口
//   - 最多一个 "::"；有 "::" 时显式分组不超过 7 个，没有时必须恰好 8 个
//   - 每个显式分组是 1~4 位十六进制数字，大小写不敏感
//
// 不支持 zone ID（"%eth0"）和内嵌 IPv4 尾部（"::ffff:1.2.3.4"）。
// mode 不改变 IPv6 的接受集合。
func ValidateIPv6(s string, mode Strictness) bool {
	_, ok := scanIPv6(s, mode)
	return ok
}

// ipv4Literal 是扫描 IPv4 文本得到的中间结果。
type ipv4Literal struct {
	groups  [4]uint16
	port    uint16
	hasPort bool
}

// num 按大端拼接 4 段。仅对 Strict 扫描结果有意义。
func (l ipv4Literal) num() uint32 {
	return uint32(l.groups[0])<<24 | uint32(l.groups[1])<<16 | uint32(l.groups[2])<<8 | uint32(l.groups[3])
}

func scanIPv4(s string, mode Strictness) (ipv4Literal, bool) {
	var lit ipv4Literal
	host := s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		p, ok := scanDecimal(s[i+1:], maxPort)
		if !ok {
			return ipv4Literal{}, false
		}
		host, lit.port, lit.hasPort = s[:i], uint16(p), true
	}

	limit := uint64(maxOctet)
	if mode == Lenient {
		limit = maxLenientPart
	}

	for i := range 4 {
		part := host
		if i < 3 {
			j := strings.IndexByte(host, '.')
			if j < 0 {
				return ipv4Literal{}, false
			}
			part, host = host[:j], host[j+1:]
		}
		// 最后一段若仍含 "."，scanDecimal 会因非数字字符失败，即段数超过 4。
		v, ok := scanDecimal(part, limit)
		if !ok {
			return ipv4Literal{}, false
		}
		lit.groups[i] = uint16(v)
	}
	return lit, true
}

// ipv6Literal 是扫描 IPv6 文本得到的中间结果。
type ipv6Literal struct {
	groups  [8]uint16
	compact bool // 文本使用了 "::"
	port    uint16
	hasPort bool
}

func scanIPv6(s string, _ Strictness) (ipv6Literal, bool) {
	var lit ipv6Literal
	host := s
	if strings.HasPrefix(s, "[") {
		end := strings.Index(s, "]:")
		if end < 0 {
			return ipv6Literal{}, false
		}
		p, ok := scanDecimal(s[end+2:], maxPort)
		if !ok {
			return ipv6Literal{}, false
		}
		host, lit.port, lit.hasPort = s[1:end], uint16(p), true
	}
	if host == "" {
		return ipv6Literal{}, false
	}

	head, tail, compact := strings.Cut(host, "::")
	if !compact {
		n, ok := scanHexGroups(host, lit.groups[:])
		if !ok || n != 8 {
			return ipv6Literal{}, false
		}
		return lit, true
	}

	// 第二个 "::" 会在 tail 中再次出现；":::" 会在 tail 开头留下空分组。
	if strings.Contains(tail, "::") {
		return ipv6Literal{}, false
	}
	var hg, tg [7]uint16
	nh, ok := scanHexGroups(head, hg[:])
	if !ok {
		return ipv6Literal{}, false
	}
	nt, ok := scanHexGroups(tail, tg[:])
	if !ok || nh+nt > 7 {
		return ipv6Literal{}, false
	}
	copy(lit.groups[:nh], hg[:nh])
	copy(lit.groups[8-nt:], tg[:nt])
	lit.compact = true
	return lit, true
}

// scanHexGroups 解析以 ":" 分隔的十六进制分组到 dst，返回分组数。
// 空字符串返回 0 个分组；分组为空、超过 4 位、含非十六进制字符或超过 len(dst) 时失败。
func scanHexGroups(s string, dst []uint16) (int, bool) {
	if s == "" {
		return 0, true
	}
	n := 0
	for {
		part, rest, more := strings.Cut(s, ":")
		if n == len(dst) || len(part) == 0 || len(part) > 4 {
			return 0, false
		}
		var v uint16
		for i := 0; i < len(part); i++ {
			d := hexValue(part[i])
			if d < 0 {
				return 0, false
			}
			v = v<<4 | uint16(d)
		}
		dst[n] = v
		n++
		if !more {
			return n, true
		}
		s = rest
	}
}

// scanDecimal 解析非空纯数字字符串，值不超过 limit。
// 逐位检查上限，超长输入不会溢出。
func scanDecimal(s string, limit uint64) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + uint64(c-'0')
		if v > limit {
			return 0, false
		}
	}
	return v, true
}

// hexValue 返回十六进制字符的数值，无效字符返回 -1。
func hexValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c - 'a' + 10)
	case 'A' <= c && c <= 'F':
		return int(c - 'A' + 10)
	default:
		return -1
	}
}
