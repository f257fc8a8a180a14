package xip

// Family 表示地址族。
type Family uint8

const (
	// Unknown 表示未初始化的 [Address]。
	Unknown Family = 0
	// V4 表示 IPv4。
	V4 Family = 4
	// V6 表示 IPv6。
	V6 Family = 6
)

// String 返回地址族的字符串表示。
func (f Family) String() string {
	switch f {
	case V4:
		return "IPv4"
	case V6:
		return "IPv6"
	default:
		return "unknown"
	}
}

// Bits 返回地址族的位宽，Unknown 返回 0。
func (f Family) Bits() int {
	switch f {
	case V4:
		return 32
	case V6:
		return 128
	default:
		return 0
	}
}
