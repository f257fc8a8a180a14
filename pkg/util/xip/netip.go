package xip

import (
	"fmt"
	"net"
	"net/netip"

	"go4.org/netipx"
)

// Addr 返回等值的 [netip.Addr]，端口被丢弃。
func (a IPv4) Addr() netip.Addr {
	return netip.AddrFrom4([4]byte{byte(a.num >> 24), byte(a.num >> 16), byte(a.num >> 8), byte(a.num)})
}

// AddrPort 返回 [netip.AddrPort]，ok 为 false 表示未携带端口。
func (a IPv4) AddrPort() (ap netip.AddrPort, ok bool) {
	if !a.hasPort {
		return netip.AddrPort{}, false
	}
	return netip.AddrPortFrom(a.Addr(), a.port), true
}

// Addr 返回等值的 [netip.Addr]，端口被丢弃。
func (a IPv6) Addr() netip.Addr {
	return netip.AddrFrom16(a.num.Bytes())
}

// AddrPort 返回 [netip.AddrPort]，ok 为 false 表示未携带端口。
func (a IPv6) AddrPort() (ap netip.AddrPort, ok bool) {
	if !a.hasPort {
		return netip.AddrPort{}, false
	}
	return netip.AddrPortFrom(a.Addr(), a.port), true
}

// FromNetIP 从 [netip.Addr] 构造 Address。
//
// 地址族沿用 addr 自身：Is4 为 IPv4，其余（包括 IPv4-mapped IPv6）为 IPv6。
// 无效地址或带 zone ID 的地址返回 [ErrInvalidAddress]。
func FromNetIP(addr netip.Addr, opts ...Option) (Address, error) {
	if !addr.IsValid() {
		return Address{}, fmt.Errorf("%w: invalid netip.Addr", ErrInvalidAddress)
	}
	if addr.Zone() != "" {
		return Address{}, fmt.Errorf("%w: zone %q is not supported", ErrInvalidAddress, addr.Zone())
	}
	if addr.Is4() {
		b := addr.As4()
		v, err := IPv4From(uint32(b[0])<<24|uint32(b[1])<<16|uint32(b[2])<<8|uint32(b[3]), opts...)
		if err != nil {
			return Address{}, err
		}
		return AddressOf4(v), nil
	}
	v, err := IPv6From(Uint128FromBytes(addr.As16()), opts...)
	if err != nil {
		return Address{}, err
	}
	return AddressOf6(v), nil
}

// FromAddrPort 从 [netip.AddrPort] 构造携带端口的 Address。
func FromAddrPort(ap netip.AddrPort) (Address, error) {
	return FromNetIP(ap.Addr(), WithPort(int(ap.Port())))
}

// FromStdIP 从 [net.IP] 构造 Address。
//
// 借助 [netipx.FromStdIP]，16 字节形式的 IPv4-mapped 地址（net.ParseIP 的默认结果）
// 会还原为 IPv4。长度既不是 4 也不是 16 的切片返回 [ErrInvalidAddress]。
func FromStdIP(ip net.IP, opts ...Option) (Address, error) {
	addr, ok := netipx.FromStdIP(ip)
	if !ok {
		return Address{}, fmt.Errorf("%w: net.IP of length %d", ErrInvalidAddress, len(ip))
	}
	return FromNetIP(addr, opts...)
}

// StdIP 返回 [net.IP] 表示：IPv4 为 4 字节，IPv6 为 16 字节。零值返回 nil。
func (a Address) StdIP() net.IP {
	switch a.family {
	case V4:
		return net.IP(a.v4.Addr().AsSlice())
	case V6:
		return net.IP(a.v6.Addr().AsSlice())
	default:
		return nil
	}
}
