package types

import (
	"fmt"
	"net/netip"
)

// ============================================================================
//                              LocatorKind - 定位器类型
// ============================================================================

// LocatorKind 定位器类型标签
//
// 标识定位器所属的地址族/传输绑定。每个传输绑定只接受自己类型的定位器。
type LocatorKind int32

const (
	// LocatorKindInvalid 无效类型
	LocatorKindInvalid LocatorKind = -1

	// LocatorKindReserved 保留类型
	LocatorKindReserved LocatorKind = 0

	// LocatorKindUDPv4 UDPv4 传输
	LocatorKindUDPv4 LocatorKind = 1

	// LocatorKindUDPv6 UDPv6 传输
	LocatorKindUDPv6 LocatorKind = 2
)

// String 返回类型的字符串表示
func (k LocatorKind) String() string {
	switch k {
	case LocatorKindUDPv4:
		return "udpv4"
	case LocatorKindUDPv6:
		return "udpv6"
	case LocatorKindReserved:
		return "reserved"
	default:
		return "invalid"
	}
}

// LocatorPortInvalid 无效端口
const LocatorPortInvalid uint32 = 0

// ============================================================================
//                              Locator - 定位器
// ============================================================================

// Locator 协议层网络地址
//
// 由类型标签、16 字节地址和 32 位端口组成，标识一个通信端点。
// UDPv6 地址占满 16 字节；UDPv4 地址存放在最后 4 字节（[12:16)），
// 其余字节为零。
type Locator struct {
	// Kind 定位器类型
	Kind LocatorKind

	// Port 端口（协议层为 32 位，绑定到 socket 时截断为 16 位）
	Port uint32

	// Address 定长地址
	Address [16]byte
}

// NewLocator 创建指定类型和端口的定位器（地址为零值）
func NewLocator(kind LocatorKind, port uint32) Locator {
	return Locator{Kind: kind, Port: port}
}

// Equal 精确相等（类型+地址+端口全部一致）
func (l Locator) Equal(other Locator) bool {
	return l.Kind == other.Kind && l.Port == other.Port && l.Address == other.Address
}

// IsAddressWildcard 地址是否为全零通配地址
func (l Locator) IsAddressWildcard() bool {
	return l.Address == [16]byte{}
}

// ============================================================================
//                              地址转换
// ============================================================================

// SetAddrV6 写入 IPv6 地址
func (l *Locator) SetAddrV6(addr netip.Addr) {
	l.Address = addr.As16()
}

// SetAddrV4 写入 IPv4 地址（存放在最后 4 字节）
func (l *Locator) SetAddrV4(addr netip.Addr) {
	l.Address = [16]byte{}
	a4 := addr.As4()
	copy(l.Address[12:], a4[:])
}

// AddrV6 以 netip.Addr 形式返回 IPv6 地址
func (l Locator) AddrV6() netip.Addr {
	return netip.AddrFrom16(l.Address)
}

// AddrV4 以 netip.Addr 形式返回 IPv4 地址
func (l Locator) AddrV4() netip.Addr {
	return netip.AddrFrom4([4]byte(l.Address[12:16]))
}

// UDPAddrPort 返回定位器对应的 socket 目标地址
//
// 端口按 socket 语义截断为 16 位。类型未知时返回零值。
func (l Locator) UDPAddrPort() netip.AddrPort {
	switch l.Kind {
	case LocatorKindUDPv6:
		return netip.AddrPortFrom(l.AddrV6(), uint16(l.Port))
	case LocatorKindUDPv4:
		return netip.AddrPortFrom(l.AddrV4(), uint16(l.Port))
	default:
		return netip.AddrPort{}
	}
}

// LocatorFromAddrPort 从 socket 对端地址构造定位器
//
// 用于收到数据报后向上层报告发送方。kind 决定地址写入方式。
func LocatorFromAddrPort(kind LocatorKind, ap netip.AddrPort) Locator {
	loc := Locator{Kind: kind, Port: uint32(ap.Port())}
	addr := ap.Addr()
	switch kind {
	case LocatorKindUDPv6:
		loc.SetAddrV6(addr)
	case LocatorKindUDPv4:
		// 对端地址可能以 IPv4-mapped IPv6 形式出现
		loc.SetAddrV4(addr.Unmap())
	}
	return loc
}

// String 返回定位器的字符串表示
func (l Locator) String() string {
	switch l.Kind {
	case LocatorKindUDPv4:
		return fmt.Sprintf("udpv4/%s:%d", l.AddrV4(), l.Port)
	case LocatorKindUDPv6:
		return fmt.Sprintf("udpv6/[%s]:%d", l.AddrV6(), l.Port)
	default:
		return fmt.Sprintf("invalid/%d", l.Port)
	}
}

// ============================================================================
//                              LocatorList - 定位器列表
// ============================================================================

// LocatorList 定位器列表
type LocatorList []Locator

// Contains 列表中是否存在与 loc 精确相等的定位器
func (ll LocatorList) Contains(loc Locator) bool {
	for _, l := range ll {
		if l.Equal(loc) {
			return true
		}
	}
	return false
}
