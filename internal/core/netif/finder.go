// Package netif 实现本地网络接口枚举
//
// 对应 pkg/interfaces/netif 接口包。只做只读枚举，不产生绑定副作用。
package netif

import (
	"fmt"
	"net"
	"net/netip"

	netifif "github.com/dep2p/go-rtnet/pkg/interfaces/netif"
	"github.com/dep2p/go-rtnet/pkg/types"
)

// 确保实现了接口
var _ netifif.Provider = (*Finder)(nil)

// Finder 基于标准库 net 的接口地址枚举器
type Finder struct{}

// NewFinder 创建接口枚举器
func NewFinder() *Finder {
	return &Finder{}
}

// UnicastAddrs 返回指定定位器类型对应地址族的本地单播地址
//
// 跳过未启用的接口；回环接口保留（通配定位器展开需要覆盖回环）。
func (f *Finder) UnicastAddrs(kind types.LocatorKind) ([]netip.Addr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("enumerate interfaces: %w", err)
	}

	var out []netip.Addr
	for _, iface := range ifaces {
		// 跳过未启用的接口
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.IsUnspecified() {
				continue
			}

			switch kind {
			case types.LocatorKindUDPv6:
				if ip.To4() != nil || ip.To16() == nil {
					continue
				}
				out = append(out, netip.AddrFrom16([16]byte(ip.To16())))
			case types.LocatorKindUDPv4:
				ip4 := ip.To4()
				if ip4 == nil {
					continue
				}
				out = append(out, netip.AddrFrom4([4]byte(ip4)))
			}
		}
	}

	return out, nil
}
