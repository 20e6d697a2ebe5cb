// Package netif 定义本地网络接口枚举接口
//
// 传输绑定不直接扫描网卡，而是通过 Provider 获取本地单播地址，
// 用于白名单绑定和通配定位器展开。
package netif

import (
	"net/netip"

	"github.com/dep2p/go-rtnet/pkg/types"
)

// Provider 本地接口地址提供者
//
// 实现必须是只读的：Provider 只汇报地址，不产生任何绑定副作用。
type Provider interface {
	// UnicastAddrs 返回指定定位器类型对应地址族的本地单播地址
	//
	// kind 为 LocatorKindUDPv6 时仅返回 IPv6 地址，
	// 为 LocatorKindUDPv4 时仅返回 IPv4 地址。
	UnicastAddrs(kind types.LocatorKind) ([]netip.Addr, error)
}
