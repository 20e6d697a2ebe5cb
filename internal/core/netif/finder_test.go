package netif

import (
	"testing"

	"github.com/dep2p/go-rtnet/pkg/types"
)

// TestUnicastAddrsV6 测试 IPv6 枚举只返回原生 IPv6 地址
func TestUnicastAddrsV6(t *testing.T) {
	addrs, err := NewFinder().UnicastAddrs(types.LocatorKindUDPv6)
	if err != nil {
		t.Fatalf("枚举失败: %v", err)
	}
	for _, addr := range addrs {
		if !addr.Is6() || addr.Is4In6() {
			t.Errorf("返回了非 IPv6 地址: %s", addr)
		}
		if addr.IsUnspecified() {
			t.Errorf("不应返回通配地址: %s", addr)
		}
	}
}

// TestUnicastAddrsV4 测试 IPv4 枚举只返回 IPv4 地址
func TestUnicastAddrsV4(t *testing.T) {
	addrs, err := NewFinder().UnicastAddrs(types.LocatorKindUDPv4)
	if err != nil {
		t.Fatalf("枚举失败: %v", err)
	}
	for _, addr := range addrs {
		if !addr.Is4() {
			t.Errorf("返回了非 IPv4 地址: %s", addr)
		}
		if addr.IsUnspecified() {
			t.Errorf("不应返回通配地址: %s", addr)
		}
	}
}

// TestUnicastAddrsUnknownKind 测试未知类型返回空列表
func TestUnicastAddrsUnknownKind(t *testing.T) {
	addrs, err := NewFinder().UnicastAddrs(types.LocatorKindReserved)
	if err != nil {
		t.Fatalf("枚举失败: %v", err)
	}
	if len(addrs) != 0 {
		t.Errorf("未知类型应返回空列表, got %v", addrs)
	}
}
