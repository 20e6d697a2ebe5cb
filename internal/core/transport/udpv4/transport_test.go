package udpv4

import (
	"errors"
	"net"
	"net/netip"
	"testing"
	"time"

	transportif "github.com/dep2p/go-rtnet/pkg/interfaces/transport"
	"github.com/dep2p/go-rtnet/pkg/types"
)

// staticProvider 返回固定地址列表的接口枚举桩
type staticProvider struct {
	addrs []netip.Addr
}

func (p staticProvider) UnicastAddrs(types.LocatorKind) ([]netip.Addr, error) {
	return p.addrs, nil
}

func freePortV4(t *testing.T) uint32 {
	t.Helper()
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("申请端口失败: %v", err)
	}
	port := pc.LocalAddr().(*net.UDPAddr).Port
	pc.Close()
	return uint32(port)
}

func newTestTransport(t *testing.T, cfg transportif.UDPConfig, provider staticProvider) *Transport {
	t.Helper()
	tr, err := New(cfg, provider, nil)
	if err != nil {
		t.Fatalf("创建传输失败: %v", err)
	}
	t.Cleanup(func() { tr.Close() })
	return tr
}

func locatorV4(addr string, port uint32) types.Locator {
	loc := types.NewLocator(types.LocatorKindUDPv4, port)
	if addr != "" {
		loc.SetAddrV4(netip.MustParseAddr(addr))
	}
	return loc
}

// TestNewRejectsBadWhitelist 测试非法白名单条目是构造错误
func TestNewRejectsBadWhitelist(t *testing.T) {
	cases := []string{"fe80::1", "not-an-ip"}
	for _, entry := range cases {
		cfg := transportif.DefaultUDPConfig()
		cfg.InterfaceWhitelist = []string{entry}
		if _, err := New(cfg, staticProvider{}, nil); !errors.Is(err, ErrBadWhitelistEntry) {
			t.Errorf("白名单条目 %q 应返回 ErrBadWhitelistEntry, got %v", entry, err)
		}
	}
}

// TestIsMulticastLocator 测试 IPv4 组播地址段判定
func TestIsMulticastLocator(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"224.0.0.1", true},
		{"239.255.255.250", true},
		{"223.255.255.255", false},
		{"240.0.0.1", false},
		{"192.168.1.1", false},
	}
	for _, c := range cases {
		if got := isMulticastLocator(locatorV4(c.addr, 7400)); got != c.want {
			t.Errorf("isMulticastLocator(%s) = %v, 期望 %v", c.addr, got, c.want)
		}
	}
}

// TestLocatorPredicates 测试类型判定与主输出通道映射
func TestLocatorPredicates(t *testing.T) {
	tr := newTestTransport(t, transportif.DefaultUDPConfig(), staticProvider{})

	if tr.Kind() != types.LocatorKindUDPv4 {
		t.Errorf("Kind() = %s", tr.Kind())
	}
	if tr.IsLocatorSupported(types.NewLocator(types.LocatorKindUDPv6, 7400)) {
		t.Error("不应支持 UDPv6 定位器")
	}

	remote := locatorV4("192.168.1.5", 7400)
	local, ok := tr.RemoteToMainLocal(remote)
	if !ok || !local.IsAddressWildcard() || local.Port != 7400 {
		t.Errorf("RemoteToMainLocal 映射错误: %s, ok=%v", local, ok)
	}
}

// TestOutputChannelLifecycle 测试输出通道的打开、重复打开与关闭
func TestOutputChannelLifecycle(t *testing.T) {
	tr := newTestTransport(t, transportif.DefaultUDPConfig(), staticProvider{})

	loc := locatorV4("", 0)
	if !tr.OpenOutputChannel(loc) {
		t.Fatal("打开输出通道失败")
	}
	if tr.OpenOutputChannel(loc) {
		t.Error("重复打开应返回 false")
	}
	if !tr.CloseOutputChannel(loc) {
		t.Error("关闭已打开的通道应成功")
	}
	if tr.CloseOutputChannel(loc) {
		t.Error("关闭未打开的通道应返回 false")
	}
}

// TestGranularIndependentChannels 测试细粒度模式下同端口不同地址的通道相互独立
//
// 回环网段 127.0.0.0/8 整段可绑定，用 127.0.0.1 和 127.0.0.2
// 构造共享端口但地址不同的两个定位器。
func TestGranularIndependentChannels(t *testing.T) {
	cfg := transportif.DefaultUDPConfig()
	cfg.GranularMode = true
	tr := newTestTransport(t, cfg, staticProvider{})

	port := freePortV4(t)
	loc1 := locatorV4("127.0.0.1", port)
	loc2 := locatorV4("127.0.0.2", port)

	if !tr.OpenOutputChannel(loc1) {
		t.Fatal("打开 loc1 失败")
	}
	if !tr.OpenOutputChannel(loc2) {
		t.Fatal("同端口不同地址的定位器应独立打开")
	}

	if !tr.CloseOutputChannel(loc1) {
		t.Fatal("关闭 loc1 失败")
	}
	if !tr.IsOutputChannelOpen(loc2) {
		t.Error("关闭 loc1 不应影响 loc2")
	}
	if tr.IsOutputChannelOpen(loc1) {
		t.Error("loc1 关闭后不应报告为打开")
	}
}

// TestSendReceiveE2E 测试回环上的端到端发送与接收
func TestSendReceiveE2E(t *testing.T) {
	tr := newTestTransport(t, transportif.DefaultUDPConfig(), staticProvider{})
	if err := tr.Init(); err != nil {
		t.Fatalf("Init 失败: %v", err)
	}

	in := locatorV4("", freePortV4(t))
	out := locatorV4("", 0)
	if !tr.OpenInputChannel(in) {
		t.Fatal("打开输入通道失败")
	}
	if !tr.OpenOutputChannel(out) {
		t.Fatal("打开输出通道失败")
	}

	payload := make([]byte, 100)
	for i := range payload {
		payload[i] = byte(i)
	}
	remote := locatorV4("127.0.0.1", in.Port)

	go func() {
		// 给接收方时间登记读取
		time.Sleep(50 * time.Millisecond)
		tr.Send(payload, out, remote)
	}()

	buf := make([]byte, tr.cfg.ReceiveBufferSize)
	n, sender, ok := tr.Receive(buf, in)
	if !ok {
		t.Fatal("接收失败")
	}
	if n != len(payload) {
		t.Errorf("接收字节数 = %d, 期望 %d", n, len(payload))
	}
	if sender.Kind != types.LocatorKindUDPv4 {
		t.Errorf("发送方定位器类型 = %s, 期望 udpv4", sender.Kind)
	}
	if !sender.AddrV4().IsLoopback() {
		t.Errorf("发送方地址应为回环: %s", sender)
	}
}

// TestNormalizeLocator 测试通配定位器按本地接口展开
func TestNormalizeLocator(t *testing.T) {
	provider := staticProvider{addrs: []netip.Addr{
		netip.MustParseAddr("127.0.0.1"),
		netip.MustParseAddr("192.168.1.10"),
	}}
	tr := newTestTransport(t, transportif.DefaultUDPConfig(), provider)

	list := tr.NormalizeLocator(locatorV4("", 7400))
	if len(list) != 2 {
		t.Fatalf("展开结果数 = %d, 期望 2", len(list))
	}
	if !list.Contains(locatorV4("127.0.0.1", 7400)) || !list.Contains(locatorV4("192.168.1.10", 7400)) {
		t.Errorf("展开结果缺少接口地址: %v", list)
	}
}
