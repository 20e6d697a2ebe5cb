// Package udpv4 实现 UDPv4 传输绑定
//
// 与 udpv6 绑定结构一致：定位器的 IPv4 地址存放在 16 字节地址的
// 最后 4 字节，组播按第一个 v4 八位组落在 [224, 240) 判断。
package udpv4

import (
	"net/netip"
	"sync"

	"go.uber.org/multierr"

	"github.com/dep2p/go-rtnet/internal/core/metrics"
	"github.com/dep2p/go-rtnet/internal/core/transport/udp"
	netifif "github.com/dep2p/go-rtnet/pkg/interfaces/netif"
	transportif "github.com/dep2p/go-rtnet/pkg/interfaces/transport"
	"github.com/dep2p/go-rtnet/pkg/lib/log"
	"github.com/dep2p/go-rtnet/pkg/types"
)

var logger = log.Logger("core/transport/udpv4")

// kindLabel 指标中的传输类型标签
const kindLabel = "udpv4"

// 确保实现了接口
var _ transportif.Transport = (*Transport)(nil)

// Transport UDPv4 传输绑定
type Transport struct {
	cfg       transportif.UDPConfig
	whitelist []netip.Addr
	provider  netifif.Provider
	metrics   *metrics.TransportMetrics

	engine *udp.Engine

	outputMu        sync.Mutex
	outputSockets   map[uint32][]*outputSocket
	granularSockets map[types.Locator]*outputSocket

	inputMu      sync.Mutex
	inputSockets map[uint32]*inputSocket
}

// New 创建 UDPv4 传输
//
// 白名单条目在此处解析，非法条目是构造错误。m 可以为 nil。
func New(cfg transportif.UDPConfig, provider netifif.Provider, m *metrics.TransportMetrics) (*Transport, error) {
	whitelist := make([]netip.Addr, 0, len(cfg.InterfaceWhitelist))
	for _, entry := range cfg.InterfaceWhitelist {
		addr, err := netip.ParseAddr(entry)
		if err != nil || !addr.Is4() {
			return nil, ErrBadWhitelistEntry
		}
		whitelist = append(whitelist, addr)
	}

	return &Transport{
		cfg:             cfg,
		whitelist:       whitelist,
		provider:        provider,
		metrics:         m,
		engine:          udp.NewEngine(),
		outputSockets:   make(map[uint32][]*outputSocket),
		granularSockets: make(map[types.Locator]*outputSocket),
		inputSockets:    make(map[uint32]*inputSocket),
	}, nil
}

// Init 校验配置并启动 I/O 调度协程
func (t *Transport) Init() error {
	if t.cfg.MaxMessageSize > transportif.MaximumMessageSize {
		logger.Error("配置校验失败", "error", ErrMaxMessageSizeTooBig)
		return ErrMaxMessageSizeTooBig
	}
	if t.cfg.MaxMessageSize > t.cfg.SendBufferSize {
		logger.Error("配置校验失败", "error", ErrMaxMessageSizeOverSendBuffer)
		return ErrMaxMessageSizeOverSendBuffer
	}
	if t.cfg.MaxMessageSize > t.cfg.ReceiveBufferSize {
		logger.Error("配置校验失败", "error", ErrMaxMessageSizeOverReceiveBuffer)
		return ErrMaxMessageSizeOverReceiveBuffer
	}

	t.engine.Start()
	return nil
}

// Close 关闭全部通道并停止 I/O 调度协程
func (t *Transport) Close() error {
	var errs error

	t.outputMu.Lock()
	for port, socks := range t.outputSockets {
		for _, s := range socks {
			errs = multierr.Append(errs, s.conn.Close())
		}
		delete(t.outputSockets, port)
	}
	for loc, s := range t.granularSockets {
		errs = multierr.Append(errs, s.conn.Close())
		delete(t.granularSockets, loc)
	}
	t.outputMu.Unlock()

	t.inputMu.Lock()
	for port, s := range t.inputSockets {
		errs = multierr.Append(errs, s.conn.Close())
		delete(t.inputSockets, port)
	}
	t.inputMu.Unlock()

	t.engine.Stop()
	return errs
}

// ============================================================================
//                              定位器谓词
// ============================================================================

// Kind 返回本传输绑定的定位器类型
func (t *Transport) Kind() types.LocatorKind {
	return types.LocatorKindUDPv4
}

// IsLocatorSupported 定位器类型是否为 UDPv4
func (t *Transport) IsLocatorSupported(loc types.Locator) bool {
	return loc.Kind == types.LocatorKindUDPv4
}

// DoLocatorsMatch 按当前通道策略比较两个定位器
func (t *Transport) DoLocatorsMatch(left, right types.Locator) bool {
	if t.cfg.GranularMode {
		return left.Equal(right)
	}
	return left.Port == right.Port
}

// RemoteToMainLocal 将远端定位器映射为本地主输出通道定位器
//
// 所有远端都等价地映射到 0.0.0.0:port（主输出通道）。
func (t *Transport) RemoteToMainLocal(remote types.Locator) (types.Locator, bool) {
	if !t.IsLocatorSupported(remote) {
		return types.Locator{}, false
	}
	mainLocal := remote
	mainLocal.Address = [16]byte{}
	return mainLocal, true
}

// isMulticastLocator 第一个 v4 八位组落在 [224, 240)
func isMulticastLocator(loc types.Locator) bool {
	return loc.Address[12] >= 224 && loc.Address[12] < 240
}

// isInterfaceAllowed 白名单过滤
func (t *Transport) isInterfaceAllowed(addr netip.Addr) bool {
	if len(t.whitelist) == 0 {
		return true
	}
	if addr.IsUnspecified() {
		return true
	}
	for _, allowed := range t.whitelist {
		if allowed == addr {
			return true
		}
	}
	return false
}

// ============================================================================
//                              通道注册表
// ============================================================================

// IsOutputChannelOpen 输出通道是否已打开
func (t *Transport) IsOutputChannelOpen(loc types.Locator) bool {
	t.outputMu.Lock()
	defer t.outputMu.Unlock()
	return t.isOutputChannelOpenLocked(loc)
}

func (t *Transport) isOutputChannelOpenLocked(loc types.Locator) bool {
	if !t.IsLocatorSupported(loc) {
		return false
	}
	if t.cfg.GranularMode {
		_, ok := t.granularSockets[loc]
		return ok
	}
	_, ok := t.outputSockets[loc.Port]
	return ok
}

// IsInputChannelOpen 输入通道是否已打开
func (t *Transport) IsInputChannelOpen(loc types.Locator) bool {
	t.inputMu.Lock()
	defer t.inputMu.Unlock()
	return t.isInputChannelOpenLocked(loc)
}

func (t *Transport) isInputChannelOpenLocked(loc types.Locator) bool {
	if !t.IsLocatorSupported(loc) {
		return false
	}
	_, ok := t.inputSockets[loc.Port]
	return ok
}

// OpenOutputChannel 打开输出通道
func (t *Transport) OpenOutputChannel(loc types.Locator) bool {
	if !t.IsLocatorSupported(loc) {
		return false
	}

	t.outputMu.Lock()
	defer t.outputMu.Unlock()

	if t.isOutputChannelOpenLocked(loc) {
		return false
	}

	if t.cfg.GranularMode {
		return t.openAndBindGranularOutputSocketLocked(loc)
	}
	return t.openAndBindOutputSocketsLocked(loc.Port)
}

// openAndBindOutputSocketsLocked 共享模式下为端口创建输出 socket
func (t *Transport) openAndBindOutputSocketsLocked(port uint32) bool {
	if len(t.whitelist) == 0 {
		sock, err := t.openAndBindUnicastOutputSocket(netip.IPv4Unspecified(), port)
		if err != nil {
			logger.Info("UDPv4 输出端口绑定失败", "port", port, "error", err)
			t.metrics.RecordBindError(kindLabel)
			return false
		}
		t.outputSockets[port] = []*outputSocket{sock}
		return true
	}

	addrs, err := t.provider.UnicastAddrs(types.LocatorKindUDPv4)
	if err != nil {
		logger.Info("枚举本地接口失败", "error", err)
		return false
	}

	socks := make([]*outputSocket, 0, len(addrs))
	for _, addr := range addrs {
		if !t.isInterfaceAllowed(addr) {
			continue
		}
		sock, err := t.openAndBindUnicastOutputSocket(addr, port)
		if err != nil {
			logger.Info("UDPv4 输出端口绑定失败", "address", addr, "port", port, "error", err)
			t.metrics.RecordBindError(kindLabel)
			for _, s := range socks {
				s.conn.Close()
			}
			return false
		}
		socks = append(socks, sock)
	}

	t.outputSockets[port] = socks
	return true
}

// openAndBindGranularOutputSocketLocked 细粒度模式下为定位器创建独占 socket
func (t *Transport) openAndBindGranularOutputSocketLocked(loc types.Locator) bool {
	addr := loc.AddrV4()
	if !t.isInterfaceAllowed(addr) {
		return false
	}

	sock, err := t.openAndBindUnicastOutputSocket(addr, loc.Port)
	if err != nil {
		logger.Info("UDPv4 输出端口绑定失败", "address", addr, "port", loc.Port, "error", err)
		t.metrics.RecordBindError(kindLabel)
		return false
	}

	t.granularSockets[loc] = sock
	return true
}

// OpenInputChannel 打开输入通道
//
// 组播定位器在端口 socket 上静默加组，不产生第二个通道项。
func (t *Transport) OpenInputChannel(loc types.Locator) bool {
	if !t.IsLocatorSupported(loc) {
		return false
	}

	t.inputMu.Lock()
	defer t.inputMu.Unlock()

	success := false
	if !t.isInputChannelOpenLocked(loc) {
		success = t.openAndBindInputSocketLocked(loc.Port)
	}

	if isMulticastLocator(loc) && t.isInputChannelOpenLocked(loc) {
		sock := t.inputSockets[loc.Port]
		if err := sock.joinGroup(loc.AddrV4()); err != nil {
			logger.Warn("加入组播组失败", "group", loc.AddrV4(), "port", loc.Port, "error", err)
		}
	}

	return success
}

// openAndBindInputSocketLocked 为端口创建通配绑定的输入 socket
func (t *Transport) openAndBindInputSocketLocked(port uint32) bool {
	sock, err := t.openAndBindInputSocket(port)
	if err != nil {
		logger.Info("UDPv4 输入端口绑定失败", "port", port, "error", err)
		t.metrics.RecordBindError(kindLabel)
		return false
	}
	t.inputSockets[port] = sock
	return true
}

// CloseOutputChannel 关闭输出通道
func (t *Transport) CloseOutputChannel(loc types.Locator) bool {
	t.outputMu.Lock()
	defer t.outputMu.Unlock()

	if !t.isOutputChannelOpenLocked(loc) {
		return false
	}

	if t.cfg.GranularMode {
		t.granularSockets[loc].conn.Close()
		delete(t.granularSockets, loc)
		return true
	}

	for _, s := range t.outputSockets[loc.Port] {
		s.conn.Close()
	}
	delete(t.outputSockets, loc.Port)
	return true
}

// CloseInputChannel 关闭输入通道
func (t *Transport) CloseInputChannel(loc types.Locator) bool {
	t.inputMu.Lock()
	defer t.inputMu.Unlock()

	if !t.isInputChannelOpenLocked(loc) {
		return false
	}

	t.inputSockets[loc.Port].conn.Close()
	delete(t.inputSockets, loc.Port)
	return true
}

// ============================================================================
//                              定位器展开
// ============================================================================

// NormalizeLocator 将通配定位器展开为每个本地接口一个具体定位器
func (t *Transport) NormalizeLocator(loc types.Locator) types.LocatorList {
	list := types.LocatorList{}

	if loc.IsAddressWildcard() {
		addrs, err := t.provider.UnicastAddrs(types.LocatorKindUDPv4)
		if err != nil {
			logger.Warn("枚举本地接口失败", "error", err)
			return list
		}
		for _, addr := range addrs {
			newLoc := loc
			newLoc.SetAddrV4(addr)
			list = append(list, newLoc)
		}
		return list
	}

	return append(list, loc)
}
