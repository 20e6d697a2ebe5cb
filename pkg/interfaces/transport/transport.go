// Package transport 定义传输层接口
//
// 传输模块负责底层数据报通信，包括：
// - 定位器到 socket 的映射
// - 输入/输出通道生命周期
// - 同步 Send/Receive 原语
package transport

import (
	"github.com/dep2p/go-rtnet/pkg/types"
)

// ============================================================================
//                              常量
// ============================================================================

const (
	// MaximumUDPSocketSize UDP socket 缓冲区上限
	MaximumUDPSocketSize uint32 = 65536

	// MaximumMessageSize 单个数据报消息大小硬上限
	MaximumMessageSize uint32 = 65500
)

// ============================================================================
//                              Transport 接口
// ============================================================================

// Transport 传输绑定接口
//
// 一个 Transport 实例绑定一种定位器类型（如 UDPv6），在抽象定位器
// 与真实 socket 之间建立映射。通道操作与 Send/Receive 均为布尔契约：
// 失败原因只通过日志汇报，调用方只观察成功/失败。
type Transport interface {
	// Init 校验配置并启动后台 I/O 调度
	//
	// 配置违例（消息大小超限）在此处报告，校验失败不会启动后台协程。
	Init() error

	// Close 关闭全部通道，停止并等待后台 I/O 调度退出
	Close() error

	// Kind 返回本传输绑定的定位器类型
	Kind() types.LocatorKind

	// IsLocatorSupported 定位器类型是否匹配本传输
	//
	// 所有接受定位器的操作都先做此检查，不匹配时直接失败且无副作用。
	IsLocatorSupported(loc types.Locator) bool

	// DoLocatorsMatch 按当前通道策略判断两个定位器是否落在同一通道
	//
	// 细粒度模式下为精确相等，共享模式下只比较端口。
	DoLocatorsMatch(left, right types.Locator) bool

	// RemoteToMainLocal 将远端定位器映射为本地主输出通道定位器
	//
	// 返回同类型、同端口、地址清零的定位器；类型不匹配时 ok 为 false。
	RemoteToMainLocal(remote types.Locator) (types.Locator, bool)

	// OpenOutputChannel 打开输出通道
	//
	// 已打开或类型不匹配时返回 false。绑定失败不留下任何注册项。
	OpenOutputChannel(loc types.Locator) bool

	// OpenInputChannel 打开输入通道
	//
	// 每个端口只有一个通配绑定的输入 socket。组播定位器会在该端口
	// socket 上静默加入组播组（幂等副作用，不产生第二个通道项）。
	OpenInputChannel(loc types.Locator) bool

	// CloseOutputChannel 关闭输出通道
	//
	// 未打开时返回 false；关闭会取消该键下全部 socket 的未决操作。
	CloseOutputChannel(loc types.Locator) bool

	// CloseInputChannel 关闭输入通道
	//
	// 关闭会使该通道上阻塞中的 Receive 以失败返回。
	CloseInputChannel(loc types.Locator) bool

	// IsOutputChannelOpen 输出通道是否已打开
	IsOutputChannelOpen(loc types.Locator) bool

	// IsInputChannelOpen 输入通道是否已打开
	IsInputChannelOpen(loc types.Locator) bool

	// Send 在 localLocator 对应的输出通道上向 remoteLocator 发送数据报
	//
	// 通道未打开或 len(buf) 超过发送缓冲区大小时失败。共享白名单模式
	// 下对通道内全部 socket 扇出发送，任一成功即整体成功。
	Send(buf []byte, localLocator, remoteLocator types.Locator) bool

	// Receive 在 localLocator 对应的输入通道上阻塞接收一个数据报
	//
	// buf 容量小于接收缓冲区大小时立即失败。成功时返回字节数和
	// 发送方定位器；通道被并发关闭时以失败返回。
	Receive(buf []byte, localLocator types.Locator) (int, types.Locator, bool)

	// NormalizeLocator 将通配定位器展开为每个本地接口一个具体定位器
	//
	// 非通配定位器返回仅含自身的单元素列表。
	NormalizeLocator(loc types.Locator) types.LocatorList
}

// ============================================================================
//                              配置
// ============================================================================

// UDPConfig UDP 传输描述符
//
// 构造后不可变，可被任意线程无锁读取。
type UDPConfig struct {
	// MaxMessageSize 最大消息大小
	//
	// 不得超过 MaximumMessageSize，也不得超过两个缓冲区大小，
	// 违例在 Init 时作为致命配置错误报告。
	MaxMessageSize uint32

	// SendBufferSize 发送缓冲区大小（socket 选项）
	SendBufferSize uint32

	// ReceiveBufferSize 接收缓冲区大小（socket 选项）
	ReceiveBufferSize uint32

	// GranularMode 细粒度输出通道策略
	//
	// true 时每个完整定位器独占一个 socket；false 时按端口共享。
	GranularMode bool

	// InterfaceWhitelist 允许绑定的本地接口地址（字面 IP 字符串）
	//
	// 为空表示不过滤。
	InterfaceWhitelist []string
}

// DefaultUDPConfig 返回默认 UDP 传输配置
func DefaultUDPConfig() UDPConfig {
	return UDPConfig{
		MaxMessageSize:    MaximumMessageSize,
		SendBufferSize:    MaximumUDPSocketSize,
		ReceiveBufferSize: MaximumUDPSocketSize,
		GranularMode:      false,
	}
}
