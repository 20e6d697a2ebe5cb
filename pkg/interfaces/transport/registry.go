// Package transport 定义传输层接口
package transport

import (
	"github.com/dep2p/go-rtnet/pkg/types"
)

// ============================================================================
//                              Registry 接口
// ============================================================================

// Registry 传输注册表接口
//
// Registry 管理多个传输绑定，按定位器类型提供统一的传输选择能力。
// 上层协议栈通过 Registry 找到能处理某个定位器的绑定，
// 而不是直接依赖单一传输实例。
type Registry interface {
	// AddTransport 添加传输到注册表
	//
	// 如果已存在同类型的传输，返回错误。
	AddTransport(t Transport) error

	// RemoveTransport 移除指定类型的传输
	RemoveTransport(kind types.LocatorKind) error

	// TransportForLocator 获取支持指定定位器的传输
	//
	// 没有合适的传输时返回 nil。
	TransportForLocator(loc types.Locator) Transport

	// TransportForKind 获取指定类型的传输
	TransportForKind(kind types.LocatorKind) Transport

	// Transports 返回所有注册的传输
	Transports() []Transport

	// Kinds 返回所有支持的定位器类型
	Kinds() []types.LocatorKind

	// Init 初始化所有传输
	//
	// 任一传输配置校验失败即整体失败，已启动的传输会被关闭。
	Init() error

	// Close 关闭所有传输
	Close() error
}

// ============================================================================
//                              错误定义
// ============================================================================

// 注册表错误
var (
	// ErrTransportExists 同类型传输已存在
	ErrTransportExists = transportError("transport already exists for locator kind")

	// ErrTransportNotFound 传输不存在
	ErrTransportNotFound = transportError("transport not found for locator kind")
)

// transportError 传输错误类型
type transportError string

func (e transportError) Error() string {
	return string(e)
}
