// Package transport 实现传输层
//
// Manager 按定位器类型管理多个传输绑定，并把生命周期调用
// 扇出到每个绑定上。
package transport

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"

	transportif "github.com/dep2p/go-rtnet/pkg/interfaces/transport"
	"github.com/dep2p/go-rtnet/pkg/lib/log"
	"github.com/dep2p/go-rtnet/pkg/types"
)

var logger = log.Logger("core/transport")

// 确保实现了接口
var _ transportif.Registry = (*Manager)(nil)

// Manager 传输注册表实现
type Manager struct {
	mu         sync.RWMutex
	transports map[types.LocatorKind]transportif.Transport
}

// NewManager 创建空的传输注册表
func NewManager() *Manager {
	return &Manager{
		transports: make(map[types.LocatorKind]transportif.Transport),
	}
}

// AddTransport 添加传输到注册表
//
// 同类型传输只允许一个。
func (m *Manager) AddTransport(t transportif.Transport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kind := t.Kind()
	if _, ok := m.transports[kind]; ok {
		return transportif.ErrTransportExists
	}
	m.transports[kind] = t
	logger.Debug("传输已注册", "kind", kind)
	return nil
}

// RemoveTransport 移除指定类型的传输
func (m *Manager) RemoveTransport(kind types.LocatorKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transports[kind]; !ok {
		return transportif.ErrTransportNotFound
	}
	delete(m.transports, kind)
	return nil
}

// TransportForLocator 获取支持指定定位器的传输
//
// 没有合适的传输时返回 nil。
func (m *Manager) TransportForLocator(loc types.Locator) transportif.Transport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.transports[loc.Kind]
	if !ok || !t.IsLocatorSupported(loc) {
		return nil
	}
	return t
}

// TransportForKind 获取指定类型的传输
func (m *Manager) TransportForKind(kind types.LocatorKind) transportif.Transport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transports[kind]
}

// Transports 返回所有注册的传输
func (m *Manager) Transports() []transportif.Transport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]transportif.Transport, 0, len(m.transports))
	for _, t := range m.transports {
		out = append(out, t)
	}
	return out
}

// Kinds 返回所有支持的定位器类型
func (m *Manager) Kinds() []types.LocatorKind {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.LocatorKind, 0, len(m.transports))
	for kind := range m.transports {
		out = append(out, kind)
	}
	return out
}

// Init 初始化所有传输
//
// 任一传输配置校验失败即整体失败，此前已启动的传输会被关闭，
// 不留下悬挂的后台协程。
func (m *Manager) Init() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	started := make([]transportif.Transport, 0, len(m.transports))
	for kind, t := range m.transports {
		if err := t.Init(); err != nil {
			for _, s := range started {
				s.Close()
			}
			return fmt.Errorf("init transport %s: %w", kind, err)
		}
		started = append(started, t)
		logger.Info("传输已初始化", "kind", kind)
	}
	return nil
}

// Close 关闭所有传输
func (m *Manager) Close() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var errs error
	for _, t := range m.transports {
		errs = multierr.Append(errs, t.Close())
	}
	return errs
}
