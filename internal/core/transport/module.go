package transport

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-rtnet/config"
	"github.com/dep2p/go-rtnet/internal/core/metrics"
	"github.com/dep2p/go-rtnet/internal/core/transport/udpv4"
	"github.com/dep2p/go-rtnet/internal/core/transport/udpv6"
	netifif "github.com/dep2p/go-rtnet/pkg/interfaces/netif"
	transportif "github.com/dep2p/go-rtnet/pkg/interfaces/transport"
)

// Config 传输层配置
type Config struct {
	// 绑定开关
	EnableUDPv6 bool
	EnableUDPv4 bool

	// 各绑定的描述符
	UDPv6 transportif.UDPConfig
	UDPv4 transportif.UDPConfig
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		EnableUDPv6: true,
		EnableUDPv4: true,
		UDPv6:       transportif.DefaultUDPConfig(),
		UDPv4:       transportif.DefaultUDPConfig(),
	}
}

// ConfigFromUnified 从统一配置创建传输配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return NewConfig()
	}
	return Config{
		EnableUDPv6: cfg.Transport.EnableUDPv6,
		EnableUDPv4: cfg.Transport.EnableUDPv4,
		UDPv6:       cfg.Transport.UDPv6.ToUDPConfig(),
		UDPv4:       cfg.Transport.UDPv4.ToUDPConfig(),
	}
}

// BuildManager 按配置组装传输注册表
//
// 只创建，不初始化；Init 由生命周期钩子触发。
func BuildManager(cfg Config, provider netifif.Provider, m *metrics.TransportMetrics) (*Manager, error) {
	mgr := NewManager()

	if cfg.EnableUDPv6 {
		t, err := udpv6.New(cfg.UDPv6, provider, m)
		if err != nil {
			return nil, err
		}
		if err := mgr.AddTransport(t); err != nil {
			return nil, err
		}
		logger.Debug("UDPv6 传输已创建")
	}

	if cfg.EnableUDPv4 {
		t, err := udpv4.New(cfg.UDPv4, provider, m)
		if err != nil {
			return nil, err
		}
		if err := mgr.AddTransport(t); err != nil {
			return nil, err
		}
		logger.Debug("UDPv4 传输已创建")
	}

	logger.Info("传输注册表组装完成", "transportCount", len(mgr.Transports()))
	return mgr, nil
}

// Module 返回 transport fx 模块
//
// 提供 Registry，并把 Init/Close 挂到 fx 生命周期：
// OnStart 校验配置并启动各绑定的 I/O 调度，OnStop 全部关停。
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(
			func(cfg *config.Config) Config {
				return ConfigFromUnified(cfg)
			},
			fx.Annotate(
				BuildManager,
				fx.As(new(transportif.Registry)),
			),
		),
		fx.Invoke(func(lc fx.Lifecycle, registry transportif.Registry) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					return registry.Init()
				},
				OnStop: func(context.Context) error {
					return registry.Close()
				},
			})
		}),
	)
}
