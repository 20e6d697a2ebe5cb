package rtnet

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-rtnet/internal/core/metrics"
	"github.com/dep2p/go-rtnet/internal/core/netif"
	"github.com/dep2p/go-rtnet/internal/core/transport"
	transportif "github.com/dep2p/go-rtnet/pkg/interfaces/transport"

	"github.com/prometheus/client_golang/prometheus"
)

// buildFxApp 构建 fx 应用
//
// 装配顺序（按依赖）：配置 → netif → metrics → transport。
// 传输的 Init/Close 由 transport 模块挂到 fx 生命周期上。
func buildFxApp(cfg *nodeConfig, node *Node) *fx.App {
	modules := []fx.Option{
		// 统一配置
		fx.Supply(cfg.config),

		// 核心模块
		netif.Module(),
		metrics.Module(),
		transport.Module(),
	}

	// 用户扩展
	if len(cfg.userFxOptions) > 0 {
		modules = append(modules, cfg.userFxOptions...)
	}

	// Node 组件注入
	modules = append(modules, fx.Invoke(func(r transportif.Registry, reg *prometheus.Registry) {
		node.registry = r
		node.metrics = reg
	}))

	// 禁用 fx 自身日志输出（避免干扰用户日志）
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	return fx.New(modules...)
}
