package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module 返回 metrics fx 模块
//
// 每个节点使用独立的 prometheus 注册表，避免多实例重复注册。
// 注册表由节点暴露给调用方做抓取接入。
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(
			prometheus.NewRegistry,
			func(reg *prometheus.Registry) *TransportMetrics {
				return NewTransportMetrics(reg)
			},
		),
	)
}
