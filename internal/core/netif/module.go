package netif

import (
	"go.uber.org/fx"

	netifif "github.com/dep2p/go-rtnet/pkg/interfaces/netif"
)

// Module 返回 netif fx 模块
//
// 提供 netif.Provider 的标准库实现，供传输层做白名单绑定和
// 通配定位器展开。
func Module() fx.Option {
	return fx.Module("netif",
		fx.Provide(
			fx.Annotate(
				NewFinder,
				fx.As(new(netifif.Provider)),
			),
		),
	)
}
