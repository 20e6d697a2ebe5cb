package rtnet

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-rtnet/config"
)

// nodeConfig 节点装配配置
type nodeConfig struct {
	config        *config.Config
	userFxOptions []fx.Option
}

func defaultNodeConfig() *nodeConfig {
	return &nodeConfig{
		config: config.NewConfig(),
	}
}

// Option 节点选项
type Option func(*nodeConfig)

// WithConfig 使用指定的统一配置
func WithConfig(cfg *config.Config) Option {
	return func(nc *nodeConfig) {
		if cfg != nil {
			nc.config = cfg
		}
	}
}

// WithFxOption 追加用户自定义 fx 选项（扩展点）
func WithFxOption(opts ...fx.Option) Option {
	return func(nc *nodeConfig) {
		nc.userFxOptions = append(nc.userFxOptions, opts...)
	}
}
