package rtnet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-rtnet/config"
	transportif "github.com/dep2p/go-rtnet/pkg/interfaces/transport"
	"github.com/dep2p/go-rtnet/pkg/lib/log"
)

var logger = log.Logger("rtnet")

// 启动/停止的默认超时
const lifecycleTimeout = 15 * time.Second

// Node 传输层节点
//
// 持有 fx 应用和传输注册表。Close 保证在任何路径上停止并等待
// 全部后台 I/O 调度协程退出。
type Node struct {
	id       string
	app      *fx.App
	registry transportif.Registry
	metrics  *prometheus.Registry
}

// New 创建并启动传输层节点
//
// 配置校验失败在这里返回，不会启动任何后台协程。
func New(opts ...Option) (*Node, error) {
	cfg := defaultNodeConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	applyLogConfig(cfg.config.Log)

	node := &Node{id: uuid.NewString()}
	app := buildFxApp(cfg, node)
	node.app = app

	startCtx, cancel := context.WithTimeout(context.Background(), lifecycleTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return nil, fmt.Errorf("start node: %w", err)
	}

	logger.Info("节点已启动", "id", node.id)
	return node, nil
}

// applyLogConfig 按配置设置默认 logger 的级别和输出格式
func applyLogConfig(lc config.LogConfig) {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		log.SetDefault(log.NewJSON(os.Stderr, opts))
		return
	}
	log.SetDefault(log.New(os.Stderr, opts))
}

// ID 返回节点实例标识
func (n *Node) ID() string {
	return n.id
}

// Transports 返回传输注册表
func (n *Node) Transports() transportif.Registry {
	return n.registry
}

// MetricsRegistry 返回节点的 prometheus 注册表（供抓取接入）
func (n *Node) MetricsRegistry() *prometheus.Registry {
	return n.metrics
}

// Close 停止节点
//
// 关闭全部传输通道并等待后台 I/O 调度协程退出。
func (n *Node) Close() error {
	stopCtx, cancel := context.WithTimeout(context.Background(), lifecycleTimeout)
	defer cancel()
	if err := n.app.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop node: %w", err)
	}
	logger.Info("节点已停止", "id", n.id)
	return nil
}
