// Package log 提供 go-rtnet 统一日志接口
//
// 基于 Go 标准库 log/slog 封装，提供简洁的日志 API。
// 各组件通过 log.Logger("core/xxx") 获取带组件名的 logger。
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// 默认 logger
var defaultLogger = slog.Default()

// 日志级别常量（从 slog 导出，方便使用）
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// SetDefault 设置默认 logger
func SetDefault(l *slog.Logger) {
	defaultLogger = l
	slog.SetDefault(l)
}

// Default 返回默认 logger
func Default() *slog.Logger {
	return slog.Default()
}

// New 创建新的 logger
func New(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewJSON 创建 JSON 格式的 logger
func NewJSON(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// SetOutput 设置日志输出目标
//
// 重新创建默认 logger，将输出重定向到指定的 Writer。
func SetOutput(w io.Writer) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	defaultLogger = slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(defaultLogger)
}

// ============================================================================
//                              LazyLogger
// ============================================================================

// LazyLogger 懒加载 logger
//
// 每次日志调用时都从 slog.Default() 获取最新的 handler，
// 支持在运行时动态切换日志输出目标。
//
// 使用方式：
//
//	var logger = log.Logger("core/transport")
//	logger.Info("通道已打开", "port", 7400)
type LazyLogger struct {
	component string
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	slog.Default().With("component", l.component).Debug(msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	slog.Default().With("component", l.component).Info(msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	slog.Default().With("component", l.component).Warn(msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	slog.Default().With("component", l.component).Error(msg, args...)
}

// InfoContext 带 context 的 Info 日志
func (l *LazyLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	slog.Default().With("component", l.component).InfoContext(ctx, msg, args...)
}

// WarnContext 带 context 的 Warn 日志
func (l *LazyLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	slog.Default().With("component", l.component).WarnContext(ctx, msg, args...)
}

// With 添加额外的属性
func (l *LazyLogger) With(args ...any) *slog.Logger {
	return slog.Default().With("component", l.component).With(args...)
}

// Logger 返回带组件名的 LazyLogger
//
// 返回的 LazyLogger 会在每次日志调用时使用当前的 slog.Default()。
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

// ============================================================================
//                              初始化
// ============================================================================

func init() {
	// 设置默认 logger 为带时间戳的文本格式
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, opts))
}
