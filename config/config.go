// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Transport.UDPv6.GranularMode = true
//	if err := cfg.Validate(); err != nil { ... }
package config

import (
	"encoding/json"
	"fmt"
)

// Config 是 go-rtnet 的完整配置结构
//
// 按功能模块组织：
//   - Transport: 传输绑定（UDPv6/UDPv4 描述符）
//   - Log: 日志输出
type Config struct {
	// Transport 传输层配置
	Transport TransportConfig `json:"transport"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug/info/warn/error
	Level string `json:"level"`

	// Format 输出格式：text 或 json
	Format string `json:"format"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Transport: NewTransportConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate 校验整体配置
//
// 配置违例在启动前报告，不会延迟到运行期。
func (c *Config) Validate() error {
	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	return nil
}

// FromJSON 从 JSON 数据加载配置
//
// 以默认配置为基底，JSON 中出现的字段覆盖默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ToJSON 序列化配置
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
