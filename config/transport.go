package config

import (
	"errors"

	transportif "github.com/dep2p/go-rtnet/pkg/interfaces/transport"
)

// TransportConfig 传输层配置
type TransportConfig struct {
	// EnableUDPv6 启用 UDPv6 绑定
	EnableUDPv6 bool `json:"enable_udpv6"`

	// EnableUDPv4 启用 UDPv4 绑定
	EnableUDPv4 bool `json:"enable_udpv4"`

	// UDPv6 UDPv6 传输描述符
	UDPv6 UDPSection `json:"udpv6"`

	// UDPv4 UDPv4 传输描述符
	UDPv4 UDPSection `json:"udpv4"`
}

// UDPSection 单个 UDP 绑定的描述符
type UDPSection struct {
	// MaxMessageSize 最大消息大小（字节）
	MaxMessageSize uint32 `json:"max_message_size"`

	// SendBufferSize 发送缓冲区大小（字节）
	SendBufferSize uint32 `json:"send_buffer_size"`

	// ReceiveBufferSize 接收缓冲区大小（字节）
	ReceiveBufferSize uint32 `json:"receive_buffer_size"`

	// GranularMode 细粒度输出通道策略
	GranularMode bool `json:"granular_mode"`

	// InterfaceWhitelist 允许绑定的本地接口地址
	InterfaceWhitelist []string `json:"interface_whitelist,omitempty"`
}

// NewTransportConfig 创建默认传输配置
func NewTransportConfig() TransportConfig {
	section := UDPSection{
		MaxMessageSize:    transportif.MaximumMessageSize,
		SendBufferSize:    transportif.MaximumUDPSocketSize,
		ReceiveBufferSize: transportif.MaximumUDPSocketSize,
		GranularMode:      false,
	}
	return TransportConfig{
		EnableUDPv6: true,
		EnableUDPv4: true,
		UDPv6:       section,
		UDPv4:       section,
	}
}

// ToUDPConfig 转换为传输层描述符
func (s UDPSection) ToUDPConfig() transportif.UDPConfig {
	return transportif.UDPConfig{
		MaxMessageSize:    s.MaxMessageSize,
		SendBufferSize:    s.SendBufferSize,
		ReceiveBufferSize: s.ReceiveBufferSize,
		GranularMode:      s.GranularMode,
		InterfaceWhitelist: append([]string(nil), s.InterfaceWhitelist...),
	}
}

// 传输配置错误
var (
	// ErrNoTransportEnabled 至少要启用一个绑定
	ErrNoTransportEnabled = errors.New("at least one transport binding must be enabled")

	// ErrMessageSizeOverCap 消息大小超过硬上限
	ErrMessageSizeOverCap = errors.New("max_message_size exceeds hard cap")

	// ErrMessageSizeOverBuffer 消息大小超过缓冲区
	ErrMessageSizeOverBuffer = errors.New("max_message_size exceeds buffer size")
)

// Validate 校验传输配置
//
// 复刻传输绑定 Init 时的不变式：maxMessageSize 不超过硬上限，
// 也不超过两个缓冲区大小。
func (t *TransportConfig) Validate() error {
	if !t.EnableUDPv6 && !t.EnableUDPv4 {
		return ErrNoTransportEnabled
	}
	if t.EnableUDPv6 {
		if err := t.UDPv6.validate(); err != nil {
			return err
		}
	}
	if t.EnableUDPv4 {
		if err := t.UDPv4.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s UDPSection) validate() error {
	if s.MaxMessageSize > transportif.MaximumMessageSize {
		return ErrMessageSizeOverCap
	}
	if s.MaxMessageSize > s.SendBufferSize || s.MaxMessageSize > s.ReceiveBufferSize {
		return ErrMessageSizeOverBuffer
	}
	return nil
}
