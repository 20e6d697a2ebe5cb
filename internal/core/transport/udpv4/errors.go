// Package udpv4 实现 UDPv4 传输绑定
package udpv4

import "errors"

var (
	// ErrMaxMessageSizeTooBig 消息大小超过硬上限
	ErrMaxMessageSizeTooBig = errors.New("maxMessageSize cannot be greater than 65500")

	// ErrMaxMessageSizeOverSendBuffer 消息大小超过发送缓冲区
	ErrMaxMessageSizeOverSendBuffer = errors.New("maxMessageSize cannot be greater than sendBufferSize")

	// ErrMaxMessageSizeOverReceiveBuffer 消息大小超过接收缓冲区
	ErrMaxMessageSizeOverReceiveBuffer = errors.New("maxMessageSize cannot be greater than receiveBufferSize")

	// ErrBadWhitelistEntry 白名单条目不是合法的 IPv4 字面地址
	ErrBadWhitelistEntry = errors.New("interface whitelist entry is not a valid IPv4 address")
)
