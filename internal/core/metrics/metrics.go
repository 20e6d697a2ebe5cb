// Package metrics 提供传输层指标
//
// 基于 prometheus 计数器统计各传输绑定的数据报、字节与错误数量。
// 所有记录方法都允许 nil 接收者，传输在无指标环境（如单测）下可直接传 nil。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// TransportMetrics 传输层指标集合
//
// 按定位器类型（kind 标签）区分各传输绑定。
type TransportMetrics struct {
	datagramsSent     *prometheus.CounterVec
	datagramsReceived *prometheus.CounterVec
	bytesSent         *prometheus.CounterVec
	bytesReceived     *prometheus.CounterVec
	sendErrors        *prometheus.CounterVec
	receiveErrors     *prometheus.CounterVec
	bindErrors        *prometheus.CounterVec
}

// NewTransportMetrics 创建并注册传输层指标
func NewTransportMetrics(reg prometheus.Registerer) *TransportMetrics {
	m := &TransportMetrics{
		datagramsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtnet_transport_datagrams_sent_total",
			Help: "Number of datagrams successfully written per transport kind.",
		}, []string{"kind"}),
		datagramsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtnet_transport_datagrams_received_total",
			Help: "Number of datagrams received per transport kind.",
		}, []string{"kind"}),
		bytesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtnet_transport_bytes_sent_total",
			Help: "Bytes successfully written per transport kind.",
		}, []string{"kind"}),
		bytesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtnet_transport_bytes_received_total",
			Help: "Bytes received per transport kind.",
		}, []string{"kind"}),
		sendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtnet_transport_send_errors_total",
			Help: "Per-socket write failures per transport kind.",
		}, []string{"kind"}),
		receiveErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtnet_transport_receive_errors_total",
			Help: "Receive completions delivered as failure per transport kind.",
		}, []string{"kind"}),
		bindErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtnet_transport_bind_errors_total",
			Help: "Socket open/bind failures per transport kind.",
		}, []string{"kind"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.datagramsSent, m.datagramsReceived,
			m.bytesSent, m.bytesReceived,
			m.sendErrors, m.receiveErrors, m.bindErrors,
		)
	}

	return m
}

// RecordSend 记录一次成功写出
func (m *TransportMetrics) RecordSend(kind string, bytes int) {
	if m == nil {
		return
	}
	m.datagramsSent.WithLabelValues(kind).Inc()
	m.bytesSent.WithLabelValues(kind).Add(float64(bytes))
}

// RecordSendError 记录一次 socket 写失败
func (m *TransportMetrics) RecordSendError(kind string) {
	if m == nil {
		return
	}
	m.sendErrors.WithLabelValues(kind).Inc()
}

// RecordReceive 记录一次成功接收
func (m *TransportMetrics) RecordReceive(kind string, bytes int) {
	if m == nil {
		return
	}
	m.datagramsReceived.WithLabelValues(kind).Inc()
	m.bytesReceived.WithLabelValues(kind).Add(float64(bytes))
}

// RecordReceiveError 记录一次失败的接收完成（含取消）
func (m *TransportMetrics) RecordReceiveError(kind string) {
	if m == nil {
		return
	}
	m.receiveErrors.WithLabelValues(kind).Inc()
}

// RecordBindError 记录一次绑定失败
func (m *TransportMetrics) RecordBindError(kind string) {
	if m == nil {
		return
	}
	m.bindErrors.WithLabelValues(kind).Inc()
}
