package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordCounters 测试各记录方法的计数
func TestRecordCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTransportMetrics(reg)

	m.RecordSend("udpv6", 100)
	m.RecordSend("udpv6", 50)
	m.RecordReceive("udpv6", 200)
	m.RecordSendError("udpv6")
	m.RecordReceiveError("udpv6")
	m.RecordBindError("udpv4")

	if got := testutil.ToFloat64(m.datagramsSent.WithLabelValues("udpv6")); got != 2 {
		t.Errorf("datagramsSent = %v, 期望 2", got)
	}
	if got := testutil.ToFloat64(m.bytesSent.WithLabelValues("udpv6")); got != 150 {
		t.Errorf("bytesSent = %v, 期望 150", got)
	}
	if got := testutil.ToFloat64(m.datagramsReceived.WithLabelValues("udpv6")); got != 1 {
		t.Errorf("datagramsReceived = %v, 期望 1", got)
	}
	if got := testutil.ToFloat64(m.bytesReceived.WithLabelValues("udpv6")); got != 200 {
		t.Errorf("bytesReceived = %v, 期望 200", got)
	}
	if got := testutil.ToFloat64(m.sendErrors.WithLabelValues("udpv6")); got != 1 {
		t.Errorf("sendErrors = %v, 期望 1", got)
	}
	if got := testutil.ToFloat64(m.receiveErrors.WithLabelValues("udpv6")); got != 1 {
		t.Errorf("receiveErrors = %v, 期望 1", got)
	}
	if got := testutil.ToFloat64(m.bindErrors.WithLabelValues("udpv4")); got != 1 {
		t.Errorf("bindErrors = %v, 期望 1", got)
	}

	// kind 标签相互隔离
	if got := testutil.ToFloat64(m.datagramsSent.WithLabelValues("udpv4")); got != 0 {
		t.Errorf("udpv4 datagramsSent = %v, 期望 0", got)
	}
}

// TestNilReceiver 测试 nil 接收者下所有记录方法安全
func TestNilReceiver(t *testing.T) {
	var m *TransportMetrics
	m.RecordSend("udpv6", 100)
	m.RecordSendError("udpv6")
	m.RecordReceive("udpv6", 100)
	m.RecordReceiveError("udpv6")
	m.RecordBindError("udpv6")
}
