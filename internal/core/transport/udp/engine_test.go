package udp

import (
	"net"
	"net/netip"
	"testing"
	"time"
)

// TestEnginePostDispatch 测试回调在调度协程上派发
func TestEnginePostDispatch(t *testing.T) {
	e := NewEngine()
	e.Start()
	defer e.Stop()

	done := make(chan struct{})
	e.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("回调未被派发")
	}
}

// TestEngineStopWithoutStart 测试从未启动的调度器 Stop 不悬挂
func TestEngineStopWithoutStart(t *testing.T) {
	e := NewEngine()

	finished := make(chan struct{})
	go func() {
		e.Stop()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop 悬挂")
	}
}

// TestEnginePostAfterStop 测试停止后的提交就地执行而不丢弃
func TestEnginePostAfterStop(t *testing.T) {
	e := NewEngine()
	e.Start()
	e.Stop()

	executed := false
	e.Post(func() { executed = true })
	if !executed {
		t.Error("停止后提交的回调应就地执行")
	}
}

// TestEngineStopIdempotent 测试 Stop 幂等
func TestEngineStopIdempotent(t *testing.T) {
	e := NewEngine()
	e.Start()
	e.Stop()
	e.Stop()
}

// TestEngineAsyncReceiveFrom 测试异步读取的完成回调
func TestEngineAsyncReceiveFrom(t *testing.T) {
	e := NewEngine()
	e.Start()
	defer e.Stop()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("绑定失败: %v", err)
	}
	defer conn.Close()

	type result struct {
		n      int
		sender netip.AddrPort
		err    error
	}
	completed := make(chan result, 1)

	buf := make([]byte, 1500)
	e.AsyncReceiveFrom(conn, buf, func(n int, sender netip.AddrPort, err error) {
		completed <- result{n, sender, err}
	})

	payload := []byte("hello")
	sender, err := net.DialUDP("udp4", nil, conn.LocalAddr().(*net.UDPAddr))
	if err != nil {
		t.Fatalf("连接失败: %v", err)
	}
	defer sender.Close()
	if _, err := sender.Write(payload); err != nil {
		t.Fatalf("发送失败: %v", err)
	}

	select {
	case r := <-completed:
		if r.err != nil {
			t.Fatalf("接收完成携带错误: %v", r.err)
		}
		if r.n != len(payload) {
			t.Errorf("接收字节数 = %d, 期望 %d", r.n, len(payload))
		}
		if !r.sender.IsValid() {
			t.Error("发送方地址无效")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("接收完成回调未触发")
	}
}

// TestEngineAsyncReceiveCancelledByClose 测试关闭 socket 使未决读取以失败完成
func TestEngineAsyncReceiveCancelledByClose(t *testing.T) {
	e := NewEngine()
	e.Start()
	defer e.Stop()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("绑定失败: %v", err)
	}

	completed := make(chan error, 1)
	e.AsyncReceiveFrom(conn, make([]byte, 1500), func(_ int, _ netip.AddrPort, err error) {
		completed <- err
	})

	conn.Close()

	select {
	case err := <-completed:
		if err == nil {
			t.Error("关闭 socket 后的完成应携带错误")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("关闭 socket 未解除未决读取的阻塞")
	}
}
