package udpv6

import (
	"net/netip"

	"github.com/dep2p/go-rtnet/pkg/types"
)

// Send 在 localLocator 的输出通道上向 remoteLocator 同步发送数据报
//
// 写出直接发生在调用方协程上，不经过 I/O 调度器。共享模式下对
// 通道内全部 socket 扇出：单个 socket 的失败只记日志，不中断
// 其余写出，任一成功即整体成功。
func (t *Transport) Send(buf []byte, localLocator, remoteLocator types.Locator) bool {
	t.outputMu.Lock()
	defer t.outputMu.Unlock()

	if !t.isOutputChannelOpenLocked(localLocator) || uint32(len(buf)) > t.cfg.SendBufferSize {
		return false
	}

	success := false

	if t.cfg.GranularMode {
		success = t.sendThroughSocket(buf, remoteLocator, t.granularSockets[localLocator])
	} else {
		for _, sock := range t.outputSockets[localLocator.Port] {
			success = t.sendThroughSocket(buf, remoteLocator, sock) || success
		}
	}

	return success
}

// sendThroughSocket 在单个 socket 上写出一个数据报
func (t *Transport) sendThroughSocket(buf []byte, remoteLocator types.Locator, sock *outputSocket) bool {
	dst := netip.AddrPortFrom(remoteLocator.AddrV6(), uint16(remoteLocator.Port))

	n, err := sock.conn.WriteToUDPAddrPort(buf, dst)
	if err != nil {
		logger.Warn("UDPv6 发送失败", "to", dst, "error", err)
		t.metrics.RecordSendError(kindLabel)
		return false
	}

	logger.Debug("UDPv6 已发送", "bytes", n, "to", dst, "from", sock.conn.LocalAddr())
	t.metrics.RecordSend(kindLabel, n)
	return true
}

// Receive 在 localLocator 的输入通道上阻塞接收一个数据报
//
// 登记恰好一次异步读取，然后在单次完成信号上阻塞；完成回调由
// I/O 调度协程派发，成功与失败（含通道被并发关闭导致的取消）
// 走同一条完成路径。成功时返回字节数和发送方定位器。
func (t *Transport) Receive(buf []byte, localLocator types.Locator) (int, types.Locator, bool) {
	if uint32(len(buf)) < t.cfg.ReceiveBufferSize {
		return 0, types.Locator{}, false
	}

	var (
		received int
		sender   netip.AddrPort
		success  bool
		done     = make(chan struct{})
	)

	handler := func(n int, from netip.AddrPort, err error) {
		if err != nil {
			logger.Info("UDPv6 接收被中断", "port", localLocator.Port, "error", err)
			t.metrics.RecordReceiveError(kindLabel)
			received = 0
		} else {
			received = n
			sender = from
			success = true
		}
		close(done)
	}

	t.inputMu.Lock()
	if !t.isInputChannelOpenLocked(localLocator) {
		t.inputMu.Unlock()
		return 0, types.Locator{}, false
	}
	sock := t.inputSockets[localLocator.Port]
	t.engine.AsyncReceiveFrom(sock.conn, buf, handler)
	t.inputMu.Unlock()

	<-done

	if !success {
		return 0, types.Locator{}, false
	}

	t.metrics.RecordReceive(kindLabel, received)
	return received, types.LocatorFromAddrPort(types.LocatorKindUDPv6, sender), true
}
