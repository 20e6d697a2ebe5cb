package udpv6

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"syscall"

	"golang.org/x/net/ipv6"
	"golang.org/x/sys/unix"
)

// outputSocket 输出通道成员 socket
type outputSocket struct {
	conn *net.UDPConn
}

// inputSocket 输入通道 socket
//
// pconn 用于组播相关的 socket 选项（回环、加组）。
type inputSocket struct {
	conn  *net.UDPConn
	pconn *ipv6.PacketConn
}

// reuseAddr 在绑定前开启 SO_REUSEADDR
func reuseAddr(_, _ string, c syscall.RawConn) error {
	var serr error
	if err := c.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	}); err != nil {
		return err
	}
	return serr
}

// openAndBindUnicastOutputSocket 打开并绑定一个单播输出 socket
//
// 设置发送缓冲区后绑定到 (address, port)。任何一步失败都返回错误，
// 由调用方翻译为布尔失败并回滚注册项。
func (t *Transport) openAndBindUnicastOutputSocket(addr netip.Addr, port uint32) (*outputSocket, error) {
	conn, err := net.ListenUDP("udp6", &net.UDPAddr{
		IP:   addr.AsSlice(),
		Zone: addr.Zone(),
		Port: int(uint16(port)),
	})
	if err != nil {
		return nil, err
	}
	if err := conn.SetWriteBuffer(int(t.cfg.SendBufferSize)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set send buffer: %w", err)
	}
	return &outputSocket{conn: conn}, nil
}

// openAndBindInputSocket 打开并绑定一个输入 socket
//
// 绑定到通配地址，开启地址重用和组播回环，设置接收缓冲区。
func (t *Transport) openAndBindInputSocket(port uint32) (*inputSocket, error) {
	lc := net.ListenConfig{Control: reuseAddr}
	pc, err := lc.ListenPacket(context.Background(), "udp6", fmt.Sprintf("[::]:%d", uint16(port)))
	if err != nil {
		return nil, err
	}
	conn := pc.(*net.UDPConn)
	if err := conn.SetReadBuffer(int(t.cfg.ReceiveBufferSize)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set receive buffer: %w", err)
	}

	pconn := ipv6.NewPacketConn(conn)
	if err := pconn.SetMulticastLoopback(true); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable multicast loopback: %w", err)
	}

	return &inputSocket{conn: conn, pconn: pconn}, nil
}

// joinGroup 在输入 socket 上加入组播组
//
// 组成员关系在 socket 选项层面幂等，重复加入同一组不是错误来源，
// 失败只作为诊断汇报。
func (s *inputSocket) joinGroup(group netip.Addr) error {
	return s.pconn.JoinGroup(nil, &net.UDPAddr{IP: group.AsSlice()})
}
