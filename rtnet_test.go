package rtnet

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/go-rtnet/config"
	"github.com/dep2p/go-rtnet/pkg/types"
)

// TestNewAndClose 测试节点的完整启动与停止
func TestNewAndClose(t *testing.T) {
	node, err := New()
	require.NoError(t, err)

	assert.NotEmpty(t, node.ID())
	assert.NotNil(t, node.MetricsRegistry())

	registry := node.Transports()
	require.NotNil(t, registry)
	assert.Len(t, registry.Kinds(), 2)
	assert.NotNil(t, registry.TransportForKind(types.LocatorKindUDPv6))
	assert.NotNil(t, registry.TransportForKind(types.LocatorKindUDPv4))

	require.NoError(t, node.Close())
}

// TestNewWithConfig 测试按配置裁剪绑定
func TestNewWithConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Transport.EnableUDPv4 = false

	node, err := New(WithConfig(cfg))
	require.NoError(t, err)
	defer node.Close()

	registry := node.Transports()
	assert.NotNil(t, registry.TransportForKind(types.LocatorKindUDPv6))
	assert.Nil(t, registry.TransportForKind(types.LocatorKindUDPv4))
}

// TestNewInvalidConfig 测试配置校验失败不启动节点
func TestNewInvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Transport.EnableUDPv6 = false
	cfg.Transport.EnableUDPv4 = false

	_, err := New(WithConfig(cfg))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrNoTransportEnabled)
}

// TestWithFxOption 测试用户 fx 扩展点
func TestWithFxOption(t *testing.T) {
	invoked := false
	node, err := New(WithFxOption(fx.Invoke(func() { invoked = true })))
	require.NoError(t, err)
	defer node.Close()

	assert.True(t, invoked)
}

// TestNodeSendReceive 测试经由节点注册表的端到端收发
func TestNodeSendReceive(t *testing.T) {
	node, err := New()
	require.NoError(t, err)
	defer node.Close()

	tr := node.Transports().TransportForKind(types.LocatorKindUDPv4)
	require.NotNil(t, tr)

	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	port := uint32(pc.LocalAddr().(*net.UDPAddr).Port)
	pc.Close()

	in := types.NewLocator(types.LocatorKindUDPv4, port)
	out := types.NewLocator(types.LocatorKindUDPv4, 0)
	require.True(t, tr.OpenInputChannel(in))
	require.True(t, tr.OpenOutputChannel(out))

	payload := []byte("node e2e payload")

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 65536)
		n, sender, ok := tr.Receive(buf, in)
		assert.True(t, ok)
		assert.Equal(t, len(payload), n)
		assert.Equal(t, types.LocatorKindUDPv4, sender.Kind)
	}()

	loopback := types.NewLocator(types.LocatorKindUDPv4, in.Port)
	loopback.Address[12] = 127
	loopback.Address[15] = 1
	require.True(t, tr.Send(payload, out, loopback))

	<-done
}
