// Package udp 提供 UDP 传输绑定共用的 I/O 调度器
//
// Engine 用一个后台协程串行派发全部异步 I/O 完成回调，
// 把事件驱动的底层读取桥接为调用方的同步阻塞语义：
// 调用方登记一次读取后在单次完成信号上阻塞，
// 完成回调恰好触发一次（成功、出错或取消均经由同一路径）。
package udp

import (
	"net"
	"net/netip"
	"sync"
)

// Engine I/O 调度器
//
// 生命周期归属传输实例：Init 时 Start，Close 时 Stop 并等待退出。
// Stop 之后提交的回调在提交方协程上就地执行，保证关闭路径上的
// 等待者仍会被唤醒。
type Engine struct {
	ops  chan func()
	quit chan struct{}
	done chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewEngine 创建 I/O 调度器（未启动）
func NewEngine() *Engine {
	return &Engine{
		ops:  make(chan func()),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start 启动调度协程（幂等）
func (e *Engine) Start() {
	e.startOnce.Do(func() {
		go e.run()
	})
}

// Stop 停止调度协程并等待其退出（幂等）
//
// Start 从未被调用时直接标记退出，不会悬挂。
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.quit)
	})
	e.startOnce.Do(func() {
		close(e.done)
	})
	<-e.done
}

// run 调度循环
//
// 所有完成回调都在本协程上执行。收到退出信号后不再接收新回调，
// 迟到的提交由 Post 就地执行。
func (e *Engine) run() {
	defer close(e.done)
	for {
		select {
		case fn := <-e.ops:
			fn()
		case <-e.quit:
			return
		}
	}
}

// Post 将回调提交到调度协程执行
//
// 调度器已退出时在调用方协程上就地执行，绝不丢弃回调。
func (e *Engine) Post(fn func()) {
	select {
	case e.ops <- fn:
	case <-e.done:
		fn()
	}
}

// AsyncReceiveFrom 登记一次异步数据报读取
//
// 读取在独立协程上阻塞等待（关闭 conn 会以错误完成并解除阻塞），
// 完成回调经 Post 派发，恰好执行一次。每个通道同一时刻只应有
// 一次在途读取，串行化由调用方负责。
func (e *Engine) AsyncReceiveFrom(conn *net.UDPConn, buf []byte, handler func(n int, sender netip.AddrPort, err error)) {
	go func() {
		n, sender, err := conn.ReadFromUDPAddrPort(buf)
		e.Post(func() {
			handler(n, sender, err)
		})
	}()
}
