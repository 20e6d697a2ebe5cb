// Package rtnet 是一个发布-订阅协议栈的网络传输层
//
// 核心职责是把协议层定位器（Locator）映射到真实的网络 socket：
//   - 输入/输出通道的生命周期管理（两种通道共享策略）
//   - 同步 Send/Receive 原语，供上层消息处理使用
//   - 通配定位器到本地接口地址的展开
//
// 入口是 New()，返回的 Node 通过 Transports() 暴露传输注册表。
package rtnet
