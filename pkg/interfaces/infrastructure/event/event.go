// Package event 提供PXK系统的事件总线接口定义
//
// 📢 **领域事件总线 (Domain Event Bus)**
//
// 账户引擎在部署、角色变更、元交易执行等关键节点发布领域事件，
// API层与外部观察者通过订阅获得通知。事件是旁路信号：
// 发布失败不影响业务结果，核心状态机不依赖事件送达。
package event

// Handler 事件处理回调
type Handler func(topic string, payload interface{})

// Bus 事件总线接口
type Bus interface {
	// Publish 发布一个主题事件（异步投递）
	Publish(topic string, payload interface{})

	// Subscribe 订阅主题，返回错误表示回调注册失败
	Subscribe(topic string, handler Handler) error

	// Unsubscribe 取消订阅
	Unsubscribe(topic string, handler Handler) error

	// Close 关闭总线，等待在途事件投递完成
	Close() error
}
