// Package event 事件总线实现
//
// 📒 **进程内事件分发**
// 账户部署、元交易执行、角色授予等领域事件经由总线广播，
// API层与日志订阅者据此观察引擎行为。
package event

import (
	"fmt"
	"sync"

	"github.com/asaskevich/EventBus"

	eventiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/event"
	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
)

// Bus 基于 asaskevich/EventBus 的事件总线
type Bus struct {
	bus    EventBus.Bus
	logger logiface.Logger

	mu       sync.Mutex
	handlers map[string][]registeredHandler
	closed   bool
}

type registeredHandler struct {
	handler eventiface.Handler
	wrapped func(payload interface{})
}

var _ eventiface.Bus = (*Bus)(nil)

// NewBus 创建事件总线
func NewBus(logger logiface.Logger) *Bus {
	return &Bus{
		bus:      EventBus.New(),
		logger:   logger,
		handlers: make(map[string][]registeredHandler),
	}
}

// Publish 发布事件（异步订阅者自行消费）
func (b *Bus) Publish(topic string, payload interface{}) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return
	}

	b.logger.Debugf("publish event, topic=%s", topic)
	b.bus.Publish(topic, payload)
}

// Subscribe 订阅主题
func (b *Bus) Subscribe(topic string, handler eventiface.Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("event bus closed")
	}

	wrapped := func(payload interface{}) {
		handler(topic, payload)
	}
	if err := b.bus.Subscribe(topic, wrapped); err != nil {
		return fmt.Errorf("subscribe topic %s: %w", topic, err)
	}

	b.handlers[topic] = append(b.handlers[topic], registeredHandler{
		handler: handler,
		wrapped: wrapped,
	})
	return nil
}

// Unsubscribe 取消订阅（按handler地址匹配第一条登记）
func (b *Bus) Unsubscribe(topic string, handler eventiface.Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	registered := b.handlers[topic]
	for i, entry := range registered {
		if fmt.Sprintf("%p", entry.handler) == fmt.Sprintf("%p", handler) {
			if err := b.bus.Unsubscribe(topic, entry.wrapped); err != nil {
				return fmt.Errorf("unsubscribe topic %s: %w", topic, err)
			}
			b.handlers[topic] = append(registered[:i], registered[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("handler not subscribed to topic %s", topic)
}

// Close 关闭总线并注销全部订阅
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	for topic, registered := range b.handlers {
		for _, entry := range registered {
			_ = b.bus.Unsubscribe(topic, entry.wrapped)
		}
	}
	b.handlers = make(map[string][]registeredHandler)
	return nil
}
