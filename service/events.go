package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"finbook/config"
	"finbook/store"
)

// EventPublisher 把存储层变更事件发布到 RabbitMQ，实现 store.Notifier
// 供外部订阅方（如同步 worker、统计面板）消费；发布失败仅记录日志，不影响存储操作
type EventPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

// eventMessage 发布到队列的消息体
type eventMessage struct {
	store.Event
	Timestamp time.Time `json:"timestamp"`
}

// NewEventPublisher 连接 RabbitMQ 并声明持久化的 exchange 和队列
func NewEventPublisher(cfg *config.AMQPConfig) (*EventPublisher, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("连接 AMQP 失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开 channel 失败: %w", err)
	}

	p := &EventPublisher{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
	}

	if err := p.setup(); err != nil {
		p.Close()
		return nil, fmt.Errorf("声明 exchange 和队列失败: %w", err)
	}

	return p, nil
}

func (p *EventPublisher) setup() error {
	if err := p.channel.ExchangeDeclare(
		p.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	); err != nil {
		return fmt.Errorf("声明 exchange 失败: %w", err)
	}

	if _, err := p.channel.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	); err != nil {
		return fmt.Errorf("声明队列失败: %w", err)
	}

	if err := p.channel.QueueBind(
		p.queue,    // queue name
		p.queue,    // routing key
		p.exchange, // exchange
		false,
		nil,
	); err != nil {
		return fmt.Errorf("绑定队列失败: %w", err)
	}

	return nil
}

// Notify 实现 store.Notifier，发布一条变更事件
func (p *EventPublisher) Notify(ev store.Event) {
	body, err := json.Marshal(eventMessage{Event: ev, Timestamp: time.Now()})
	if err != nil {
		log.Printf("编码变更事件失败: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		p.queue,    // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	); err != nil {
		log.Printf("发布变更事件失败 [%s/%s]: %v", ev.Entity, ev.Action, err)
	}
}

// Close 关闭 channel 和连接
func (p *EventPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
