package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const retryHeader = "x-retry-count"

// AMQPQueue publishes JSON messages to a single durable queue. The topic travels in the AMQP type field.
type AMQPQueue struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   *zap.Logger

	mu sync.Mutex // amqp.Channel is not safe for concurrent publishing
	wg sync.WaitGroup

	MaxRetries int
}

// DialAMQP connects to the broker and declares the queue.
func DialAMQP(url, queueName string, log *zap.Logger) (*AMQPQueue, error) {
	if log == nil {
		log = zap.NewNop()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	log.Info("✅ Connected to RabbitMQ", zap.String("queue", queueName))
	return &AMQPQueue{conn: conn, ch: ch, queue: queueName, log: log, MaxRetries: 3}, nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", topic, err)
	}
	return q.publish(topic, body, 0)
}

func (q *AMQPQueue) publish(topic string, body []byte, retries int) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         topic,
		Timestamp:    time.Now().UTC(),
		Body:         body,
		Headers:      amqp.Table{retryHeader: int32(retries)},
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.ch.Publish("", q.queue, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe consumes the queue and hands decoded LifecycleEvents for topic to handler.
// A failed delivery is republished with an incremented retry header until MaxRetries.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	msgs, err := q.ch.Consume(
		q.queue,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for d := range msgs {
			q.handleDelivery(topic, d, handler)
		}
	}()
	return nil
}

func (q *AMQPQueue) handleDelivery(topic string, d amqp.Delivery, handler func(payload any) error) {
	if d.Type != "" && d.Type != topic {
		q.log.Debug("Ignoring message for other topic", zap.String("type", d.Type))
		_ = d.Ack(false)
		return
	}

	event, err := DecodeEvent(d.Body)
	if err != nil {
		q.log.Warn("⚠️ Invalid lifecycle message", zap.Error(err))
		_ = d.Ack(false)
		return
	}

	if err := handler(event); err != nil {
		retries := RetryCount(d.Headers)
		if retries < q.MaxRetries {
			if perr := q.publish(topic, d.Body, retries+1); perr != nil {
				q.log.Error("❌ Failed to requeue message", zap.Error(perr))
				_ = d.Nack(false, true)
				return
			}
		} else {
			q.log.Error("❌ Message permanently failed",
				zap.String("campaign_id", event.CampaignID),
				zap.Int("attempts", retries+1),
				zap.Error(err))
		}
	}
	_ = d.Ack(false)
}

// Close closes the channel and connection, then waits for the consumer loop to drain.
func (q *AMQPQueue) Close() error {
	chErr := q.ch.Close()
	connErr := q.conn.Close()
	q.wg.Wait()
	if chErr != nil {
		return chErr
	}
	return connErr
}

// DecodeEvent parses a lifecycle message body.
func DecodeEvent(body []byte) (LifecycleEvent, error) {
	var event LifecycleEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return LifecycleEvent{}, fmt.Errorf("decode lifecycle event: %w", err)
	}
	if event.Type == "" {
		return LifecycleEvent{}, fmt.Errorf("decode lifecycle event: missing type")
	}
	return event, nil
}

// RetryCount reads the retry header regardless of the integer width the broker hands back.
func RetryCount(headers amqp.Table) int {
	switch v := headers[retryHeader].(type) {
	case int:
		return v
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	}
	return 0
}

var _ Queue = (*AMQPQueue)(nil)
