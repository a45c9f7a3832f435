package rabbitmq

import (
	"errors"
	"fmt"
	"io"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Topology names the queue charge records are consumed from and the exchanges
// they are published to.
type Topology struct {
	Queue             string
	DispatchExchange  string
	BroadcastExchange string
}

// Client owns one connection with separate channels for consuming and publishing.
type Client struct {
	conn    *amqp.Connection
	consume *amqp.Channel
	publish *amqp.Channel
}

func NewClient(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	consume, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open consume channel: %w", err)
	}

	publish, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open publish channel: %w", err)
	}

	return &Client{
		conn:    conn,
		consume: consume,
		publish: publish,
	}, nil
}

// Declare creates the durable queue, the direct dispatch exchange and the
// fanout broadcast exchange. Declaring existing entities is a no-op.
func (c *Client) Declare(t Topology) error {
	if _, err := c.consume.QueueDeclare(
		t.Queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	); err != nil {
		return fmt.Errorf("declare queue %q: %w", t.Queue, err)
	}

	if err := c.publish.ExchangeDeclare(t.DispatchExchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %q: %w", t.DispatchExchange, err)
	}

	if err := c.publish.ExchangeDeclare(t.BroadcastExchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %q: %w", t.BroadcastExchange, err)
	}

	return nil
}

// Deliveries starts consuming queue with manual acknowledgement. prefetch
// bounds the unacknowledged deliveries held by this consumer.
func (c *Client) Deliveries(queue string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.consume.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	msgs, err := c.consume.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume %q: %w", queue, err)
	}
	return msgs, nil
}

// PublishChannel exposes the channel messengers publish on.
func (c *Client) PublishChannel() *amqp.Channel {
	return c.publish
}

// Close closes both channels and the connection, even when an earlier close
// fails, and reports every failure.
func (c *Client) Close() error {
	return closeAll(c.consume, c.publish, c.conn)
}

func closeAll(closers ...io.Closer) error {
	var errs []error
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
