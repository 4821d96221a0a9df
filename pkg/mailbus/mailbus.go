// Package mailbus dispatches outbound mail through RabbitMQ. The API
// process publishes messages to a durable queue; a delivery worker (or the
// in-process dev consumer) drains it and talks to the actual mail provider.
package mailbus

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

const mailQueue = "mail_queue"

// Message is one piece of outbound mail.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL  string
	From string
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	from    string
}

// NewClient connects to RabbitMQ, opens a channel and declares the durable
// mail queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		mailQueue, // name
		true,      // durable (persists messages across broker restarts)
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", mailQueue, err)
	}

	log.Printf("mailbus connected, %s declared", mailQueue)

	return &Client{
		conn:    conn,
		channel: ch,
		from:    cfg.From,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during mailbus close: %v", errs)
	}
	return nil
}

// Send publishes one mail message to the queue as persistent JSON. An error
// here must fail the calling request; mail that never reached the broker is
// mail that will never be delivered.
func (c *Client) Send(to, subject, body string) error {
	if c.channel == nil {
		return fmt.Errorf("mailbus channel is not available")
	}

	payload, err := json.Marshal(Message{To: to, Subject: subject, Body: body})
	if err != nil {
		return fmt.Errorf("failed to marshal mail message: %w", err)
	}

	err = c.channel.Publish(
		"",        // exchange: default exchange
		mailQueue, // routing key: the queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ReplyTo:      c.from,
		})
	if err != nil {
		return fmt.Errorf("failed to publish mail message: %w", err)
	}

	log.Printf(" [x] queued mail to %s: %s", to, subject)
	return nil
}

// SendConfirmationCode formats and queues the signup confirmation mail.
func (c *Client) SendConfirmationCode(to, username, code string) error {
	subject := "Your confirmation code"
	body := fmt.Sprintf("Hello %s,\n\nYour confirmation code is: %s\n", username, code)
	return c.Send(to, subject, body)
}

// Consume drains the mail queue, invoking handler per message with manual
// acknowledgement. Failed messages are requeued.
func (c *Client) Consume(handler func(msg Message) error) error {
	if c.channel == nil {
		return fmt.Errorf("mailbus channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		mailQueue, // queue
		"",        // consumer tag
		false,     // auto-ack: set to false to manually acknowledge
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("failed to register mail consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			var msg Message
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("Dropping undecodable mail message %d: %v", d.DeliveryTag, err)
				if ackErr := d.Ack(false); ackErr != nil {
					log.Printf("Error acking message %d: %v", d.DeliveryTag, ackErr)
				}
				continue
			}
			if err := handler(msg); err != nil {
				log.Printf("Error delivering mail %d: %v", d.DeliveryTag, err)
				if nackErr := d.Nack(false, true); nackErr != nil {
					log.Printf("Error nacking message %d: %v", d.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := d.Ack(false); ackErr != nil {
				log.Printf("Error acking message %d: %v", d.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}
