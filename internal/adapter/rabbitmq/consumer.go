package rabbitmq

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type consumer struct {
	conn     Connection
	prefetch int
}

func NewConsumer(conn Connection, prefetch int) interfaces.MutationConsumer {
	return &consumer{conn: conn, prefetch: prefetch}
}

// ConsumeMutations delivers mutation messages to handler until ctx is
// cancelled, reconnecting after broker failures. Handler errors send
// the message to the DLQ; a failed upload is retried by the next
// trigger, not by redelivery.
func (c *consumer) ConsumeMutations(ctx context.Context, handler interfaces.MutationHandler) error {
	for {
		err := c.consumeWithReconnect(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			return nil
		}

		log.Printf("Mutations consumer disconnected: %v. Reconnecting in 5 seconds...", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			if rerr := c.conn.Reconnect(); rerr != nil {
				log.Printf("Reconnect failed: %v", rerr)
			}
		}
	}
}

func (c *consumer) consumeWithReconnect(ctx context.Context, handler interfaces.MutationHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := c.prefetchLimit(ch); err != nil {
		return err
	}

	if err := c.setupMutationsInfrastructure(ch); err != nil {
		return err
	}

	msgs, err := ch.Consume("sync_queue", "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			if err := handler(ctx, msg.Body); err != nil {
				// requeue=false routes to the DLQ
				msg.Nack(false, false)
			} else {
				msg.Ack(false)
			}
		}
	}
}

func (c *consumer) prefetchLimit(ch Channel) error {
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	return nil
}

func (c *consumer) setupMutationsInfrastructure(ch Channel) error {
	// Declare main exchange
	if err := ch.ExchangeDeclare("mutations_topic", "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare mutations exchange: %w", err)
	}

	// Declare DLQ exchange
	dlqExchange := "mutations_dlq"
	if err := ch.ExchangeDeclare(dlqExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ exchange: %w", err)
	}

	// Declare DLQ queue
	dlqQueue := "sync_queue_dlq"
	if _, err := ch.QueueDeclare(dlqQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	// Bind DLQ
	if err := ch.QueueBind(dlqQueue, "#", dlqExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}

	// Declare main queue with DLQ binding
	args := amqp.Table{
		"x-dead-letter-exchange": dlqExchange,
	}

	q, err := ch.QueueDeclare("sync_queue", true, false, false, false, args)
	if err != nil {
		return fmt.Errorf("failed to declare sync queue: %w", err)
	}

	// Bind main queue
	if err := ch.QueueBind(q.Name, "mutation.#", "mutations_topic", false, nil); err != nil {
		return fmt.Errorf("failed to bind sync queue: %w", err)
	}

	return nil
}
