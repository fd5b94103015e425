package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/litterbugs/internal/core/domain"
)

const achieverDurable = "achiever"

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS and makes sure the streams exist.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := ensureStreams(js); err != nil {
		conn.Close()
		return nil, err
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeRoutePublished delivers route publications to handler through a
// durable consumer. Messages are acked on success and redelivered up to
// three times otherwise.
func (s *Subscriber) SubscribeRoutePublished(ctx context.Context, handler func(ctx context.Context, event *domain.RoutePublished) error) error {
	sub, err := s.js.Subscribe(SubjectRoutePublished, func(msg *nats.Msg) {
		if err := handleRoutePublished(ctx, msg.Data, handler); err != nil {
			slog.Warn("route published handler failed", "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(achieverDurable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

func handleRoutePublished(ctx context.Context, data []byte, handler func(ctx context.Context, event *domain.RoutePublished) error) error {
	var event domain.RoutePublished
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("decode route published: %w", err)
	}
	if event.UserID == "" || event.RouteID == "" {
		return fmt.Errorf("route published event missing ids")
	}
	return handler(ctx, &event)
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
