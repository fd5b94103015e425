package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/litterbugs/internal/adapters/nats"
	"github.com/samirrijal/litterbugs/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "routes" | "badges"
	UserID  string `json:"user_id"` // badges only, "" = everyone
}

// wsSubject maps a client request onto a NATS subject.
func wsSubject(m wsMessage) (string, bool) {
	switch m.Channel {
	case "", "routes":
		return natsadapter.SubjectRoutePublished, true
	case "badges":
		if m.UserID != "" {
			return natsadapter.BadgeSubject(m.UserID), true
		}
		return natsadapter.SubjectBadgesAll, true
	default:
		return "", false
	}
}

// wsSubscription is an open feed, a *nats.Subscription in production.
type wsSubscription interface {
	Unsubscribe() error
}

// wsSubscriptions holds one client's feeds by subject.
type wsSubscriptions map[string]wsSubscription

// closeAll unsubscribes every feed.
func (s wsSubscriptions) closeAll() {
	for subject, sub := range s {
		_ = sub.Unsubscribe()
		delete(s, subject)
	}
}

// subscribeAll opens each subject in order. When one fails the feeds opened
// so far are closed again.
func (s wsSubscriptions) subscribeAll(subjects []string, subscribe func(string) (wsSubscription, error)) error {
	for _, subject := range subjects {
		sub, err := subscribe(subject)
		if err != nil {
			s.closeAll()
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
		s[subject] = sub
	}
	return nil
}

// WebSocketHandler relays community events from NATS to connected clients.
// Every client gets newly published routes; a client connected with an
// identity also gets its own badge awards. Further feeds are requested with
// {"action":"subscribe","channel":"badges","user_id":"..."}.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		uid, _ := c.Locals(userIDLocal).(string)
		logger := slog.Default().With("remote_addr", remoteAddr)
		logger.Info("ws client connected", "user_id", uid)

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		subs := wsSubscriptions{}
		defer subs.closeAll()

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		subscribe := func(subject string) (wsSubscription, error) {
			s, err := nc.Subscribe(subject, func(msg *nats.Msg) {
				_ = writeJSON(json.RawMessage(msg.Data))
			})
			if err != nil {
				return nil, err
			}
			return s, nil
		}

		defaults := []string{natsadapter.SubjectRoutePublished}
		if uid != "" {
			defaults = append(defaults, natsadapter.BadgeSubject(uid))
		}
		if err := subs.subscribeAll(defaults, subscribe); err != nil {
			logger.Error("ws default subscribe failed", "error", err)
			return
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			subject, ok := wsSubject(m)
			if !ok {
				_ = writeJSON(map[string]string{"error": "unknown channel: " + m.Channel})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				sub, err := subscribe(subject)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				subs[subject] = sub
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		logger.Info("ws client disconnected")
	}
}
