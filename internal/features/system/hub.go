package system

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Conn is the write side of a websocket subscriber. *websocket.Conn
// satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
}

// subscriber pairs a connection with its write lock. The underlying
// websocket allows only one writer at a time, and Publish is called
// from concurrent request goroutines.
type subscriber struct {
	conn Conn
	mu   sync.Mutex
}

func (s *subscriber) write(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// EventHub fans session events out to websocket subscribers. Sessions
// without subscribers drop events; the HTTP response already carries
// the snapshot, the socket is a live mirror for extra tabs.
type EventHub struct {
	mu     sync.RWMutex
	subs   map[string]map[Conn]*subscriber
	logger *zap.Logger
}

func NewEventHub(logger *zap.Logger) *EventHub {
	return &EventHub{
		subs:   make(map[string]map[Conn]*subscriber),
		logger: logger,
	}
}

func (h *EventHub) Subscribe(sessionID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[Conn]*subscriber)
	}
	h.subs[sessionID][conn] = &subscriber{conn: conn}
}

func (h *EventHub) Unsubscribe(sessionID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subs[sessionID]; ok {
		delete(subs, conn)
		if len(subs) == 0 {
			delete(h.subs, sessionID)
		}
	}
}

// Publish implements the event publisher used by the dashboard service.
func (h *EventHub) Publish(sessionID string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to marshal session event", zap.String("session_id", sessionID), zap.Error(err))
		return
	}

	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subs[sessionID]))
	for _, sub := range h.subs[sessionID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.write(payload); err != nil {
			h.logger.Debug("dropping dead subscriber", zap.String("session_id", sessionID), zap.Error(err))
			h.Unsubscribe(sessionID, sub.conn)
		}
	}
}
