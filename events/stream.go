package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/resultkit/component"
	"github.com/kbukum/resultkit/logger"
)

// KeepAliveInterval is how often an idle stream sends a comment line.
var KeepAliveInterval = 30 * time.Second

type streamClient struct {
	id      string
	pattern string
	events  chan []byte
}

// send queues data without blocking. It returns false when the client is
// too slow and the message was dropped.
func (c *streamClient) send(data []byte) bool {
	select {
	case c.events <- data:
		return true
	default:
		return false
	}
}

// Stream fans events out to Server-Sent Events clients. Each client picks a
// glob pattern over event names with the "pattern" query parameter.
type Stream struct {
	mu      sync.RWMutex
	clients map[string]*streamClient
	stopped bool
	log     *logger.Logger
}

var (
	_ Publisher           = (*Stream)(nil)
	_ component.Component = (*Stream)(nil)
)

// NewStream creates a stream with no clients.
func NewStream(log *logger.Logger) *Stream {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Stream{
		clients: make(map[string]*streamClient),
		log:     log.WithComponent("events.stream"),
	}
}

// Publish encodes e and queues it for every client whose pattern matches.
func (s *Stream) Publish(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.Name, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if ok, _ := path.Match(c.pattern, e.Name); !ok {
			continue
		}
		if !c.send(data) {
			s.log.Warn("Stream client channel full, dropping event", logger.Fields(
				"client_id", c.id,
				logger.FieldEvent, e.Name,
			))
		}
	}
	return nil
}

func (s *Stream) register(pattern string) (*streamClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, fmt.Errorf("event stream is stopped")
	}
	c := &streamClient{id: uuid.NewString(), pattern: pattern, events: make(chan []byte, 256)}
	s.clients[c.id] = c
	return c, nil
}

func (s *Stream) unregister(c *streamClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.id]; ok {
		delete(s.clients, c.id)
		close(c.events)
	}
}

// Clients returns the number of connected clients.
func (s *Stream) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Handler serves the SSE endpoint.
func (s *Stream) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		pattern := c.DefaultQuery("pattern", "*")
		if _, err := path.Match(pattern, ""); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid pattern"})
			return
		}
		s.serve(c.Writer, c.Request, pattern)
	}
}

func (s *Stream) serve(w http.ResponseWriter, r *http.Request, pattern string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	client, err := s.register(pattern)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer s.unregister(client)

	// Long-lived connection; the server write timeout must not apply.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	_, _ = fmt.Fprintf(w, "event: connected\ndata: {\"client_id\":%q,\"pattern\":%q}\n\n", client.id, pattern)
	flusher.Flush()

	log := s.log.WithContext(r.Context())
	log.Debug("Stream client connected", logger.Fields("client_id", client.id, "pattern", pattern))

	keepAlive := time.NewTicker(KeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug("Stream client disconnected", logger.Fields("client_id", client.id))
			return
		case data, ok := <-client.events:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "event: result\ndata: %s\n\n", data)
			flusher.Flush()
		case <-keepAlive.C:
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

// Name returns the component name.
func (s *Stream) Name() string { return "event-stream" }

// Start is a no-op; clients attach through Handler.
func (s *Stream) Start(context.Context) error {
	s.mu.Lock()
	s.stopped = false
	s.mu.Unlock()
	return nil
}

// Stop disconnects every client and rejects new ones.
func (s *Stream) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, c := range s.clients {
		close(c.events)
		delete(s.clients, id)
	}
	return nil
}

// Health reports the number of connected clients.
func (s *Stream) Health(context.Context) component.Health {
	return component.Health{
		Name:    s.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", s.Clients()),
	}
}
