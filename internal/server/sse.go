package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/staffdesk/internal/events"
)

// keepAliveInterval is how often an idle event stream sends a comment line.
const keepAliveInterval = 25 * time.Second

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// NewSSEWriter sets the stream headers on w.
func NewSSEWriter(w http.ResponseWriter) *SSEWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return &SSEWriter{w: w, rc: http.NewResponseController(w)}
}

// WriteEvent sends one event with a JSON payload.
func (s *SSEWriter) WriteEvent(id, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if id != "" {
		if _, err := fmt.Fprintf(s.w, "id: %s\n", id); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return s.rc.Flush()
}

// WriteComment sends a comment line, which clients ignore.
func (s *SSEWriter) WriteComment(text string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return err
	}
	return s.rc.Flush()
}

// handleEvents streams lifecycle events as they are published. The optional resource
// query parameter narrows the stream to one resource.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	resource := r.URL.Query().Get("resource")
	if resource != "" {
		if _, ok := s.resources[resource]; !ok {
			s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("unknown resource %q", resource))
			return
		}
	}

	stream := NewSSEWriter(w)
	// streams outlive the server write timeout
	if err := stream.rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Printf("[events] stream deadline: %v", err)
	}

	feed, cancel := s.hub.Subscribe()
	defer cancel()

	w.WriteHeader(http.StatusOK)
	if err := stream.WriteComment("connected"); err != nil {
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := stream.WriteComment("keep-alive"); err != nil {
				return
			}
		case e, open := <-feed:
			if !open {
				return
			}
			if resource != "" && e.Resource != resource {
				continue
			}
			if err := stream.WriteEvent(eventID(e), e.Type, e); err != nil {
				log.Printf("[events] stream write failed: %v", err)
				return
			}
		}
	}
}

func eventID(e events.Event) string {
	return fmt.Sprintf("%s-%d", e.ID, e.OccurredAt.UnixNano())
}
