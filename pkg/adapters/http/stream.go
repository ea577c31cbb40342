package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// StreamManager fans session updates out to server-sent event subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{} // execution id -> channels
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
	}
}

// Subscribe registers a channel for an execution. The returned function
// unsubscribes; calling it after Close is safe.
func (sm *StreamManager) Subscribe(executionID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[executionID]; !ok {
		sm.subscribers[executionID] = make(map[chan string]struct{})
	}
	sm.subscribers[executionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		subs, ok := sm.subscribers[executionID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(sm.subscribers, executionID)
		}
	}
}

// Broadcast sends msg to every subscriber of the execution. Slow
// subscribers miss messages rather than block the sender.
func (sm *StreamManager) Broadcast(executionID, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for ch := range sm.subscribers[executionID] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Close ends every subscription of the execution.
func (sm *StreamManager) Close(executionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for ch := range sm.subscribers[executionID] {
		close(ch)
	}
	delete(sm.subscribers, executionID)
}

// Subscribers returns how many subscribers an execution has.
func (sm *StreamManager) Subscribers(executionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[executionID])
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE). The current state
// is sent first, then one event per step until the session ends or the
// client goes away.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	id := chi.URLParam(r, "id")
	st, err := s.Sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	initial, _ := json.Marshal(st)
	fmt.Fprintf(w, "event: state\ndata: %s\n\n", initial)
	flusher.Flush()
	s.Logger.Debug("SSE: client subscribed", "execution_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE: client disconnected", "execution_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				fmt.Fprint(w, "event: end\ndata: {}\n\n")
				flusher.Flush()
				return
			}
			fmt.Fprintf(w, "event: state\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
