package server

import (
	"encoding/json"
	"net/http"

	"github.com/zeusync/chitin/internal/core/events/bus"
	"github.com/zeusync/chitin/internal/core/observability/log"
	"github.com/zeusync/chitin/internal/core/physics"
	"github.com/zeusync/chitin/internal/core/snapshot"
)

// maxPendingContacts bounds the contacts carried by one frame message.
const maxPendingContacts = 1024

// Stats is the body of GET /stats.
type Stats struct {
	Clients int64        `json:"clients"`
	Bus     *bus.Metrics `json:"bus,omitempty"`
	Dropped uint64       `json:"dropped_contacts"`
}

// busObserver logs failing event handlers. Registering it also turns on the
// bus's metrics.
type busObserver struct {
	logger log.Log
}

func (o *busObserver) OnPublish(string, bus.Event) {}

func (o *busObserver) OnDelivered(eventType string, handlers int, err error) {
	if err == nil {
		return
	}
	o.logger.Warn("Event handlers failed",
		log.String("event", eventType),
		log.Int("handlers", handlers),
		log.Error(err))
}

// Watch forwards contact events published on b with the next broadcast
// frame and reports b's metrics on GET /stats. The returned func detaches
// the server again.
func (s *Server) Watch(b bus.EventBus) (func(), error) {
	sub, err := b.Subscribe(bus.EventContact, s.onContact)
	if err != nil {
		return nil, err
	}
	obs := &busObserver{logger: s.logger}
	b.AddObserver(obs)

	s.mu.Lock()
	s.bus = b
	s.mu.Unlock()

	return func() {
		_ = b.Unsubscribe(sub)
		b.RemoveObserver(obs)
		s.mu.Lock()
		if s.bus == b {
			s.bus = nil
		}
		s.mu.Unlock()
	}, nil
}

func (s *Server) onContact(e bus.Event) error {
	c, ok := e.Data().(physics.Contact)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.contacts) >= maxPendingContacts {
		s.dropped++
		return nil
	}
	s.contacts = append(s.contacts, snapshot.CaptureContact(e.Tick(), c))
	return nil
}

func (s *Server) stats() Stats {
	st := Stats{Clients: s.ClientCount()}
	s.mu.Lock()
	b := s.bus
	st.Dropped = s.dropped
	s.mu.Unlock()
	if b != nil {
		m := b.GetMetrics()
		st.Bus = &m
	}
	return st
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.stats())
}
