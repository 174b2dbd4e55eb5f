// internal/adapter/events/publisher.go

package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Event types published for a session
const (
	SpotCreated            = "spot.created"
	BookingCreated         = "booking.created"
	RecommendationsUpdated = "recommendations.updated"
)

// Publisher delivers raw event payloads to a subject.
// *nats.Conn satisfies it directly.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Event is the envelope sent to subscribers
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Time      time.Time   `json:"time"`
	Payload   interface{} `json:"payload"`
}

// Subject builds the subject an event is published on
func Subject(prefix, sessionID, eventType string) string {
	return fmt.Sprintf("%s.%s.%s", prefix, sessionID, eventType)
}

// Emitter serializes events and hands them to a publisher
type Emitter struct {
	publisher Publisher
	prefix    string
}

// NewEmitter creates an emitter publishing under the subject prefix
func NewEmitter(publisher Publisher, prefix string) *Emitter {
	return &Emitter{
		publisher: publisher,
		prefix:    prefix,
	}
}

// Emit publishes an event. Failures are logged, never returned.
func (e *Emitter) Emit(sessionID, eventType string, payload interface{}) {
	if e == nil || e.publisher == nil {
		return
	}

	data, err := json.Marshal(Event{
		Type:      eventType,
		SessionID: sessionID,
		Time:      time.Now(),
		Payload:   payload,
	})
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}

	if err := e.publisher.Publish(Subject(e.prefix, sessionID, eventType), data); err != nil {
		log.Printf("Error publishing %s event: %v", eventType, err)
	}
}

// Multi fans a payload out to several publishers
type Multi []Publisher

// Publish delivers to every publisher and returns the first error
func (m Multi) Publish(subject string, data []byte) error {
	var firstErr error
	for _, p := range m {
		if err := p.Publish(subject, data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// ConnectNATS opens a NATS connection with reconnect logging
func ConnectNATS(cfg NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name("spotshare"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
