package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// MessagePublisher is the subset of *nats.Conn the forwarder needs
type MessagePublisher interface {
	Publish(subject string, data []byte) error
}

// Envelope wraps a forwarded event with routing metadata
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     EventType       `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSForwarder republishes committed events to NATS subjects of the form
// <prefix>.<event type>.
type NATSForwarder struct {
	publisher MessagePublisher
	prefix    string
	source    string
}

// NewNATSForwarder creates a forwarder publishing through the given connection
func NewNATSForwarder(publisher MessagePublisher, prefix string) *NATSForwarder {
	return &NATSForwarder{
		publisher: publisher,
		prefix:    prefix,
		source:    "betboard",
	}
}

// Subject returns the subject an event type is published on
func (f *NATSForwarder) Subject(eventType EventType) string {
	return fmt.Sprintf("%s.%s", f.prefix, eventType)
}

// Forward publishes a single event
func (f *NATSForwarder) Forward(event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := Envelope{
		EventID:       uuid.New().String(),
		EventType:     event.Type(),
		Timestamp:     time.Now().UTC(),
		SourceService: f.source,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := f.Subject(event.Type())
	if err := f.publisher.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event to NATS")
	return nil
}

// Attach subscribes the forwarder to every event type on the bus
func (f *NATSForwarder) Attach(bus *Bus) {
	bus.SubscribeAll(func(ctx context.Context, event Event) {
		if err := f.Forward(event); err != nil {
			log.WithError(err).WithField("eventType", event.Type()).Error("Failed to forward event")
		}
	})
}

// ConnectNATS dials the NATS server with reconnect logging
func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("betboard"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Error("NATS disconnected with error")
			} else {
				log.Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.WithField("url", url).Info("Connected to NATS")
	return nc, nil
}
