package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/floripafacil/backend/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	// Reservation events
	ReservationCreated       = "reservation.created"
	ReservationStatusChanged = "reservation.status_changed"
	ReservationCanceled      = "reservation.canceled"

	// Landing funnel events (A/B instrumentation fan-out)
	FunnelEventRecorded = "funnel.event.recorded"

	// User events
	UserDeactivated = "user.deactivated"
)

// Event payloads
type ReservationCreatedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	PackageID     string    `json:"package_id"`
	PackageTitle  string    `json:"package_title"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	TravelDate    time.Time `json:"travel_date"`
	Pax           int       `json:"pax"`
	CreatedAt     time.Time `json:"created_at"`
}

type ReservationStatusChangedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	CustomerEmail string    `json:"customer_email"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	ChangedBy     int64     `json:"changed_by"`
	ChangedAt     time.Time `json:"changed_at"`
}

type FunnelEventRecordedEvent struct {
	Variant    string    `json:"variant"`
	Kind       string    `json:"kind"`
	VisitorID  string    `json:"visitor_id"`
	RecordedAt time.Time `json:"recorded_at"`
}

type UserDeactivatedEvent struct {
	UserID        int64     `json:"user_id"`
	DeactivatedBy int64     `json:"deactivated_by"`
	DeactivatedAt time.Time `json:"deactivated_at"`
}
