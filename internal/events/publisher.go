// Package events publishes table-change notifications so other clients can
// re-fetch their views, the way the first FleetCheck deployment used
// row-level realtime subscriptions. Delivery is fire-and-forget; consumers
// do idempotent full re-fetches, so lost or duplicated events are harmless.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Actions carried in change events.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ChangeEvent describes one row-level change.
type ChangeEvent struct {
	Table     string    `json:"table"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers change events.
type Publisher interface {
	PublishChange(table, action, id string)
	Close()
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishChange(table, action, id string) {}
func (NopPublisher) Close()                                 {}

// MQTTPublisher publishes change events to fleetcheck/changes/<table>.
type MQTTPublisher struct {
	client mqtt.Client
}

// NewPublisher connects to broker, or returns a NopPublisher when broker
// is empty.
func NewPublisher(broker, clientID string) (Publisher, error) {
	if broker == "" {
		log.Info("MQTT broker not configured, change events disabled")
		return NopPublisher{}, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}

	log.WithField("broker", broker).Info("connected to MQTT broker")
	return &MQTTPublisher{client: client}, nil
}

// PublishChange sends one change event. Failures are logged, never fatal.
func (p *MQTTPublisher) PublishChange(table, action, id string) {
	event := ChangeEvent{
		Table:     table,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("failed to marshal change event")
		return
	}

	topic := "fleetcheck/changes/" + table
	token := p.client.Publish(topic, 0, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).WithField("topic", topic).Warn("failed to publish change event")
		}
	}()
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
