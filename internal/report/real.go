package report

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	paho "github.com/eclipse/paho.mqtt.golang"
)

// RealEmitter publishes to an actual MQTT broker.
type RealEmitter struct {
	client paho.Client
	topic  string
}

// NewRealEmitter connects to the broker, retrying with capped
// exponential backoff. The device only wakes for seconds at a time, so
// connect attempts are bounded rather than retried forever.
func NewRealEmitter(broker, clientID string) (*RealEmitter, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetCleanSession(true)

	client := paho.NewClient(opts)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second

	err := backoff.Retry(func() error {
		token := client.Connect()
		if !token.WaitTimeout(10 * time.Second) {
			return fmt.Errorf("connection timeout")
		}
		return token.Error()
	}, bo)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &RealEmitter{
		client: client,
		topic:  Topic,
	}, nil
}

// Emit publishes the cycle report. The message is retained so consumers
// can read the device's last known state while it sleeps. QoS 1 — the
// report is the only trace a cycle leaves outside the device.
func (e *RealEmitter) Emit(r Report) error {
	payload, err := FormatPayload(r)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	token := e.client.Publish(e.topic, 1, true, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// Close disconnects from the broker.
func (e *RealEmitter) Close() error {
	e.client.Disconnect(1000) // 1 second timeout
	return nil
}
