package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
)

// ObservationClient publishes record observations to the monitoring
// daemon over NATS.
type ObservationClient interface {
	// Publish sends one record's worth of observations. An empty
	// RecordID is filled with a fresh ULID.
	Publish(ctx context.Context, obs Observation) error

	// Lifecycle
	Close() error
}

// NATSObservationClient implements ObservationClient using NATS.
type NATSObservationClient struct {
	conn          *nats.Conn
	subjectPrefix string
	timeout       time.Duration
}

// NewNATSClient creates a new NATS-based observation client.
// subjectPrefix defaults to "monitoring.observations".
func NewNATSClient(natsURL, subjectPrefix string) (ObservationClient, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	if subjectPrefix == "" {
		subjectPrefix = "monitoring.observations"
	}

	return &NATSObservationClient{
		conn:          conn,
		subjectPrefix: subjectPrefix,
		timeout:       30 * time.Second,
	}, nil
}

func (c *NATSObservationClient) Publish(ctx context.Context, obs Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if obs.Model == "" {
		return fmt.Errorf("observation model is required")
	}
	if len(obs.Fields) == 0 {
		return fmt.Errorf("observation has no fields")
	}
	if obs.RecordID == "" {
		obs.RecordID = ulid.Make().String()
	}

	data, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("failed to marshal observation: %w", err)
	}

	topic := fmt.Sprintf("%s.%s", c.subjectPrefix, obs.Model)
	if err := c.conn.Publish(topic, data); err != nil {
		return fmt.Errorf("failed to publish observation: %w", err)
	}
	return nil
}

func (c *NATSObservationClient) Close() error {
	if err := c.conn.FlushTimeout(c.timeout); err != nil {
		c.conn.Close()
		return err
	}
	c.conn.Close()
	return nil
}
