// Package sink provides the downstream clients that exported rows are
// forwarded to: the NATS-backed monitoring backend, the sqlite spool,
// and a fan-out combinator.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/aigoflow/model-monitor/internal/models"
)

// Config carries the backend client options.
type Config struct {
	// URL is the NATS server address of the backend ingress.
	URL string

	// Subject is the subject prefix rows are published under; the
	// model id is appended per row.
	Subject string

	// APIKey and SpaceKey authenticate against the backend. Both are
	// required.
	APIKey   string
	SpaceKey string

	// Timeout bounds the connection flush on Close.
	Timeout time.Duration
}

// NATSSink publishes one JSON row per Send to the monitoring backend.
type NATSSink struct {
	conn    *nats.Conn
	subject string
	apiKey  string
	space   string
	timeout time.Duration
}

// NewNATSSink connects to the backend. Missing credentials are a
// configuration error and fail construction.
func NewNATSSink(cfg Config) (*NATSSink, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.SpaceKey == "" {
		return nil, fmt.Errorf("space key is required")
	}
	if cfg.Subject == "" {
		cfg.Subject = "monitoring.export"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSSink{
		conn:    conn,
		subject: cfg.Subject,
		apiKey:  cfg.APIKey,
		space:   cfg.SpaceKey,
		timeout: cfg.Timeout,
	}, nil
}

// Send publishes the row to <subject>.<model_id>. Delivery retries are
// the backend's concern, not handled here.
func (s *NATSSink) Send(ctx context.Context, row *models.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}

	msg := nats.NewMsg(fmt.Sprintf("%s.%s", s.subject, row.ModelID))
	msg.Header.Set("X-Api-Key", s.apiKey)
	msg.Header.Set("X-Space-Key", s.space)
	msg.Data = data

	if err := s.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish row: %w", err)
	}

	slog.Debug("Row published",
		"subject", msg.Subject,
		"prediction_id", row.PredictionID,
		"model_id", row.ModelID)
	return nil
}

// Close flushes outstanding publishes and drops the connection.
func (s *NATSSink) Close() error {
	if err := s.conn.FlushTimeout(s.timeout); err != nil {
		s.conn.Close()
		return err
	}
	s.conn.Close()
	return nil
}
