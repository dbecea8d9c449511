package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
)

// StatsService reports ingest throughput of the monitor daemon over
// NATS so dashboards can watch record flow and export failures.
type StatsService struct {
	nats          *nats.Conn
	monitorName   string
	subjectPrefix string
	interval      time.Duration

	receivedCount int64 // atomic counter
	exportedCount int64 // atomic counter
	failedCount   int64 // atomic counter
}

type StatsReport struct {
	MonitorName     string    `json:"monitor_name"`
	RecordsReceived int64     `json:"records_received"`
	RecordsExported int64     `json:"records_exported"`
	RecordsFailed   int64     `json:"records_failed"`
	Timestamp       time.Time `json:"timestamp"`
	Status          string    `json:"status"` // healthy, degraded
}

func NewStatsService(natsConn *nats.Conn, monitorName string) *StatsService {
	return &StatsService{
		nats:          natsConn,
		monitorName:   monitorName,
		subjectPrefix: "monitoring.stats",
		interval:      10 * time.Second,
	}
}

func (s *StatsService) Start(ctx context.Context) {
	slog.Info("Starting stats service",
		"monitor", s.monitorName,
		"interval", s.interval)

	go s.reportLoop(ctx)
}

func (s *StatsService) reportLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.report()
		}
	}
}

func (s *StatsService) report() {
	received := atomic.LoadInt64(&s.receivedCount)
	exported := atomic.LoadInt64(&s.exportedCount)
	failed := atomic.LoadInt64(&s.failedCount)

	status := "healthy"
	if failed > 0 && failed*10 >= received {
		status = "degraded"
	}

	reportData, err := json.Marshal(StatsReport{
		MonitorName:     s.monitorName,
		RecordsReceived: received,
		RecordsExported: exported,
		RecordsFailed:   failed,
		Timestamp:       time.Now(),
		Status:          status,
	})
	if err != nil {
		slog.Error("Failed to marshal stats report", "error", err)
		return
	}

	topic := fmt.Sprintf("%s.%s", s.subjectPrefix, s.monitorName)
	if err := s.nats.Publish(topic, reportData); err != nil {
		slog.Warn("Failed to publish stats report", "error", err)
		return
	}

	if failed > 0 || status != "healthy" {
		slog.Info("Ingest stats",
			"received", received,
			"exported", exported,
			"failed", failed,
			"status", status)
	}
}

// IncrementReceived counts one observation taken off the wire.
func (s *StatsService) IncrementReceived() {
	atomic.AddInt64(&s.receivedCount, 1)
}

// IncrementExported counts one record drained to the sink.
func (s *StatsService) IncrementExported() {
	atomic.AddInt64(&s.exportedCount, 1)
}

// IncrementFailed counts one observation that could not be processed.
func (s *StatsService) IncrementFailed() {
	atomic.AddInt64(&s.failedCount, 1)
}

// Received returns the current received count.
func (s *StatsService) Received() int64 {
	return atomic.LoadInt64(&s.receivedCount)
}
