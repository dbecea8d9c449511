package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nats-io/nats.go"

	"github.com/aigoflow/model-monitor/internal/config"
	"github.com/aigoflow/model-monitor/internal/deployment"
	"github.com/aigoflow/model-monitor/internal/diag"
	"github.com/aigoflow/model-monitor/internal/models"
	"github.com/aigoflow/model-monitor/internal/monitor"
	"github.com/aigoflow/model-monitor/internal/schema"
	"github.com/aigoflow/model-monitor/internal/services"
	"github.com/aigoflow/model-monitor/internal/sink"
	"github.com/aigoflow/model-monitor/internal/store"
	"github.com/aigoflow/model-monitor/pkg/client"
	"github.com/aigoflow/model-monitor/pkg/server"
)

func main() {
	var envFile = flag.String("env", "", "Optional .env file to load")
	flag.Parse()

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize spool database
	var db *store.DB
	if cfg.SpoolEnabled {
		_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
		db, err = store.Open(cfg.DBPath)
		if err != nil {
			slog.Error("Failed to open spool database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		db.Event("info", "startup", "Monitor daemon starting", map[string]interface{}{
			"monitor_name":   cfg.MonitorName,
			"ingest_subject": cfg.IngestSubject,
			"db_path":        cfg.DBPath,
		})
	}

	// Connect to NATS for ingestion
	nc, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		slog.Error("Failed to connect to NATS", "error", err, "url", cfg.NatsURL)
		os.Exit(1)
	}
	defer nc.Close()

	// The reserved request_id column takes the incoming record id;
	// the handler loop below sets it before each StartRecord.
	var currentRecordID string

	mon, err := monitor.New(monitor.Config{
		Name:         cfg.MonitorName,
		ModelType:    models.ParseModelType(cfg.ModelType),
		ModelID:      cfg.ModelID,
		ModelVersion: cfg.ModelVersion,
		Environment:  models.ParseEnvironment(cfg.Environment),
		Tags:         cfg.Tags,
		Deployment:   deployment.NewEnvResolver(),
		Observer:     diag.NewSlogObserver(logger),
		SinkFactory:  func() (monitor.Sink, error) { return buildSink(cfg, db) },
		RequestID:    func() string { return currentRecordID },
	})
	if err != nil {
		slog.Error("Failed to create monitor", "error", err)
		os.Exit(1)
	}

	// Single consumer goroutine owns the monitor; the bounded channel
	// keeps the NATS dispatcher off the record state machine.
	msgs := make(chan *nats.Msg, cfg.MaxQueueBound)
	sub, err := nc.ChanSubscribe(cfg.IngestSubject, msgs)
	if err != nil {
		slog.Error("Failed to subscribe", "error", err, "subject", cfg.IngestSubject)
		os.Exit(1)
	}
	defer sub.Unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ingest stats reporting and the HTTP status API
	stats := services.NewStatsService(nc, cfg.MonitorName)
	stats.Start(ctx)

	srv := server.NewServer(cfg.HTTPAddr, stats, db)
	go func() {
		if err := srv.Start(ctx); err != nil {
			slog.Error("HTTP status server failed", "error", err)
		}
	}()

	slog.Info("Monitor daemon started",
		"monitor", cfg.MonitorName,
		"subject", cfg.IngestSubject,
		"http", cfg.HTTPAddr,
		"spool", cfg.SpoolEnabled)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			slog.Info("Monitor daemon shutting down")
			return
		case msg := <-msgs:
			var obs client.Observation
			if err := json.Unmarshal(msg.Data, &obs); err != nil {
				slog.Warn("Failed to parse observation", "subject", msg.Subject, "error", err)
				continue
			}
			stats.IncrementReceived()
			currentRecordID = obs.RecordID
			if err := handleObservation(ctx, mon, obs); err != nil {
				stats.IncrementFailed()
				slog.Error("Failed to process observation",
					"record_id", obs.RecordID,
					"model", obs.Model,
					"error", err)
				if db != nil {
					db.Event("error", "record.failed", err.Error(), map[string]interface{}{
						"record_id": obs.RecordID,
						"model":     obs.Model,
					})
				}
			} else {
				stats.IncrementExported()
			}
		}
	}
}

// handleObservation replays one observation event through the record
// lifecycle: start, log every field, stop.
func handleObservation(ctx context.Context, mon *monitor.Monitor, obs client.Observation) error {
	mon.StartRecord()
	for _, f := range obs.Fields {
		role, err := schema.ParseRole(f.Role)
		if err != nil {
			return err
		}
		typ, err := schema.ParseType(f.Type)
		if err != nil {
			return err
		}
		val, err := models.FromInterface(f.Value)
		if err != nil {
			return err
		}
		if err := mon.Log(val, f.Name, role, typ); err != nil {
			return err
		}
	}
	return mon.StopRecord(ctx)
}

// buildSink assembles the export path: the remote backend sink when
// credentials are configured, the local spool when enabled, both when
// both apply.
func buildSink(cfg *config.Config, db *store.DB) (monitor.Sink, error) {
	var sinks sink.Multi

	if cfg.APIKey != "" || cfg.SpaceKey != "" {
		backendURL := cfg.NatsURL
		if cfg.URI != "" {
			backendURL = cfg.URI
		}
		remote, err := sink.NewNATSSink(sink.Config{
			URL:      backendURL,
			Subject:  cfg.ExportSubject,
			APIKey:   cfg.APIKey,
			SpaceKey: cfg.SpaceKey,
			Timeout:  cfg.SendTimeout,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, remote)
	}
	if db != nil {
		sinks = append(sinks, sink.NewStoreSink(db))
	}

	if len(sinks) == 0 {
		slog.Warn("No sink configured, exported rows will be dropped")
		sinks = append(sinks, dropSink{})
	}
	return sinks, nil
}

type dropSink struct{}

func (dropSink) Send(context.Context, *models.Row) error { return nil }
