package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aigoflow/model-monitor/internal/services"
	"github.com/aigoflow/model-monitor/internal/store"
)

// Server exposes a small status API over the monitor daemon: health,
// ingest stats and the most recently spooled rows.
type Server struct {
	httpAddr string
	stats    *services.StatsService
	db       *store.DB
}

func NewServer(httpAddr string, stats *services.StatsService, db *store.DB) *Server {
	return &Server{
		httpAddr: httpAddr,
		stats:    stats,
		db:       db,
	}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":           "ok",
			"records_received": s.stats.Received(),
			"time":             time.Now(),
		})
	})

	mux.HandleFunc("/api/rows", func(w http.ResponseWriter, r *http.Request) {
		if s.db == nil {
			http.Error(w, "spool disabled", http.StatusNotFound)
			return
		}
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		rows, err := s.db.RecentRows(limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		json.NewEncoder(w).Encode(rows)
	})

	server := &http.Server{
		Addr:    s.httpAddr,
		Handler: mux,
	}

	slog.Info("HTTP status server starting", "addr", s.httpAddr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
