package sink

import (
	"context"
	"fmt"

	"github.com/aigoflow/model-monitor/internal/models"
	"github.com/aigoflow/model-monitor/internal/store"
)

// StoreSink spools rows into the local sqlite database, giving exports
// a durable audit trail independent of the backend.
type StoreSink struct {
	db *store.DB
}

func NewStoreSink(db *store.DB) *StoreSink {
	return &StoreSink{db: db}
}

func (s *StoreSink) Send(ctx context.Context, row *models.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.InsertRow(row); err != nil {
		return fmt.Errorf("failed to spool row: %w", err)
	}
	return nil
}
