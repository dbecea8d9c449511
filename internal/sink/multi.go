package sink

import (
	"context"

	"github.com/aigoflow/model-monitor/internal/models"
)

// Sender matches the monitor's sink contract.
type Sender interface {
	Send(ctx context.Context, row *models.Row) error
}

// Multi forwards each row to every sink in order, stopping at the
// first failure.
type Multi []Sender

func (m Multi) Send(ctx context.Context, row *models.Row) error {
	for _, s := range m {
		if err := s.Send(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
