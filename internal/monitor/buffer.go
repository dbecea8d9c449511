package monitor

import (
	"github.com/aigoflow/model-monitor/internal/mapping"
	"github.com/aigoflow/model-monitor/internal/models"
)

// columnBuffer accumulates logged values per column name, one FIFO
// queue per column, in first-seen order.
type columnBuffer struct {
	order  []string
	queues map[string][]models.Value
}

func newColumnBuffer() *columnBuffer {
	return &columnBuffer{queues: make(map[string][]models.Value)}
}

func (b *columnBuffer) push(name string, v models.Value) {
	if _, ok := b.queues[name]; !ok {
		b.order = append(b.order, name)
	}
	b.queues[name] = append(b.queues[name], v)
}

// consistent reports whether every queue holds the same number of
// values, along with that common length.
func (b *columnBuffer) consistent() (int, bool) {
	if len(b.order) == 0 {
		return 0, true
	}
	n := len(b.queues[b.order[0]])
	for _, name := range b.order[1:] {
		if len(b.queues[name]) != n {
			return 0, false
		}
	}
	return n, true
}

// popRecord pops one value from every queue, FIFO. It reports false
// once any queue is empty, which ends a drain cleanly.
func (b *columnBuffer) popRecord() (mapping.Record, bool) {
	if len(b.order) == 0 {
		return nil, false
	}
	for _, name := range b.order {
		if len(b.queues[name]) == 0 {
			return nil, false
		}
	}
	rec := make(mapping.Record, len(b.order))
	for _, name := range b.order {
		q := b.queues[name]
		rec[name] = q[0]
		b.queues[name] = q[1:]
	}
	return rec, true
}
