// Package monitor buffers per-field observations over the lifetime of
// one logical record, infers the output mapping from the logged
// schema, and drains completed records as rows to a sink.
package monitor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/aigoflow/model-monitor/internal/diag"
	"github.com/aigoflow/model-monitor/internal/mapping"
	"github.com/aigoflow/model-monitor/internal/models"
	"github.com/aigoflow/model-monitor/internal/schema"
)

// Reserved column names auto-populated on the first logged value of
// each record. User columns may not use them.
const (
	ColumnTimestamp = "timestamp"
	ColumnRequestID = "request_id"
)

// Sink receives one call per exported row. Implementations may batch
// internally; the monitor treats Send as a blocking fire-and-forget
// call and propagates its error without retrying.
type Sink interface {
	Send(ctx context.Context, row *models.Row) error
}

// DeploymentResolver supplies the default model id and version when
// none were configured, typically from the deployment context.
type DeploymentResolver interface {
	Resolve() (modelID, modelVersion string)
}

// Config carries the monitor options. Only Name and SinkFactory are
// required; everything else has a usable default.
type Config struct {
	Name string

	// ModelType is the optional explicit output-type hint. When unset
	// it is inferred from the logged schema.
	ModelType models.ModelType

	// ModelID and ModelVersion identify the monitored model. When both
	// are unset they are resolved from Deployment at first record
	// close.
	ModelID      string
	ModelVersion string

	// Environment defaults to production.
	Environment models.Environment

	// Tags are attached to every exported row.
	Tags map[string]string

	// SinkFactory builds the sink client. It runs exactly once, at the
	// close of the first record.
	SinkFactory func() (Sink, error)

	// Deployment resolves default model identity. Optional.
	Deployment DeploymentResolver

	// Observer receives warning diagnostics. Defaults to slog.
	Observer diag.Observer

	// Now and RequestID are ambient context seams: wall clock for the
	// reserved timestamp column and id source for the reserved
	// request_id column. They default to time.Now and ULID generation.
	Now       func() time.Time
	RequestID func() string
}

type state int

const (
	stateIdle state = iota
	stateRecordOpen
)

// Monitor owns one record stream: the schema, the inferred mapping and
// the column buffers. It is not safe for concurrent use; one goroutine
// must own the StartRecord/Log/StopRecord sequence.
type Monitor struct {
	cfg Config
	obs diag.Observer

	now       func() time.Time
	requestID func() string

	state        state
	schemaFrozen bool
	firstValue   bool

	declared map[string]bool
	schema   schema.Schema
	buckets  schema.FieldBuckets
	kind     mapping.Kind

	modelType    models.ModelType
	modelID      string
	modelVersion string
	environment  models.Environment

	buf  *columnBuffer
	sink Sink
}

// New validates the configuration and returns an idle monitor. The
// schema, mapping and sink are not touched until the first record
// closes.
func New(cfg Config) (*Monitor, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("monitor name is required")
	}
	if cfg.SinkFactory == nil {
		return nil, fmt.Errorf("sink factory is required")
	}
	m := &Monitor{
		cfg:          cfg,
		obs:          cfg.Observer,
		now:          cfg.Now,
		requestID:    cfg.RequestID,
		declared:     make(map[string]bool),
		modelType:    cfg.ModelType,
		modelID:      cfg.ModelID,
		modelVersion: cfg.ModelVersion,
		environment:  cfg.Environment,
		buf:          newColumnBuffer(),
	}
	if m.obs == nil {
		m.obs = diag.NewSlogObserver(nil)
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.requestID == nil {
		m.requestID = func() string { return ulid.Make().String() }
	}
	return m, nil
}

// StartRecord opens a record. All Log calls until the matching
// StopRecord belong to one logical row.
func (m *Monitor) StartRecord() {
	m.state = stateRecordOpen
	m.firstValue = true
}

// Log buffers one observation under the given column name. The first
// value of each record also stamps the reserved timestamp and
// request_id columns.
func (m *Monitor) Log(v models.Value, name string, role schema.Role, typ schema.Type) error {
	if name == ColumnTimestamp || name == ColumnRequestID {
		return fmt.Errorf("%w: %q", ErrReservedColumn, name)
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidRole, role)
	}
	if !typ.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidType, typ)
	}
	if m.state != stateRecordOpen {
		return ErrNoActiveRecord
	}

	if !m.schemaFrozen && !m.declared[name] {
		m.declared[name] = true
		m.schema = append(m.schema, schema.Column{Name: name, Role: role, Type: typ})
	}

	if m.firstValue {
		m.firstValue = false
		ts := float64(m.now().UnixNano()) / 1e9
		m.buf.push(ColumnTimestamp, models.FloatValue(ts))
		m.buf.push(ColumnRequestID, models.StringValue(m.requestID()))
	}

	m.buf.push(name, v)
	return nil
}

// LogBatch buffers each element of values under the same column name,
// role and type.
func (m *Monitor) LogBatch(values []models.Value, name string, role schema.Role, typ schema.Type) error {
	for _, v := range values {
		if err := m.Log(v, name, role, typ); err != nil {
			return err
		}
	}
	return nil
}

// LogTable is the bulk tabular ingestion surface. It is declared but
// intentionally unimplemented.
func (m *Monitor) LogTable(data interface{}, cols []schema.Column) error {
	return ErrNotImplemented
}

// StopRecord closes the current record. The very first close freezes
// the schema, infers the mapping, resolves the model identity and
// environment defaults, and builds the sink; every close after that
// only drains. A record with no logged values is skipped with a
// warning.
func (m *Monitor) StopRecord(ctx context.Context) error {
	if m.state != stateRecordOpen {
		return ErrNoActiveRecord
	}
	m.state = stateIdle

	if !m.schemaFrozen {
		if err := m.freezeSchema(); err != nil {
			return err
		}
	}

	if m.firstValue {
		m.obs.Warn("no data logged in this record, skipping export")
		return nil
	}
	return m.export(ctx)
}

// freezeSchema runs exactly once per monitor lifetime, at the close of
// the first record.
func (m *Monitor) freezeSchema() error {
	m.buckets = schema.Classify(m.schema, m.obs)
	kind, err := mapping.Infer(m.buckets, m.cfg.ModelType, m.obs)
	if err != nil {
		return err
	}
	m.kind = kind

	if m.modelType == models.ModelTypeUnset {
		m.modelType = kind.ModelType()
	}
	if m.modelID == "" && m.modelVersion == "" && m.cfg.Deployment != nil {
		m.modelID, m.modelVersion = m.cfg.Deployment.Resolve()
	}
	if m.modelID == "" {
		m.modelID = m.cfg.Name
	}
	if m.environment == models.EnvUnset {
		m.environment = models.EnvProduction
	}

	sink, err := m.cfg.SinkFactory()
	if err != nil {
		return fmt.Errorf("building sink: %w", err)
	}
	m.sink = sink
	m.schemaFrozen = true
	return nil
}

// export drains every complete buffered row through the converter and
// forwards it to the sink. A sink error stops the drain immediately
// and leaves the remaining rows buffered.
func (m *Monitor) export(ctx context.Context) error {
	if _, ok := m.buf.consistent(); !ok {
		return ErrBufferInconsistent
	}
	for {
		rec, ok := m.buf.popRecord()
		if !ok {
			return nil
		}
		row := m.buildRow(rec)
		if err := m.sink.Send(ctx, row); err != nil {
			return fmt.Errorf("sending row %s: %w", row.PredictionID, err)
		}
	}
}

func (m *Monitor) buildRow(rec mapping.Record) *models.Row {
	fields := mapping.Convert(rec, m.buckets, m.kind, m.obs)

	var ts int64
	if v, ok := rec[ColumnTimestamp].AsFloat(); ok {
		ts = int64(math.Floor(v))
	}

	return &models.Row{
		ModelID:             m.modelID,
		ModelType:           m.modelType,
		Environment:         m.environment,
		ModelVersion:        m.modelVersion,
		Tags:                m.cfg.Tags,
		PredictionID:        rec[ColumnRequestID].Str(),
		PredictionTimestamp: ts,
		PredictionLabel:     fields.PredictionLabel,
		ActualLabel:         fields.ActualLabel,
		Features:            fields.Features,
		EmbeddingFeatures:   fields.EmbeddingFeatures,
	}
}

// Schema returns a copy of the declared schema, mainly for inspection
// and the spool store.
func (m *Monitor) Schema() schema.Schema {
	out := make(schema.Schema, len(m.schema))
	copy(out, m.schema)
	return out
}

// Mapping returns the inferred mapping kind, KindUnknown before the
// first record closes.
func (m *Monitor) Mapping() mapping.Kind { return m.kind }

// ModelType returns the effective model type, which is the configured
// hint or, after the first record closes, the type implied by the
// inferred mapping.
func (m *Monitor) ModelType() models.ModelType { return m.modelType }
