// Package mapping decides which output shape a classified schema
// conforms to and reshapes drained records into export row fields.
package mapping

import (
	"fmt"

	"github.com/aigoflow/model-monitor/internal/diag"
	"github.com/aigoflow/model-monitor/internal/models"
	"github.com/aigoflow/model-monitor/internal/schema"
)

// Kind is the chosen output shape for a monitored model.
type Kind int

const (
	KindUnknown Kind = iota
	ScoredClassification
	Classification
	Regression
)

func (k Kind) String() string {
	switch k {
	case ScoredClassification:
		return "scored_classification"
	case Classification:
		return "classification"
	case Regression:
		return "regression"
	default:
		return "unknown"
	}
}

// ModelType returns the backend model type implied by the mapping,
// used when no explicit model type was configured.
func (k Kind) ModelType() models.ModelType {
	switch k {
	case ScoredClassification, Classification:
		return models.ModelTypeScoreCategorical
	case Regression:
		return models.ModelTypeNumeric
	default:
		return models.ModelTypeUnset
	}
}

// SchemaError reports that the logged schema does not fit any
// supported output shape, or does not fit the configured one.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mapping: %s", e.Reason)
}

// validScoredClassification holds when either side declares both a
// label and a score column.
func validScoredClassification(b schema.FieldBuckets, obs diag.Observer) bool {
	if len(b.PredictionLabel) > 0 && len(b.PredictionScore) > 0 {
		if obs != nil {
			warnExtras(obs, "prediction label", b.PredictionLabel)
			warnExtras(obs, "prediction score", b.PredictionScore)
		}
		return true
	}
	if len(b.ActualLabel) > 0 && len(b.ActualScore) > 0 {
		if obs != nil {
			warnExtras(obs, "actual label", b.ActualLabel)
			warnExtras(obs, "actual score", b.ActualScore)
		}
		return true
	}
	return false
}

// validClassification holds when either side declares a label column
// and no score column.
func validClassification(b schema.FieldBuckets, obs diag.Observer) bool {
	if len(b.PredictionLabel) > 0 && len(b.PredictionScore) == 0 {
		if obs != nil {
			warnExtras(obs, "prediction label", b.PredictionLabel)
		}
		return true
	}
	if len(b.ActualLabel) > 0 && len(b.ActualScore) == 0 {
		if obs != nil {
			warnExtras(obs, "actual label", b.ActualLabel)
		}
		return true
	}
	return false
}

// validRegression holds when either side declares a score column and
// no label column.
func validRegression(b schema.FieldBuckets, obs diag.Observer) bool {
	if len(b.PredictionScore) > 0 && len(b.PredictionLabel) == 0 {
		if obs != nil {
			warnExtras(obs, "prediction score", b.PredictionScore)
		}
		return true
	}
	if len(b.ActualScore) > 0 && len(b.ActualLabel) == 0 {
		if obs != nil {
			warnExtras(obs, "actual score", b.ActualScore)
		}
		return true
	}
	return false
}

// warnExtras emits one warning per column beyond the first in a
// single-valued bucket. The first declared column is kept.
func warnExtras(obs diag.Observer, bucket string, cols []string) {
	for _, extra := range cols[1:] {
		obs.Warn("only a single "+bucket+" column is supported, ignoring column",
			"column", extra)
	}
}

// Infer picks the output mapping for the classified schema. With no
// hint, shapes are tried in priority order: scored classification,
// classification, regression. A classification or numeric hint
// restricts the candidates; any other hint falls back to Regression
// with a warning and no validation.
func Infer(b schema.FieldBuckets, hint models.ModelType, obs diag.Observer) (Kind, error) {
	switch hint {
	case models.ModelTypeUnset:
		switch {
		case validScoredClassification(b, nil):
			return ScoredClassification, nil
		case validClassification(b, nil):
			return Classification, nil
		case validRegression(b, nil):
			return Regression, nil
		default:
			return KindUnknown, &SchemaError{Reason: "no valid mapping found for the logged schema"}
		}
	case models.ModelTypeScoreCategorical:
		switch {
		case validScoredClassification(b, obs):
			return ScoredClassification, nil
		case validClassification(b, obs):
			return Classification, nil
		default:
			return KindUnknown, &SchemaError{Reason: "not a valid classification schema"}
		}
	case models.ModelTypeNumeric:
		if validRegression(b, obs) {
			return Regression, nil
		}
		return KindUnknown, &SchemaError{Reason: "not a valid regression schema"}
	default:
		obs.Warn("unsupported model type, falling back to regression mapping",
			"model_type", hint.String())
		return Regression, nil
	}
}
