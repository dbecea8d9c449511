package mapping

import (
	"github.com/aigoflow/model-monitor/internal/diag"
	"github.com/aigoflow/model-monitor/internal/models"
	"github.com/aigoflow/model-monitor/internal/schema"
)

// Record is one drained row: exactly one popped value per logged
// column name. It only exists for the duration of an export drain.
type Record map[string]models.Value

// RowFields is the mapping-dependent part of an exported row.
type RowFields struct {
	PredictionLabel   models.Label
	ActualLabel       models.Label
	Features          map[string]models.Value
	EmbeddingFeatures map[string]models.Embedding
}

// Convert reshapes one record into row fields according to the chosen
// mapping. An unknown mapping kind falls back to the regression shape
// with a warning.
func Convert(rec Record, b schema.FieldBuckets, k Kind, obs diag.Observer) RowFields {
	var out RowFields
	switch k {
	case ScoredClassification:
		out.PredictionLabel = scoredLabel(rec, b.PredictionLabel, b.PredictionScore)
		out.ActualLabel = scoredLabel(rec, b.ActualLabel, b.ActualScore)
	case Classification:
		out.PredictionLabel = scalarLabel(rec, b.PredictionLabel)
		out.ActualLabel = scalarLabel(rec, b.ActualLabel)
	case Regression:
		// Prefer the score column; fall back to the label column when
		// the schema only declares one on that side.
		out.PredictionLabel = scalarLabel(rec, firstNonEmpty(b.PredictionScore, b.PredictionLabel))
		out.ActualLabel = scalarLabel(rec, firstNonEmpty(b.ActualScore, b.ActualLabel))
	default:
		obs.Warn("unsupported mapping, falling back to regression shape", "mapping", k.String())
		out.PredictionLabel = scalarLabel(rec, b.PredictionScore)
		out.ActualLabel = scalarLabel(rec, b.ActualScore)
	}

	if len(b.Feature) > 0 {
		out.Features = make(map[string]models.Value, len(b.Feature))
		for _, name := range b.Feature {
			if v, ok := rec[name]; ok {
				out.Features[name] = v
			}
		}
	}
	if len(b.EmbeddingFeature) > 0 {
		out.EmbeddingFeatures = make(map[string]models.Embedding, len(b.EmbeddingFeature))
		for _, name := range b.EmbeddingFeature {
			if v, ok := rec[name]; ok {
				out.EmbeddingFeatures[name] = models.NewEmbedding(v)
			}
		}
	}
	return out
}

func firstNonEmpty(a, b []string) []string {
	if len(a) > 0 {
		return a
	}
	return b
}

// scalarLabel takes the first candidate column present in the record.
func scalarLabel(rec Record, candidates []string) models.Label {
	for _, name := range candidates {
		if v, ok := rec[name]; ok {
			return models.ScalarLabel(v)
		}
	}
	return models.Label{}
}

// scoredLabel pairs the first label column with the first score
// column of the same side.
func scoredLabel(rec Record, labels, scores []string) models.Label {
	if len(labels) == 0 || len(scores) == 0 {
		return models.Label{}
	}
	lv, lok := rec[labels[0]]
	sv, sok := rec[scores[0]]
	if !lok || !sok {
		return models.Label{}
	}
	return models.ScoredLabel(lv, sv)
}
