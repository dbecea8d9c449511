package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aigoflow/model-monitor/internal/diag"
	"github.com/aigoflow/model-monitor/internal/models"
	"github.com/aigoflow/model-monitor/internal/schema"
)

func TestConvertScoredClassification(t *testing.T) {
	rec := Record{
		"pl":  models.StringValue("yes"),
		"ps":  models.FloatValue(0.9),
		"al":  models.StringValue("no"),
		"as":  models.FloatValue(0.1),
		"age": models.IntValue(30),
	}
	b := schema.FieldBuckets{
		PredictionLabel: []string{"pl"},
		PredictionScore: []string{"ps"},
		ActualLabel:     []string{"al"},
		ActualScore:     []string{"as"},
		Feature:         []string{"age"},
	}

	out := Convert(rec, b, ScoredClassification, diag.Discard())

	assert.Equal(t, "yes", out.PredictionLabel.Value.Str())
	require.NotNil(t, out.PredictionLabel.Score)
	assert.Equal(t, 0.9, out.PredictionLabel.Score.Float())
	assert.Equal(t, "no", out.ActualLabel.Value.Str())
	require.NotNil(t, out.ActualLabel.Score)
	assert.Equal(t, 0.1, out.ActualLabel.Score.Float())
	assert.True(t, out.Features["age"].Equal(models.IntValue(30)))
}

func TestConvertClassification(t *testing.T) {
	rec := Record{
		"pl": models.StringValue("yes"),
		"al": models.StringValue("yes"),
	}
	b := schema.FieldBuckets{
		PredictionLabel: []string{"pl"},
		ActualLabel:     []string{"al"},
	}

	out := Convert(rec, b, Classification, diag.Discard())

	assert.Equal(t, "yes", out.PredictionLabel.Value.Str())
	assert.Nil(t, out.PredictionLabel.Score)
	assert.Equal(t, "yes", out.ActualLabel.Value.Str())
	assert.Nil(t, out.ActualLabel.Score)
}

func TestConvertRegressionPrefersScoreColumn(t *testing.T) {
	rec := Record{
		"ps": models.FloatValue(42.5),
		"pl": models.StringValue("ignored"),
	}
	b := schema.FieldBuckets{
		PredictionScore: []string{"ps"},
		PredictionLabel: []string{"pl"},
	}

	out := Convert(rec, b, Regression, diag.Discard())
	assert.Equal(t, 42.5, out.PredictionLabel.Value.Float())
}

func TestConvertRegressionFallsBackToLabelColumn(t *testing.T) {
	rec := Record{"pl": models.FloatValue(7)}
	b := schema.FieldBuckets{PredictionLabel: []string{"pl"}}

	out := Convert(rec, b, Regression, diag.Discard())
	assert.Equal(t, 7.0, out.PredictionLabel.Value.Float())
}

func TestConvertWrapsEmbeddingFeatures(t *testing.T) {
	rec := Record{
		"ps":  models.FloatValue(1),
		"emb": models.VectorValue([]float64{0.1, 0.2, 0.3}),
	}
	b := schema.FieldBuckets{
		PredictionScore:  []string{"ps"},
		EmbeddingFeature: []string{"emb"},
	}

	out := Convert(rec, b, Regression, diag.Discard())
	require.Contains(t, out.EmbeddingFeatures, "emb")
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, out.EmbeddingFeatures["emb"].Vector)
}

func TestConvertUnknownKindFallsBackToRegressionShape(t *testing.T) {
	rec := Record{
		"ps": models.FloatValue(3.5),
		"as": models.FloatValue(4.5),
	}
	b := schema.FieldBuckets{
		PredictionScore: []string{"ps"},
		ActualScore:     []string{"as"},
	}

	var warnings diag.Recorder
	out := Convert(rec, b, KindUnknown, &warnings)

	assert.Equal(t, 3.5, out.PredictionLabel.Value.Float())
	assert.Equal(t, 4.5, out.ActualLabel.Value.Float())
	assert.Equal(t, 1, warnings.Len())
}
