package models

import (
	"encoding/json"
	"strings"
)

// ModelType is the output type declared for (or inferred from) a
// monitored model. It mirrors the backend's model taxonomy.
type ModelType int

const (
	ModelTypeUnset ModelType = iota
	ModelTypeScoreCategorical
	ModelTypeNumeric
	ModelTypeRanking
)

func (t ModelType) String() string {
	switch t {
	case ModelTypeUnset:
		return "unset"
	case ModelTypeScoreCategorical:
		return "score_categorical"
	case ModelTypeNumeric:
		return "numeric"
	case ModelTypeRanking:
		return "ranking"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the model type as its string name.
func (t ModelType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a model type from its string name.
func (t *ModelType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseModelType(s)
	return nil
}

// ParseModelType parses a configured model type string. Unknown or
// empty strings parse to ModelTypeUnset.
func ParseModelType(s string) ModelType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "score_categorical", "score-categorical", "classification":
		return ModelTypeScoreCategorical
	case "numeric", "regression":
		return ModelTypeNumeric
	case "ranking":
		return ModelTypeRanking
	default:
		return ModelTypeUnset
	}
}

// Environment is the deployment environment stamped on exported rows.
type Environment int

const (
	EnvUnset Environment = iota
	EnvProduction
	EnvTraining
	EnvValidation
)

func (e Environment) String() string {
	switch e {
	case EnvProduction:
		return "production"
	case EnvTraining:
		return "training"
	case EnvValidation:
		return "validation"
	default:
		return "unset"
	}
}

// MarshalJSON encodes the environment as its string name.
func (e Environment) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON decodes an environment from its string name.
func (e *Environment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*e = ParseEnvironment(s)
	return nil
}

// ParseEnvironment parses a configured environment string. Unknown or
// empty strings parse to EnvUnset so the caller can apply a default.
func ParseEnvironment(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return EnvProduction
	case "training":
		return EnvTraining
	case "validation":
		return EnvValidation
	default:
		return EnvUnset
	}
}

// Label is a prediction or actual label on an exported row. Score is
// present only for scored-classification rows.
type Label struct {
	Value Value  `json:"value"`
	Score *Value `json:"score,omitempty"`
}

// ScalarLabel builds a label with no score.
func ScalarLabel(v Value) Label { return Label{Value: v} }

// ScoredLabel builds a label carrying a classification score.
func ScoredLabel(v, score Value) Label {
	return Label{Value: v, Score: &score}
}

// Row is one exported observation row, the unit the sink receives.
type Row struct {
	ModelID             string               `json:"model_id"`
	ModelType           ModelType            `json:"model_type"`
	Environment         Environment          `json:"environment"`
	ModelVersion        string               `json:"model_version,omitempty"`
	Tags                map[string]string    `json:"tags,omitempty"`
	PredictionID        string               `json:"prediction_id"`
	PredictionTimestamp int64                `json:"prediction_timestamp"`
	BatchID             string               `json:"batch_id,omitempty"`
	PredictionLabel     Label                `json:"prediction_label"`
	ActualLabel         Label                `json:"actual_label"`
	Features            map[string]Value     `json:"features,omitempty"`
	EmbeddingFeatures   map[string]Embedding `json:"embedding_features,omitempty"`
}
