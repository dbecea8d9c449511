package schema

import "github.com/aigoflow/model-monitor/internal/diag"

// FieldBuckets holds the column names of a schema grouped by their
// destination in the exported row. Order within each bucket follows
// schema declaration order.
type FieldBuckets struct {
	PredictionLabel  []string
	PredictionScore  []string
	ActualLabel      []string
	ActualScore      []string
	Feature          []string
	EmbeddingFeature []string
}

// Classify routes every schema column into its bucket by (role, type).
// Unsupported combinations are dropped with a warning. The function is
// deterministic and has no side effects beyond the emitted warnings.
func Classify(s Schema, obs diag.Observer) FieldBuckets {
	var b FieldBuckets
	for _, col := range s {
		switch {
		case col.Role == RoleFeature && col.Type == TypeNumericalSequence:
			b.EmbeddingFeature = append(b.EmbeddingFeature, col.Name)
		case col.Role == RoleFeature:
			b.Feature = append(b.Feature, col.Name)
		case col.Role == RolePrediction && col.Type == TypeCategorical:
			b.PredictionLabel = append(b.PredictionLabel, col.Name)
		case col.Role == RolePrediction && col.Type == TypeNumerical:
			b.PredictionScore = append(b.PredictionScore, col.Name)
		case col.Role == RolePrediction && col.Type == TypeNumericalSequence:
			obs.Warn("numerical_sequence is not supported for predictions, ignoring column",
				"column", col.Name)
		case col.Role == RoleTarget && col.Type == TypeCategorical:
			b.ActualLabel = append(b.ActualLabel, col.Name)
		case col.Role == RoleTarget && col.Type == TypeNumerical:
			b.ActualScore = append(b.ActualScore, col.Name)
		case col.Role == RoleTarget && col.Type == TypeNumericalSequence:
			obs.Warn("numerical_sequence is not supported for targets, ignoring column",
				"column", col.Name)
		default:
			obs.Warn("unsupported column role/type combination, ignoring column",
				"column", col.Name, "role", col.Role.String(), "type", col.Type.String())
		}
	}
	return b
}
