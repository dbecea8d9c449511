package schema

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/aigoflow/model-monitor/internal/diag"
)

func TestClassifyRouting(t *testing.T) {
	s := Schema{
		{Name: "age", Role: RoleFeature, Type: TypeNumerical},
		{Name: "country", Role: RoleFeature, Type: TypeCategorical},
		{Name: "text_embedding", Role: RoleFeature, Type: TypeNumericalSequence},
		{Name: "pred_label", Role: RolePrediction, Type: TypeCategorical},
		{Name: "pred_score", Role: RolePrediction, Type: TypeNumerical},
		{Name: "label", Role: RoleTarget, Type: TypeCategorical},
		{Name: "score", Role: RoleTarget, Type: TypeNumerical},
	}

	var rec diag.Recorder
	b := Classify(s, &rec)

	if got, want := b.Feature, []string{"age", "country"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Feature = %v, want %v", got, want)
	}
	if got, want := b.EmbeddingFeature, []string{"text_embedding"}; !reflect.DeepEqual(got, want) {
		t.Errorf("EmbeddingFeature = %v, want %v", got, want)
	}
	if got, want := b.PredictionLabel, []string{"pred_label"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PredictionLabel = %v, want %v", got, want)
	}
	if got, want := b.PredictionScore, []string{"pred_score"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PredictionScore = %v, want %v", got, want)
	}
	if got, want := b.ActualLabel, []string{"label"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ActualLabel = %v, want %v", got, want)
	}
	if got, want := b.ActualScore, []string{"score"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ActualScore = %v, want %v", got, want)
	}
	if rec.Len() != 0 {
		t.Errorf("unexpected warnings: %v", rec.Warnings)
	}
}

func TestClassifyDropsSequencePredictionsAndTargets(t *testing.T) {
	s := Schema{
		{Name: "pred_seq", Role: RolePrediction, Type: TypeNumericalSequence},
		{Name: "target_seq", Role: RoleTarget, Type: TypeNumericalSequence},
		{Name: "kept", Role: RoleFeature, Type: TypeNumerical},
	}

	var rec diag.Recorder
	b := Classify(s, &rec)

	if len(b.PredictionLabel)+len(b.PredictionScore)+len(b.ActualLabel)+len(b.ActualScore) != 0 {
		t.Errorf("sequence prediction/target columns must be dropped, got %+v", b)
	}
	if got, want := b.Feature, []string{"kept"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Feature = %v, want %v", got, want)
	}
	if rec.Len() != 2 {
		t.Errorf("want 2 warnings, got %d: %v", rec.Len(), rec.Warnings)
	}
}

func TestClassifyPreservesDeclarationOrder(t *testing.T) {
	s := Schema{
		{Name: "f3", Role: RoleFeature, Type: TypeNumerical},
		{Name: "f1", Role: RoleFeature, Type: TypeCategorical},
		{Name: "f2", Role: RoleFeature, Type: TypeNumerical},
	}

	b := Classify(s, diag.Discard())
	if got, want := b.Feature, []string{"f3", "f1", "f2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Feature order = %v, want declaration order %v", got, want)
	}
}

// genSchema builds arbitrary schemas over the supported role/type
// combinations.
func genSchema() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, 8)).Map(func(codes []int) Schema {
		roles := []Role{RoleFeature, RolePrediction, RoleTarget}
		types := []Type{TypeNumerical, TypeCategorical, TypeNumericalSequence}
		s := make(Schema, len(codes))
		for i, c := range codes {
			s[i] = Column{
				Name: fmt.Sprintf("col_%d", i),
				Role: roles[c%3],
				Type: types[c/3],
			}
		}
		return s
	})
}

func TestProperty_ClassifyDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("classifying the same schema twice yields identical buckets", prop.ForAll(
		func(s Schema) bool {
			a := Classify(s, diag.Discard())
			b := Classify(s, diag.Discard())
			return reflect.DeepEqual(a, b)
		},
		genSchema(),
	))

	properties.Property("every column lands in at most one bucket", prop.ForAll(
		func(s Schema) bool {
			b := Classify(s, diag.Discard())
			total := len(b.PredictionLabel) + len(b.PredictionScore) +
				len(b.ActualLabel) + len(b.ActualScore) +
				len(b.Feature) + len(b.EmbeddingFeature)
			if total > len(s) {
				return false
			}
			seen := make(map[string]bool)
			for _, bucket := range [][]string{
				b.PredictionLabel, b.PredictionScore,
				b.ActualLabel, b.ActualScore,
				b.Feature, b.EmbeddingFeature,
			} {
				for _, name := range bucket {
					if seen[name] {
						return false
					}
					seen[name] = true
				}
			}
			return true
		},
		genSchema(),
	))

	properties.TestingRun(t)
}
