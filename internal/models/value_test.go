package models

import (
	"encoding/json"
	"testing"
)

func TestFromInterface(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want Value
	}{
		{"string", "hello", StringValue("hello")},
		{"bool", true, BoolValue(true)},
		{"int", 42, IntValue(42)},
		{"whole float becomes int", float64(7), IntValue(7)},
		{"fractional float", 0.25, FloatValue(0.25)},
		{"float slice", []float64{1, 2}, VectorValue([]float64{1, 2})},
		{"interface slice", []interface{}{1.5, 2.5}, VectorValue([]float64{1.5, 2.5})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromInterface(tt.in)
			if err != nil {
				t.Fatalf("FromInterface(%v): %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("FromInterface(%v) = %v (%v), want %v (%v)",
					tt.in, got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}

	if _, err := FromInterface(map[string]int{}); err == nil {
		t.Error("maps must be rejected")
	}
	if _, err := FromInterface([]interface{}{"not a number"}); err == nil {
		t.Error("non-numeric vector elements must be rejected")
	}
}

func TestValueJSONShapes(t *testing.T) {
	payload := `{"s":"x","i":3,"f":2.5,"b":true,"v":[0.1,0.2]}`
	var decoded map[string]Value
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded["s"].Kind() != KindString || decoded["s"].Str() != "x" {
		t.Errorf("s = %v", decoded["s"])
	}
	if decoded["i"].Kind() != KindInt || decoded["i"].Int() != 3 {
		t.Errorf("i = %v", decoded["i"])
	}
	if decoded["f"].Kind() != KindFloat || decoded["f"].Float() != 2.5 {
		t.Errorf("f = %v", decoded["f"])
	}
	if decoded["b"].Kind() != KindBool || !decoded["b"].Bool() {
		t.Errorf("b = %v", decoded["b"])
	}
	if decoded["v"].Kind() != KindFloatVector || len(decoded["v"].Vector()) != 2 {
		t.Errorf("v = %v", decoded["v"])
	}

	out, err := json.Marshal(decoded["v"])
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "[0.1,0.2]" {
		t.Errorf("vector marshals as %s", out)
	}
}

func TestNewEmbedding(t *testing.T) {
	e := NewEmbedding(VectorValue([]float64{1, 2, 3}))
	if len(e.Vector) != 3 {
		t.Errorf("vector embedding = %v", e.Vector)
	}

	e = NewEmbedding(FloatValue(0.5))
	if len(e.Vector) != 1 || e.Vector[0] != 0.5 {
		t.Errorf("scalar float embedding = %v", e.Vector)
	}

	e = NewEmbedding(StringValue("nope"))
	if e.Vector != nil {
		t.Errorf("non-numeric embedding = %v", e.Vector)
	}
}
