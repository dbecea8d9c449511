// Package schema models the declared column schema of a monitored
// record stream and partitions it into the field buckets the mapping
// layer works with.
package schema

import (
	"fmt"
	"strings"
)

// Role is the semantic purpose of a logged column.
type Role int

const (
	RoleUnknown Role = iota
	RoleFeature
	RolePrediction
	RoleTarget
)

func (r Role) String() string {
	switch r {
	case RoleFeature:
		return "feature"
	case RolePrediction:
		return "prediction"
	case RoleTarget:
		return "target"
	default:
		return "unknown"
	}
}

// Valid reports whether the role is one of the supported values.
func (r Role) Valid() bool {
	return r == RoleFeature || r == RolePrediction || r == RoleTarget
}

// ParseRole parses a role name as it appears on the wire.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "feature":
		return RoleFeature, nil
	case "prediction":
		return RolePrediction, nil
	case "target":
		return RoleTarget, nil
	default:
		return RoleUnknown, fmt.Errorf("invalid role %q", s)
	}
}

// Type is the shape of a logged value.
type Type int

const (
	TypeUnknown Type = iota
	TypeNumerical
	TypeCategorical
	TypeNumericalSequence
)

func (t Type) String() string {
	switch t {
	case TypeNumerical:
		return "numerical"
	case TypeCategorical:
		return "categorical"
	case TypeNumericalSequence:
		return "numerical_sequence"
	default:
		return "unknown"
	}
}

// Valid reports whether the type is one of the supported values.
func (t Type) Valid() bool {
	return t == TypeNumerical || t == TypeCategorical || t == TypeNumericalSequence
}

// ParseType parses a data type name as it appears on the wire.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numerical":
		return TypeNumerical, nil
	case "categorical":
		return TypeCategorical, nil
	case "numerical_sequence", "numerical-sequence":
		return TypeNumericalSequence, nil
	default:
		return TypeUnknown, fmt.Errorf("invalid data type %q", s)
	}
}

// Column is one declared field of the record schema.
type Column struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	Type Type   `json:"type"`
}

// Schema is the ordered, append-only sequence of declared columns.
// It is frozen once the first record closes.
type Schema []Column
