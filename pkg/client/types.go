package client

// Field is one observed value within a record, tagged with its column
// name, semantic role and data type.
type Field struct {
	Name  string      `json:"name"`
	Role  string      `json:"role"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// Observation is one logical record's worth of field observations, the
// wire unit between an instrumented service and the monitor daemon.
type Observation struct {
	RecordID string  `json:"record_id"`
	Model    string  `json:"model"`
	Fields   []Field `json:"fields"`
}
