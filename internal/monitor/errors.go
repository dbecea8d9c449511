package monitor

import "errors"

var (
	// ErrReservedColumn is returned when a logged column name shadows
	// one of the auto-populated reserved columns.
	ErrReservedColumn = errors.New("column name is reserved")

	// ErrInvalidRole is returned when a logged role is outside the
	// supported set.
	ErrInvalidRole = errors.New("invalid column role")

	// ErrInvalidType is returned when a logged data type is outside
	// the supported set.
	ErrInvalidType = errors.New("invalid column data type")

	// ErrNoActiveRecord is returned when Log is called outside a
	// StartRecord/StopRecord bracket.
	ErrNoActiveRecord = errors.New("no active record")

	// ErrBufferInconsistent is returned when column buffers have
	// unequal lengths at drain time. It indicates a mismatched number
	// of Log calls across columns within a record and is fatal.
	ErrBufferInconsistent = errors.New("column buffers have unequal lengths")

	// ErrNotImplemented is returned by the tabular ingestion surface.
	ErrNotImplemented = errors.New("tabular ingestion is not implemented")
)
