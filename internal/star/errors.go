package star

import "fmt"

// ConfigurationError reports a malformed bucket definition: unsorted,
// overlapping, or gapped ranges, or an empty/duplicate label. It is raised
// at construction, before any data is touched, and is always fatal.
type ConfigurationError struct {
	Dimension string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid bucket definition for %s: %s", e.Dimension, e.Reason)
}

// OutOfRangeError reports a value that falls outside every bucket of a
// dimension (or outside the valid domain of a measure). It rejects the
// offending record only, never the batch.
type OutOfRangeError struct {
	Field string
	Value float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s value %g outside every defined bucket", e.Field, e.Value)
}

// NullFieldError reports a required field that is null. Record-level, causes
// rejection of that record only.
type NullFieldError struct {
	Field string
}

func (e *NullFieldError) Error() string {
	return fmt.Sprintf("required field %s is null", e.Field)
}

// DanglingReferenceError reports a fact row referencing a dimension member
// that does not exist. It indicates a defect in the build itself and aborts
// the whole run.
type DanglingReferenceError struct {
	Dimension string
	Detail    string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling reference into %s: %s", e.Dimension, e.Detail)
}
