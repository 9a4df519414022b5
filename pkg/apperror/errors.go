// Package apperror holds the error types that cross stage boundaries of a run.
package apperror

import "fmt"

// ConfigurationError reports a missing or invalid configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration error: %s is required", e.Field)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// StoreAccessError reports a failed read or write against the table store.
type StoreAccessError struct {
	Op    string
	Table string
	Err   error
}

func (e *StoreAccessError) Error() string {
	return fmt.Sprintf("store %s on %s failed: %v", e.Op, e.Table, e.Err)
}

func (e *StoreAccessError) Unwrap() error {
	return e.Err
}

// NewStoreAccessError wraps err, or returns nil when err is nil.
func NewStoreAccessError(op, table string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreAccessError{Op: op, Table: table, Err: err}
}
