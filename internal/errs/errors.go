// Package errs defines the typed errors shared by the ingestion and
// category engines.
package errs

import (
	"errors"
	"fmt"
)

// Validation failure reasons. Every category mutation failure maps to one
// of these so callers can surface a distinguishable message.
const (
	ReasonRequiredField    = "required-field"
	ReasonSelfReference    = "self-reference"
	ReasonCyclicReparent   = "cyclic-reparent"
	ReasonSystemProtection = "system-category-protection"
	ReasonNotFound         = "not-found"
)

// FormatError reports a CSV document whose shape cannot be ingested.
// The file is unrecoverable for this import; the user must fix the input.
type FormatError struct {
	Reason string
	Header string // the raw header row, when one was read
}

func (e *FormatError) Error() string {
	if e.Header != "" {
		return fmt.Sprintf("unrecognized statement format: %s (header: %q)", e.Reason, e.Header)
	}
	return fmt.Sprintf("unrecognized statement format: %s", e.Reason)
}

// ValidationError reports a category operation that violates an invariant.
// It is raised before any store mutation is attempted.
type ValidationError struct {
	Op     string // the operation that was rejected, e.g. "category.update"
	Reason string // one of the Reason* constants
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s rejected (%s): %s", e.Op, e.Reason, e.Detail)
	}
	return fmt.Sprintf("%s rejected (%s)", e.Op, e.Reason)
}

// StructuralError reports corrupt tree state, such as a parent cycle.
// It indicates a prior invariant breach and should be logged as a defect.
type StructuralError struct {
	Reason     string
	CategoryID string
}

func (e *StructuralError) Error() string {
	if e.CategoryID != "" {
		return fmt.Sprintf("corrupt category tree: %s (category %s)", e.Reason, e.CategoryID)
	}
	return fmt.Sprintf("corrupt category tree: %s", e.Reason)
}

// StoreError reports a failed persistence call, tagged with the logical
// operation so the caller can retry or surface it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsFormat reports whether err is a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStructural reports whether err is a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// IsStore reports whether err is a StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
