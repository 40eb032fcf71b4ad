package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingFile reports an absent input, model or metadata file.
	ErrMissingFile = errors.New("missing file")
	// ErrShapeMismatch reports feature columns that do not match the trained order.
	ErrShapeMismatch = errors.New("feature shape mismatch")
	// ErrNotFitted reports a prediction attempted before fit or load.
	ErrNotFitted = errors.New("model not fitted")
	// ErrUnknownCategory reports a categorical value outside the known set.
	// It is never fatal: callers fall back to the reference encoding.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrNonFinite reports a NaN or infinite amount.
	ErrNonFinite = errors.New("non-finite value")
)

// ShapeMismatchError describes how a feature vector diverges from the trained layout.
type ShapeMismatchError struct {
	Want []string
	Got  []string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: want [%s], got [%s]", ErrShapeMismatch,
		strings.Join(e.Want, ", "), strings.Join(e.Got, ", "))
}

// Is reports ErrShapeMismatch equivalence for errors.Is.
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}
