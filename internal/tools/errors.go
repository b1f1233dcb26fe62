package tools

import "errors"

// Failure kinds reported by the external tool adapters. Handlers branch on
// these instead of matching error text.
var (
	ErrNotFound    = errors.New("output not found")
	ErrToolFailure = errors.New("tool failure")
	ErrTimeout     = errors.New("tool timeout")
	ErrEmptyResult = errors.New("empty result")
)
