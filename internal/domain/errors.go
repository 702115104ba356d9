package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for proxy operations
var (
	// ErrMissingInitializer is returned when a proxy deployment has no initializer ABI
	ErrMissingInitializer = errors.New("cannot deploy proxy: missing initialize ABI")

	// ErrMissingImplementation is returned when an upgrade has no new implementation address
	ErrMissingImplementation = errors.New("cannot upgrade: missing implementation address")

	// ErrMissingProxy is returned when an upgrade has no proxy address
	ErrMissingProxy = errors.New("cannot upgrade: missing proxy address")

	// ErrPatternNotImplemented is returned for detected patterns that cannot be deployed yet
	ErrPatternNotImplemented = errors.New("proxy pattern not implemented")

	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")
)

// EncodingError is returned when arguments cannot be ABI encoded
type EncodingError struct {
	Target string // function or constructor signature
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode %s: %v", e.Target, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// DispatchError wraps a failure raised by the transaction dispatch service
type DispatchError struct {
	Op  string // "deploy" or "upgrade"
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("failed to dispatch proxy %s: %v", e.Op, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// NotEligibleErr is returned when a contract cannot be used with a proxy
type NotEligibleErr struct {
	File     string
	Contract string
	Kind     PatternKind
}

func (e NotEligibleErr) Error() string {
	return fmt.Sprintf("contract %s in %s is not eligible for proxy deployment (pattern: %s)", e.Contract, e.File, e.Kind)
}

// SourceNotFoundErr is returned when no build output contains a source file
type SourceNotFoundErr struct {
	File string
}

func (e SourceNotFoundErr) Error() string {
	return fmt.Sprintf("no compilation output found for %s (did forge build run with --build-info?)", e.File)
}
