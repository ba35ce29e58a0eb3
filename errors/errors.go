/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Common sentinel errors
var (
	// ErrNilCapability is returned when a nil capability is registered
	ErrNilCapability = errors.New("nil capability")

	// ErrInvalidContract is returned when a registration type cannot hold the capability
	ErrInvalidContract = errors.New("invalid registration type")

	// ErrBuilderSpent is returned when a builder is used after Build
	ErrBuilderSpent = errors.New("builder already built")

	// ErrDuplicatePrimary is returned when more than one primary capability is registered
	ErrDuplicatePrimary = errors.New("duplicate primary capability")

	// ErrPrimarySet is returned when SetPrimary is called while a primary is already designated
	ErrPrimarySet = errors.New("primary capability already set")

	// ErrNoPrimary is returned when a primary capability is required but none exists
	ErrNoPrimary = errors.New("no primary capability")

	// ErrNotFound is returned when no capability is registered under the requested type
	ErrNotFound = errors.New("capability not found")

	// ErrSubjectNotFound is returned when a subject has no registered composition
	ErrSubjectNotFound = errors.New("subject not registered")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// MissingCapabilityError reports a required capability that was never
// registered, enumerating the registration types actually present.
type MissingCapabilityError struct {
	SubjectType reflect.Type
	Requested   reflect.Type
	Present     []reflect.Type
}

func (e *MissingCapabilityError) Error() string {
	present := "none"
	if len(e.Present) > 0 {
		names := make([]string, len(e.Present))
		for i, t := range e.Present {
			names[i] = t.String()
		}
		present = strings.Join(names, ", ")
	}
	return fmt.Sprintf("no capability registered as %s for subject %s (registered types: %s)",
		e.Requested, e.SubjectType, present)
}

func (e *MissingCapabilityError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicatePrimaryError reports two primary-marked capabilities colliding
// on the same subject.
type DuplicatePrimaryError struct {
	SubjectType reflect.Type
	First       reflect.Type
	Second      reflect.Type
}

func (e *DuplicatePrimaryError) Error() string {
	return fmt.Sprintf("multiple primary capabilities for subject %s: %s and %s",
		e.SubjectType, e.First, e.Second)
}

func (e *DuplicatePrimaryError) Is(target error) bool {
	return target == ErrDuplicatePrimary
}

// SpentBuilderError reports use of a builder after Build has been called.
type SpentBuilderError struct {
	SubjectType reflect.Type
	Op          string
}

func (e *SpentBuilderError) Error() string {
	return fmt.Sprintf("%s on builder for subject %s: builder already built", e.Op, e.SubjectType)
}

func (e *SpentBuilderError) Is(target error) bool {
	return target == ErrBuilderSpent
}

// ContractError reports a registration type that cannot hold the capability.
type ContractError struct {
	Capability reflect.Type
	Contract   reflect.Type
	Reason     string
}

func (e *ContractError) Error() string {
	if e.Contract == nil {
		return fmt.Sprintf("capability %s: %s", e.Capability, e.Reason)
	}
	return fmt.Sprintf("capability %s cannot be registered as %s: %s", e.Capability, e.Contract, e.Reason)
}

func (e *ContractError) Is(target error) bool {
	return target == ErrInvalidContract
}

// NoPrimaryError reports a missing primary capability on a subject.
type NoPrimaryError struct {
	SubjectType reflect.Type
}

func (e *NoPrimaryError) Error() string {
	return fmt.Sprintf("subject %s has no primary capability", e.SubjectType)
}

func (e *NoPrimaryError) Is(target error) bool {
	return target == ErrNoPrimary
}

// SubjectNotFoundError reports a registry lookup for an unregistered subject.
type SubjectNotFoundError struct {
	SubjectType reflect.Type
}

func (e *SubjectNotFoundError) Error() string {
	return fmt.Sprintf("subject of type %s is not registered", e.SubjectType)
}

func (e *SubjectNotFoundError) Is(target error) bool {
	return target == ErrSubjectNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewMissingCapability creates a new MissingCapabilityError
func NewMissingCapability(subject, requested reflect.Type, present []reflect.Type) error {
	return &MissingCapabilityError{SubjectType: subject, Requested: requested, Present: present}
}

// NewDuplicatePrimary creates a new DuplicatePrimaryError
func NewDuplicatePrimary(subject, first, second reflect.Type) error {
	return &DuplicatePrimaryError{SubjectType: subject, First: first, Second: second}
}

// NewSpentBuilder creates a new SpentBuilderError
func NewSpentBuilder(subject reflect.Type, op string) error {
	return &SpentBuilderError{SubjectType: subject, Op: op}
}

// NewContractError creates a new ContractError
func NewContractError(capability, contract reflect.Type, reason string) error {
	return &ContractError{Capability: capability, Contract: contract, Reason: reason}
}

// NewNoPrimary creates a new NoPrimaryError
func NewNoPrimary(subject reflect.Type) error {
	return &NoPrimaryError{SubjectType: subject}
}

// NewSubjectNotFound creates a new SubjectNotFoundError
func NewSubjectNotFound(subject reflect.Type) error {
	return &SubjectNotFoundError{SubjectType: subject}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a capability-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBuilderSpent checks if an error reports a spent builder
func IsBuilderSpent(err error) bool {
	return errors.Is(err, ErrBuilderSpent)
}

// IsDuplicatePrimary checks if an error reports colliding primary capabilities
func IsDuplicatePrimary(err error) bool {
	return errors.Is(err, ErrDuplicatePrimary)
}

// IsInvalidContract checks if an error reports an invalid registration type
func IsInvalidContract(err error) bool {
	return errors.Is(err, ErrInvalidContract)
}

// IsSubjectNotFound checks if an error reports an unregistered subject
func IsSubjectNotFound(err error) bool {
	return errors.Is(err, ErrSubjectNotFound)
}

// IsNoPrimary checks if an error reports a missing primary capability
func IsNoPrimary(err error) bool {
	return errors.Is(err, ErrNoPrimary)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
