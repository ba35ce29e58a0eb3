/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"reflect"
	"testing"
)

type fakeSubject struct{}
type fakeRenderer struct{}
type fakeCodec struct{}

var (
	subjectType  = reflect.TypeOf(fakeSubject{})
	rendererType = reflect.TypeOf(fakeRenderer{})
	codecType    = reflect.TypeOf(fakeCodec{})
)

func TestMissingCapabilityError(t *testing.T) {
	err := NewMissingCapability(subjectType, rendererType, []reflect.Type{codecType})

	expected := `no capability registered as errors.fakeRenderer for subject errors.fakeSubject (registered types: errors.fakeCodec)`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("MissingCapabilityError should match ErrNotFound")
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for MissingCapabilityError")
	}
}

func TestMissingCapabilityErrorNoTypes(t *testing.T) {
	err := NewMissingCapability(subjectType, rendererType, nil)

	expected := `no capability registered as errors.fakeRenderer for subject errors.fakeSubject (registered types: none)`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}

func TestDuplicatePrimaryError(t *testing.T) {
	err := NewDuplicatePrimary(subjectType, rendererType, codecType)

	expected := `multiple primary capabilities for subject errors.fakeSubject: errors.fakeRenderer and errors.fakeCodec`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrDuplicatePrimary) {
		t.Error("DuplicatePrimaryError should match ErrDuplicatePrimary")
	}
	if !IsDuplicatePrimary(err) {
		t.Error("IsDuplicatePrimary should return true for DuplicatePrimaryError")
	}
}

func TestSpentBuilderError(t *testing.T) {
	err := NewSpentBuilder(subjectType, "Add")

	expected := `Add on builder for subject errors.fakeSubject: builder already built`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrBuilderSpent) {
		t.Error("SpentBuilderError should match ErrBuilderSpent")
	}
	if !IsBuilderSpent(err) {
		t.Error("IsBuilderSpent should return true for SpentBuilderError")
	}
}

func TestContractError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "with contract type",
			err:      NewContractError(rendererType, codecType, "capability type does not satisfy it"),
			expected: `capability errors.fakeRenderer cannot be registered as errors.fakeCodec: capability type does not satisfy it`,
		},
		{
			name:     "without contract type",
			err:      NewContractError(rendererType, nil, "nil tag"),
			expected: `capability errors.fakeRenderer: nil tag`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, tt.err.Error())
			}
			if !IsInvalidContract(tt.err) {
				t.Error("IsInvalidContract should return true for ContractError")
			}
		})
	}
}

func TestNoPrimaryError(t *testing.T) {
	err := NewNoPrimary(subjectType)

	expected := `subject errors.fakeSubject has no primary capability`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsNoPrimary(err) {
		t.Error("IsNoPrimary should return true for NoPrimaryError")
	}
}

func TestSubjectNotFoundError(t *testing.T) {
	err := NewSubjectNotFound(subjectType)

	expected := `subject of type errors.fakeSubject is not registered`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsSubjectNotFound(err) {
		t.Error("IsSubjectNotFound should return true for SubjectNotFoundError")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "subject",
			message:  "subject must not be nil",
			expected: `validation failed for "subject": subject must not be nil`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "missing configuration",
			expected: "validation failed: missing configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)
			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}
			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNilCapability, ErrInvalidContract, ErrBuilderSpent,
		ErrDuplicatePrimary, ErrPrimarySet, ErrNoPrimary,
		ErrNotFound, ErrSubjectNotFound, ErrInvalidInput,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("Sentinel %v should not match %v", a, b)
			}
		}
	}
}
