// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "message only",
			err:      NewValidationError("bad payload"),
			expected: "bad payload",
		},
		{
			name:     "message with wrapped error",
			err:      NewInternalError("store write failed", errors.New("connection refused")),
			expected: "store write failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewConflictError("row has been modified", inner)
	assert.ErrorIs(t, err, inner)
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"validation error", NewValidationError("x"), ErrorTypeValidation},
		{"unauthorized error", NewUnauthorizedError("x"), ErrorTypeUnauthorized},
		{"not found error", NewNotFoundError("x"), ErrorTypeNotFound},
		{"conflict error", NewConflictError("x"), ErrorTypeConflict},
		{"internal error", NewInternalError("x"), ErrorTypeInternal},
		{"unavailable error", NewUnavailableError("x"), ErrorTypeUnavailable},
		{"plain error defaults to internal", errors.New("x"), ErrorTypeInternal},
		{"wrapped domain error", fmt.Errorf("outer: %w", NewNotFoundError("x")), ErrorTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorType(tt.err))
		})
	}
}
