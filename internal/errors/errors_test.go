package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{
			name:     "file not found error type",
			errType:  ErrTypeFileNotFound,
			expected: "FILE_NOT_FOUND",
		},
		{
			name:     "schema error type",
			errType:  ErrTypeSchema,
			expected: "SCHEMA",
		},
		{
			name:     "validation error type",
			errType:  ErrTypeValidation,
			expected: "VALIDATION",
		},
		{
			name:     "empty input error type",
			errType:  ErrTypeEmptyInput,
			expected: "EMPTY_INPUT",
		},
		{
			name:     "storage error type",
			errType:  ErrTypeStorage,
			expected: "STORAGE",
		},
		{
			name:     "config error type",
			errType:  ErrTypeConfig,
			expected: "CONFIG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestPipelineError_Error(t *testing.T) {
	tests := []struct {
		name        string
		err         *PipelineError
		wantMessage string
	}{
		{
			name: "error without cause",
			err: &PipelineError{
				Type:    ErrTypeEmptyInput,
				Message: "no data rows after cleaning",
				Cause:   nil,
			},
			wantMessage: "[EMPTY_INPUT] no data rows after cleaning",
		},
		{
			name: "error with cause",
			err: &PipelineError{
				Type:    ErrTypeStorage,
				Message: "failed to create output file",
				Cause:   fmt.Errorf("permission denied"),
			},
			wantMessage: "[STORAGE] failed to create output file: permission denied",
		},
		{
			name: "error with wrapped cause",
			err: &PipelineError{
				Type:    ErrTypeSchema,
				Message: "missing required column",
				Cause:   errors.New("header has 2 fields, want 3"),
			},
			wantMessage: "[SCHEMA] missing required column: header has 2 fields, want 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.err.Error())
		})
	}
}

func TestPipelineError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := New(ErrTypeStorage, "write failed", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	var pe *PipelineError
	require.True(t, errors.As(fmt.Errorf("save results: %w", err), &pe))
	assert.Equal(t, ErrTypeStorage, pe.Type)
}

func TestPipelineError_WithContext(t *testing.T) {
	err := NewValidationError("area is not numeric").
		WithContext("line", 42).
		WithContext("region", "Amazonia")

	assert.Equal(t, 42, err.Context["line"])
	assert.Equal(t, "Amazonia", err.Context["region"])
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{
			name: "direct pipeline error",
			err:  NewSchemaError("unmapped header", nil),
			want: ErrTypeSchema,
		},
		{
			name: "wrapped pipeline error",
			err:  fmt.Errorf("load dataset: %w", NewEmptyInputError("no rows")),
			want: ErrTypeEmptyInput,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
			if tt.want != "" {
				assert.True(t, IsType(tt.err, tt.want))
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not fatal",
			err:  nil,
			want: false,
		},
		{
			name: "row validation error is recoverable",
			err:  NewRowValidationError(7, "year out of range"),
			want: false,
		},
		{
			name: "wrapped validation error is recoverable",
			err:  fmt.Errorf("parse row: %w", NewValidationError("bad area")),
			want: false,
		},
		{
			name: "file not found is fatal",
			err:  NewFileNotFoundError("data/missing.csv", nil),
			want: true,
		},
		{
			name: "schema error is fatal",
			err:  NewSchemaError("no region column", nil),
			want: true,
		},
		{
			name: "empty input is fatal",
			err:  NewEmptyInputError("input has a header but no rows"),
			want: true,
		},
		{
			name: "plain error is fatal",
			err:  errors.New("unexpected"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestHelperConstructors(t *testing.T) {
	t.Run("file not found carries path context", func(t *testing.T) {
		err := NewFileNotFoundError("data/raw.csv", nil)
		assert.Equal(t, ErrTypeFileNotFound, err.Type)
		assert.Equal(t, "data/raw.csv", err.Context["path"])
		assert.Contains(t, err.Error(), "data/raw.csv")
	})

	t.Run("row validation carries line context", func(t *testing.T) {
		err := NewRowValidationError(13, "region is empty")
		assert.Equal(t, ErrTypeValidation, err.Type)
		assert.Equal(t, 13, err.Context["line"])
	})

	t.Run("config error wraps cause", func(t *testing.T) {
		cause := errors.New("yaml: line 3: mapping values are not allowed")
		err := NewConfigError("failed to parse config file", cause)
		assert.Equal(t, ErrTypeConfig, err.Type)
		assert.True(t, errors.Is(err, cause))
	})
}
