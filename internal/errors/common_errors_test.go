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
		{name: "load error type", errType: ErrTypeLoad, expected: "LOAD"},
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "invariant error type", errType: ErrTypeInvariant, expected: "INVARIANT"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeLoad,
				Message: "header mismatch",
			},
			wantMessage: "[LOAD] header mismatch",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "invalid vote_count",
				Cause:   fmt.Errorf("strconv.ParseInt: parsing \"x\": invalid syntax"),
			},
			wantMessage: "[PARSING] invalid vote_count: strconv.ParseInt: parsing \"x\": invalid syntax",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("file does not exist")
	err := NewLoadError("cannot open input", cause)

	assert.Same(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	noCause := NewInvariantError("duplicate row survived cleaning")
	assert.Nil(t, noCause.Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		key      string
		value    interface{}
	}{
		{
			name:     "add line number",
			appError: &AppError{Type: ErrTypeLoad, Message: "ragged row"},
			key:      "line",
			value:    42,
		},
		{
			name: "add to existing context",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "bad cell",
				Context: map[string]interface{}{"column": "release_date"},
			},
			key:   "value",
			value: "13/45/99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.WithContext(tt.key, tt.value)

			assert.Same(t, tt.appError, result)
			require.Contains(t, result.Context, tt.key)
			assert.Equal(t, tt.value, result.Context[tt.key])
		})
	}
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{name: "load", err: NewLoadError("m", cause), wantType: ErrTypeLoad},
		{name: "parsing", err: NewParsingError("m", cause), wantType: ErrTypeParsing},
		{name: "invariant", err: NewInvariantError("m"), wantType: ErrTypeInvariant},
		{name: "storage", err: NewStorageError("m", cause), wantType: ErrTypeStorage},
		{name: "validation", err: NewAppValidationError("m"), wantType: ErrTypeValidation},
		{name: "not found", err: NewNotFoundError("input file"), wantType: ErrTypeNotFound},
		{name: "config", err: NewConfigError("m", cause), wantType: ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}

	assert.Equal(t, "input file not found", NewNotFoundError("input file").Message)
}

func TestIsType(t *testing.T) {
	parseErr := NewParsingError("invalid release_date", errors.New("bad layout"))
	wrapped := fmt.Errorf("clean table: %w", parseErr)
	nested := NewLoadError("load failed", parseErr)

	assert.True(t, IsType(parseErr, ErrTypeParsing))
	assert.True(t, IsType(wrapped, ErrTypeParsing))
	assert.False(t, IsType(wrapped, ErrTypeLoad))
	assert.True(t, IsType(nested, ErrTypeLoad))
	assert.True(t, IsType(nested, ErrTypeParsing))
	assert.False(t, IsType(errors.New("plain"), ErrTypeParsing))
	assert.False(t, IsType(nil, ErrTypeParsing))
}
