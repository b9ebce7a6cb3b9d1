package errors

import (
	"errors"
	"fmt"
	"os"
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
		{name: "file not found error type", errType: ErrTypeFileNotFound, expected: "FileNotFound"},
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "render error type", errType: ErrTypeRender, expected: "RENDER"},
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
			name:        "error without cause",
			appError:    &AppError{Type: ErrTypeParsing, Message: "bad header"},
			wantMessage: "[PARSING] bad header",
		},
		{
			name:        "error with cause",
			appError:    &AppError{Type: ErrTypeStorage, Message: "write failed", Cause: fmt.Errorf("disk full")},
			wantMessage: "[STORAGE] write failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := NewFileNotFoundError("data/rates.csv", cause)

	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "data/rates.csv", err.Context["path"])
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeConfig, Message: "bad value"}
	err.WithContext("field", "story.rolling_window").WithContext("value", 0)

	require.Len(t, err.Context, 2)
	assert.Equal(t, "story.rolling_window", err.Context["field"])
	assert.Equal(t, 0, err.Context["value"])
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("load step: %w", NewFileNotFoundError("missing.csv", os.ErrNotExist))

	assert.Equal(t, ErrTypeFileNotFound, TypeOf(wrapped))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}

func TestHelperConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{"parsing", NewParsingError("row 3", nil), ErrTypeParsing, "row 3"},
		{"storage", NewStorageError("save workbook", nil), ErrTypeStorage, "save workbook"},
		{"validation", NewAppValidationError("window must be positive"), ErrTypeValidation, "window must be positive"},
		{"not found", NewNotFoundError("column US_dollar"), ErrTypeNotFound, "column US_dollar not found"},
		{"config", NewConfigError("load yaml", nil), ErrTypeConfig, "load yaml"},
		{"render", NewRenderError("panel", nil), ErrTypeRender, "panel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
			assert.NotNil(t, tt.err.Context)
		})
	}
}
