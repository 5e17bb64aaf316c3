package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewAppError(ErrTypeNoData, "no data rows parsed from file", nil),
			want: "[NO_DATA] no data rows parsed from file",
		},
		{
			name: "with cause",
			err:  NewAppError(ErrTypeStorage, "failed to save workbook", stderrors.New("disk full")),
			want: "[FILESYSTEM_ERROR] failed to save workbook: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{
			name:     "structural error matches sentinel",
			err:      NewStructuralError("channel definition table header"),
			target:   ErrStructuralParse,
			expected: true,
		},
		{
			name:     "timestamp error matches sentinel",
			err:      NewTimestampError("25:99:99"),
			target:   ErrTimestampParse,
			expected: true,
		},
		{
			name:     "no data error matches sentinel",
			err:      NewNoDataError("input.csv"),
			target:   ErrNoData,
			expected: true,
		},
		{
			name:     "different types do not match",
			err:      NewStructuralError("data table header"),
			target:   ErrTimestampParse,
			expected: false,
		},
		{
			name:     "wrapped error still matches",
			err:      fmt.Errorf("parse failed: %w", NewNoDataError("input.csv")),
			target:   ErrNoData,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stderrors.Is(tt.err, tt.target))
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := NewTimestampError("garbage")
	require.NotNil(t, err.Context)
	assert.Equal(t, "garbage", err.Context["text"])

	err = err.WithContext("line", 42)
	assert.Equal(t, 42, err.Context["line"])
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := NewStorageError("write failed", cause)
	assert.Equal(t, cause, stderrors.Unwrap(err))
}
