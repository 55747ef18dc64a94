package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrIndexOutOfRange", ErrIndexOutOfRange},
		{"ErrMisalignedExtraction", ErrMisalignedExtraction},
		{"ErrMalformedRecord", ErrMalformedRecord},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrAuthRequired", ErrAuthRequired},
		{"ErrAuthInvalid", ErrAuthInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestRateLimitError(t *testing.T) {
	t.Run("message includes reset time", func(t *testing.T) {
		reset := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		err := &RateLimitError{ResetAt: reset}

		assert.Contains(t, err.Error(), "2024-05-01T12:00:00Z")
	})

	t.Run("message without reset time", func(t *testing.T) {
		err := &RateLimitError{}

		assert.Equal(t, "rate limit exceeded", err.Error())
	})

	t.Run("matches ErrRateLimited when wrapped", func(t *testing.T) {
		err := fmt.Errorf("get pull 3: %w", &RateLimitError{})

		assert.True(t, errors.Is(err, ErrRateLimited))
		assert.True(t, IsRateLimited(err))
	})

	t.Run("distinct from index out of range", func(t *testing.T) {
		assert.False(t, IsRateLimited(ErrIndexOutOfRange))
		assert.False(t, errors.Is(&RateLimitError{}, ErrIndexOutOfRange))
	})
}

func TestMalformedRecordError(t *testing.T) {
	err := fmt.Errorf("extract: %w", &MalformedRecordError{Entity: "pull request", Index: 2, Field: "user"})

	assert.True(t, errors.Is(err, ErrMalformedRecord))
	assert.Contains(t, err.Error(), "pull request record at index 2: missing user")

	var mre *MalformedRecordError
	assert.True(t, errors.As(err, &mre))
	assert.Equal(t, 2, mre.Index)
}
