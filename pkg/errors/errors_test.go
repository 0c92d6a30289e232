package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeCacheError, "failed to store dataset")

	assert.Equal(t, ErrCodeCacheError, err.Code)
	assert.Contains(t, err.Error(), "DATA_002")
	assert.Contains(t, err.Error(), "failed to store dataset")
	assert.NotEmpty(t, err.Stack)
}

func TestWrap(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	})

	t.Run("wraps and preserves cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := Wrap(cause, ErrCodeSerialization, "encode failed")

		assert.Equal(t, ErrCodeSerialization, err.Code)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("unknown code inherits code and stage from chain", func(t *testing.T) {
		inner := Stage(errors.New("boom"), "sample")
		err := Wrap(inner, CodeUnknown, "pipeline failed")

		assert.Equal(t, ErrCodePipelineStage, err.Code)
		assert.Equal(t, "sample", err.Stage)
	})
}

func TestWithStage(t *testing.T) {
	err := New(ErrCodeInternal, "boom").WithStage("viewport")

	assert.Equal(t, "viewport", err.Stage)
	assert.Contains(t, err.Error(), "(stage=viewport)")

	var nilErr *AppError
	assert.Nil(t, nilErr.WithStage("x"))
}

func TestStage(t *testing.T) {
	assert.Nil(t, Stage(nil, "sample"))

	err := Stage(errors.New("index out of range"), "sample")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodePipelineStage, err.Code)
	assert.Equal(t, "sample", GetStage(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, "sample", GetStage(wrapped))
}

func TestValidation(t *testing.T) {
	t.Run("empty violations is nil", func(t *testing.T) {
		assert.Nil(t, Validation(nil))
	})

	t.Run("itemizes every violation", func(t *testing.T) {
		err := Validation([]FieldViolation{
			{Field: "p_value_threshold", Constraint: "must be in [0,1]", Value: "1.5"},
			{Field: "zoom_level", Constraint: "must be in [0.1,100]", Value: "0"},
		})
		require.NotNil(t, err)

		assert.True(t, IsValidation(err))
		assert.Len(t, err.Violations, 2)
		assert.Contains(t, err.Error(), "p_value_threshold")
		assert.Contains(t, err.Error(), "zoom_level")
	})
}

func TestIsCodeTraversesChain(t *testing.T) {
	inner := New(ErrCodeMemoryPressure, "over ceiling")
	outer := fmt.Errorf("request failed: %w", inner)

	assert.True(t, IsCode(outer, ErrCodeMemoryPressure))
	assert.True(t, IsMemoryPressure(outer))
	assert.False(t, IsCode(outer, ErrCodeCacheError))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(errors.New("plain")))
	assert.Equal(t, ErrCodeValidation, GetCode(Validation([]FieldViolation{{Field: "f", Constraint: "c"}})))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, 422, HTTPStatusForCode(ErrCodeValidation))
	assert.Equal(t, 400, HTTPStatusForCode(ErrCodeBadRequest))
	assert.Equal(t, 500, HTTPStatusForCode(ErrorCode("NOPE_999")))

	assert.True(t, IsClientError(ErrCodeValidation))
	assert.True(t, IsServerError(ErrCodePipelineStage))
}
