package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	err := New(CodeConflict, "round already paid out")
	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(nil, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeConflict))
}

func TestWrap(t *testing.T) {
	t.Run("preserves the cause for errors.Is", func(t *testing.T) {
		cause := errors.New("row not found")
		err := Wrap(cause, CodeNotFound, "pool not found")
		assert.ErrorIs(t, err, cause)
		assert.True(t, HasCode(err, CodeNotFound))
		assert.Equal(t, "pool not found: row not found", err.Error())
	})

	t.Run("nil in, nil out", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, CodeInternal, "whatever"))
	})

	t.Run("outermost code wins through a wrap chain", func(t *testing.T) {
		inner := New(CodeConflict, "version mismatch")
		outer := Wrap(inner, CodeUnavailable, "retry later")
		assert.Equal(t, CodeUnavailable, CodeOf(outer))
	})

	t.Run("survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("operation failed: %w", New(CodeTooEarly, "cycle incomplete"))
		assert.True(t, HasCode(err, CodeTooEarly))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeForbidden, CodeOf(New(CodeForbidden, "nope")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("uncoded")))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:         http.StatusBadRequest,
		CodeInvalidInput:       http.StatusBadRequest,
		CodeUnauthorized:       http.StatusUnauthorized,
		CodeForbidden:          http.StatusForbidden,
		CodeNotFound:           http.StatusNotFound,
		CodeConflict:           http.StatusConflict,
		CodeInvariantViolation: http.StatusConflict,
		CodeTooEarly:           http.StatusTooEarly,
		CodeUnavailable:        http.StatusServiceUnavailable,
		CodeInternal:           http.StatusInternalServerError,
		Code("unknown"):        http.StatusInternalServerError,
	}
	for code, want := range cases {
		require.Equal(t, want, HTTPStatus(code), "code %s", code)
	}
}
