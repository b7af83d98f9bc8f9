package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	require.Error(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		require.Error(t, wrapped)
		assert.Equal(t, "wrapped: base error", wrapped.Error())
		assert.ErrorIs(t, wrapped, baseErr)
	})

	t.Run("wrap nil error", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "wrapped"))
	})

	t.Run("domain sentinel keeps generic sentinel", func(t *testing.T) {
		keyNotFound := Wrap(ErrNotFound, "key not found")
		withContext := Wrap(keyNotFound, "decrypt")
		assert.True(t, Is(withContext, keyNotFound))
		assert.True(t, Is(withContext, ErrNotFound))
		assert.False(t, Is(withContext, ErrConflict))
	})
}

func TestWrapf(t *testing.T) {
	baseErr := errors.New("base error")

	wrapped := Wrapf(baseErr, "wrapped %d", 123)
	require.Error(t, wrapped)
	assert.Equal(t, "wrapped 123: base error", wrapped.Error())
	assert.ErrorIs(t, wrapped, baseErr)

	assert.NoError(t, Wrapf(nil, "wrapped %d", 1))
}

func TestAs(t *testing.T) {
	err := Wrap(customError{Msg: "custom"}, "context")

	var target customError
	require.True(t, As(err, &target))
	assert.Equal(t, "custom", target.Msg)
}
