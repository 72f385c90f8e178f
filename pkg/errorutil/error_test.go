package errorutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("empty description")))
	assert.Equal(t, KindDepthExceeded, KindOf(DepthExceeded("capped at %d", 5)))
	assert.Equal(t, KindNonContiguousLevel, KindOf(NonContiguousLevel("gap")))
	assert.Equal(t, KindUnknownCategory, KindOf(UnknownCategory("weather")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestKindOfWrapped(t *testing.T) {
	// Kinds survive fmt.Errorf %w wrapping through the processor chain.
	err := fmt.Errorf("processor[1] failed: %w", DepthExceeded("capped"))
	assert.Equal(t, KindDepthExceeded, KindOf(err))
	assert.True(t, IsRejection(err))
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(Validation("v")))
	assert.True(t, IsRejection(UnknownCategory("c")))
	assert.False(t, IsRejection(Retriable("network down")))
	assert.False(t, IsRejection(errors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Retriable("network down")))
	assert.True(t, IsRetryable(fmt.Errorf("wrap: %w", RetriableWithDetails("db", "dsn"))))
	assert.False(t, IsRetryable(Validation("v")))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil))

	orig := Validation("empty")
	assert.Same(t, orig, Wrap(orig))

	wrapped := Wrap(errors.New("boom"))
	assert.Equal(t, KindInternal, wrapped.Kind)
	assert.False(t, wrapped.Retryable)
	assert.Equal(t, "boom", wrapped.Message)
}
