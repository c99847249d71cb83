package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindUnauthorized: http.StatusForbidden,
		KindNotFound:     http.StatusNotFound,
		KindTimeout:      http.StatusRequestTimeout,
		KindRateLimited:  http.StatusTooManyRequests,
		KindBadGateway:   http.StatusBadGateway,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.Status(), string(kind))
		assert.Equal(t, want, New(kind, "x").StatusCode, string(kind))
	}
}

func TestFromPassesThroughWrappedAppError(t *testing.T) {
	orig := Validation("bad date")
	wrapped := fmt.Errorf("handler: %w", orig)

	got := From(wrapped)
	require.NotNil(t, got)
	assert.Same(t, orig, got)
	assert.True(t, got.Operational)
	assert.Equal(t, http.StatusBadRequest, StatusOf(wrapped))
}

func TestFromPlainErrorIsNonOperational(t *testing.T) {
	cause := errors.New("nil map write")
	got := From(cause)

	assert.Equal(t, KindInternal, got.Kind)
	assert.False(t, got.Operational)
	assert.ErrorIs(t, got, cause)
	assert.Nil(t, From(nil))
	assert.Equal(t, http.StatusOK, StatusOf(nil))
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(KindTimeout, "upstream request timeout", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "upstream request timeout: dial tcp: connection refused", err.Error())
	assert.True(t, Is(err, KindTimeout))
	assert.False(t, Is(err, KindNotFound))
}

func TestStackCaptured(t *testing.T) {
	err := Validationf("page must be >= %d", 1)
	assert.Equal(t, "page must be >= 1", err.Message)
	assert.Contains(t, err.Stack(), "TestStackCaptured")
}
