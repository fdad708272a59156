package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"client", apperr.Client("title is required"), apperr.KindClient},
		{"forbidden", apperr.Forbidden("nope"), apperr.KindAuthorization},
		{"not found", apperr.NotFound("post not found"), apperr.KindNotFound},
		{"conflict", apperr.Conflict("dup"), apperr.KindConflict},
		{"unauthenticated", apperr.Unauthenticated("no token"), apperr.KindUnauthenticated},
		{"wrapped", fmt.Errorf("handler: %w", apperr.NotFound("gone")), apperr.KindNotFound},
		{"plain", errors.New("boom"), apperr.KindServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.KindOf(tt.err))
		})
	}
}

func TestServer_UnwrapsCause(t *testing.T) {
	cause := errors.New("socket closed")
	err := apperr.Server("failed to load feed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load feed: socket closed", err.Error())
	assert.True(t, apperr.Is(err, apperr.KindServer))
	assert.False(t, apperr.Is(nil, apperr.KindServer))
}
