package resilience

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatus() int { return int(e) }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("invalid json"), false},
		{"explicit", NewTransientError(errors.New("busy"), 503), true},
		{"wrapped with eris", eris.Wrap(NewTransientError(errors.New("busy"), 429), "llm: generate"), true},
		{"conn reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"conn refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"net timeout", &net.DNSError{Err: "timeout", IsTimeout: true}, true},
		{"message pattern", errors.New("Post: TLS handshake timeout"), true},
		{"api 429", eris.Wrap(statusErr(429), "jina: search"), true},
		{"api 400", statusErr(400), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestFromStatus(t *testing.T) {
	base := errors.New("status error")

	assert.True(t, IsTransient(FromStatus(base, 429)))
	assert.True(t, IsTransient(FromStatus(base, 529)))
	assert.False(t, IsTransient(FromStatus(base, 400)))
	assert.Same(t, base, FromStatus(base, 401))
	assert.NoError(t, FromStatus(nil, 500))

	var te *TransientError
	assert.True(t, errors.As(FromStatus(base, 502), &te))
	assert.Equal(t, 502, te.StatusCode)
	assert.ErrorIs(t, te, base)
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504, 529} {
		assert.True(t, IsTransientHTTPStatus(code), code)
	}
	for _, code := range []int{200, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), code)
	}
}
