package geo

import (
	"context"
	"errors"
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJitterStaysInBox(t *testing.T) {
	for _, r := range []float64{0, 0.25, 0.5, 0.999999} {
		p := Jitter(Center, JitterSpread, func() float64 { return r })
		assert.LessOrEqual(t, math.Abs(p.Lat-Center.Lat), JitterSpread/2)
		assert.LessOrEqual(t, math.Abs(p.Lng-Center.Lng), JitterSpread/2)
	}

	mid := Jitter(Center, JitterSpread, func() float64 { return 0.5 })
	assert.Equal(t, Center, mid)
}

func TestDirectionsURL(t *testing.T) {
	raw := DirectionsURL(Position{Lat: -18.01, Lng: -70.25})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "www.google.com", u.Host)
	assert.Equal(t, "/maps/dir/", u.Path)
	assert.Equal(t, "1", u.Query().Get("api"))
	assert.Equal(t, "-18.01,-70.25", u.Query().Get("destination"))
}

func TestPositionValid(t *testing.T) {
	assert.True(t, Center.Valid())
	assert.False(t, Position{Lat: 91}.Valid())
	assert.False(t, Position{Lng: -181}.Valid())
}

func TestLocateSuccess(t *testing.T) {
	want := Position{Lat: -18.0, Lng: -70.2}
	got, err := Locate(context.Background(), Fixed{Pos: want}, DefaultOptions)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLocateErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		want     ErrorCode
	}{
		{"nil provider", nil, Unsupported},
		{"permission denied", Fixed{Err: PermissionDenied}, PermissionDenied},
		{"unavailable", Fixed{Err: PositionUnavailable}, PositionUnavailable},
		{"timeout reported", Fixed{Err: Timeout}, Timeout},
		{"invalid position", Fixed{Pos: Position{Lat: 200}}, PositionUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Locate(context.Background(), tt.provider, DefaultOptions)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnavailable))

			var gerr *Error
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, tt.want, gerr.Code)
		})
	}
}

func TestLocateSilentProviderTimesOut(t *testing.T) {
	silent := ProviderFunc(func(Options, func(Position), func(ErrorCode)) {})

	_, err := Locate(context.Background(), silent, Options{Timeout: 10 * time.Millisecond})

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, Timeout, gerr.Code)
}

func TestLocateCancelledContextIsTimeout(t *testing.T) {
	silent := ProviderFunc(func(Options, func(Position), func(ErrorCode)) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Locate(ctx, silent, DefaultOptions)

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, Timeout, gerr.Code)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLocateImmediateAnswerBeatsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for range 20 {
		got, err := Locate(ctx, Fixed{Pos: Position{Lat: 1, Lng: 2}}, DefaultOptions)
		require.NoError(t, err)
		assert.Equal(t, Position{Lat: 1, Lng: 2}, got)
	}
}

func TestLocateAsyncAnswerUsedOnce(t *testing.T) {
	p := ProviderFunc(func(_ Options, ok func(Position), fail func(ErrorCode)) {
		go func() {
			ok(Position{Lat: 1, Lng: 2})
			fail(Timeout)
		}()
	})

	got, err := Locate(context.Background(), p, DefaultOptions)
	require.NoError(t, err)
	assert.Equal(t, Position{Lat: 1, Lng: 2}, got)
}

func TestErrorCodeMessages(t *testing.T) {
	assert.Equal(t, "Permiso de ubicación denegado.", PermissionDenied.Message())
	assert.Equal(t, "Información de ubicación no disponible.", PositionUnavailable.Message())
	assert.Equal(t, "Tiempo de espera agotado.", Timeout.Message())
	assert.Equal(t, "Error al obtener la ubicación.", ErrorCode(99).Message())
}
