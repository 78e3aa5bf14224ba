package geo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evcraddock/emprende-tacna/internal/platform"
)

// ErrUnavailable classifies every geolocation failure.
var ErrUnavailable = platform.ErrUnavailable

// ErrorCode follows the W3C GeolocationPositionError numbering.
type ErrorCode int

const (
	Unsupported         ErrorCode = 0
	PermissionDenied    ErrorCode = 1
	PositionUnavailable ErrorCode = 2
	Timeout             ErrorCode = 3
)

// Message returns the user-facing text for the code.
func (c ErrorCode) Message() string {
	switch c {
	case Unsupported:
		return "La geolocalización no es soportada por tu navegador."
	case PermissionDenied:
		return "Permiso de ubicación denegado."
	case PositionUnavailable:
		return "Información de ubicación no disponible."
	case Timeout:
		return "Tiempo de espera agotado."
	default:
		return "Error al obtener la ubicación."
	}
}

func (c ErrorCode) String() string {
	switch c {
	case Unsupported:
		return "unsupported"
	case PermissionDenied:
		return "permission_denied"
	case PositionUnavailable:
		return "position_unavailable"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("code_%d", int(c))
	}
}

// Error is a failed position request. Err is set when the caller gave up
// waiting, for example on a cancelled context.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "locating: " + e.Code.String() + ": " + e.Err.Error()
	}
	return "locating: " + e.Code.String()
}

// Unwrap lets callers test errors.Is(err, ErrUnavailable) and match the
// underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUnavailable, e.Err}
	}
	return []error{ErrUnavailable}
}

// Options mirrors the request options a browser accepts.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// DefaultOptions are the options the directory always requests with.
var DefaultOptions = Options{
	HighAccuracy: true,
	Timeout:      10 * time.Second,
	MaximumAge:   60 * time.Second,
}

// Provider issues a single position request. Exactly one of the callbacks
// is expected to be invoked, possibly from another goroutine.
type Provider interface {
	RequestPosition(opts Options, onSuccess func(Position), onError func(ErrorCode))
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(opts Options, onSuccess func(Position), onError func(ErrorCode))

// RequestPosition calls f.
func (f ProviderFunc) RequestPosition(opts Options, onSuccess func(Position), onError func(ErrorCode)) {
	f(opts, onSuccess, onError)
}

// Fixed answers every request with Pos, or with Err when Err is non-zero.
type Fixed struct {
	Pos Position
	Err ErrorCode
}

// RequestPosition implements Provider.
func (f Fixed) RequestPosition(_ Options, onSuccess func(Position), onError func(ErrorCode)) {
	if f.Err != 0 {
		onError(f.Err)
		return
	}
	if !f.Pos.Valid() {
		onError(PositionUnavailable)
		return
	}
	onSuccess(f.Pos)
}

// Locate issues one request to p and waits for its answer. A provider that
// stays silent past opts.Timeout is reported as Timeout. There is no retry.
func Locate(ctx context.Context, p Provider, opts Options) (Position, error) {
	if p == nil {
		return Position{}, &Error{Code: Unsupported}
	}

	type answer struct {
		pos  Position
		code ErrorCode
		ok   bool
	}
	ch := make(chan answer, 1)
	var once sync.Once
	send := func(a answer) {
		once.Do(func() { ch <- a })
	}

	p.RequestPosition(opts,
		func(pos Position) { send(answer{pos: pos, ok: true}) },
		func(code ErrorCode) { send(answer{code: code}) },
	)

	var timeout <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	result := func(a answer) (Position, error) {
		if !a.ok {
			return Position{}, &Error{Code: a.code}
		}
		return a.pos, nil
	}

	// An answer given during RequestPosition wins over a done context.
	select {
	case a := <-ch:
		return result(a)
	default:
	}

	select {
	case a := <-ch:
		return result(a)
	case <-timeout:
		return Position{}, &Error{Code: Timeout}
	case <-ctx.Done():
		return Position{}, &Error{Code: Timeout, Err: ctx.Err()}
	}
}
