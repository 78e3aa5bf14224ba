// Package platform holds what the adapters over the host environment
// (storage, geolocation) share.
package platform

import "errors"

// ErrUnavailable classifies every failure of the host environment: storage
// that cannot be read or written, or a position that cannot be obtained.
var ErrUnavailable = errors.New("environment unavailable")
