package ai

import "errors"

// ErrUnavailable means the provider has no usable credentials.
var ErrUnavailable = errors.New("ai provider unavailable")
