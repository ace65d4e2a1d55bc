package errors

import "errors"

var (
	ErrInvalid          = errors.New("invalid request")
	ErrNotReady         = errors.New("service not ready")
	ErrUpstream         = errors.New("upstream call failed")
	ErrIndexUnavailable = errors.New("vector index unavailable")
	ErrInternal         = errors.New("internal")
)

func IsNotReady(err error) bool {
	return errors.Is(err, ErrNotReady)
}

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
