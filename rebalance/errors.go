package rebalance

import "errors"

var (
	ErrUnknownRebalanceType = errors.New("unknown rebalance type")
	ErrUnknownEnumValue     = errors.New("unknown enum value")
	ErrBufferTooSmall       = errors.New("buffer too small")
	ErrValueOutOfRange      = errors.New("value out of range")
	ErrValueCount           = errors.New("wrong number of values")
	ErrMissingField         = errors.New("missing field")
	ErrNotInitialized       = errors.New("state not initialized")
)
