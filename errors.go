package bullq

import "errors"

// ErrInvalidQueueName is returned when a queue name is empty or contains the key separator.
var ErrInvalidQueueName = errors.New("bullq: invalid queue name")

// ErrUnknownResource is returned when a string does not name a known resource.
var ErrUnknownResource = errors.New("bullq: unknown resource")

// ErrConnectionClosing is returned for commands issued after a graceful close has started.
var ErrConnectionClosing = errors.New("bullq: connection is closing")
