package simconnect

import "errors"

var (
	// ErrClosed is returned by any operation on a closed session.
	ErrClosed = errors.New("session closed")

	// ErrFrameTooLarge is returned when an inbound frame declares a length
	// exceeding the receive buffer capacity.
	ErrFrameTooLarge = errors.New("frame exceeds receive buffer capacity")

	// ErrFrameTooShort is returned when an inbound frame declares a length
	// smaller than the frame header.
	ErrFrameTooShort = errors.New("frame shorter than header")

	// ErrBadProtocol is returned when the requested protocol version is not
	// one of the supported values.
	ErrBadProtocol = errors.New("unsupported protocol version")

	// ErrProtocolTooOld is returned when a command requires a newer protocol
	// version than the session negotiated. Nothing is sent in that case.
	ErrProtocolTooOld = errors.New("command requires a newer protocol version")

	// ErrInvalidGUID is returned when a GUID argument is not exactly 16 bytes.
	ErrInvalidGUID = errors.New("GUID must be exactly 16 bytes")

	// ErrInvalidEnum is returned when an enum argument is outside its
	// defined value set.
	ErrInvalidEnum = errors.New("invalid enum value")

	// ErrNoHandler is returned when a bulk-registered object satisfies none
	// of the handler contracts.
	ErrNoHandler = errors.New("object implements no handler interface")
)
