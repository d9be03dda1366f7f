package protocol

import "errors"

var (
	ErrUnknownCommand  = errors.New("Frame is malformed, its command byte is not one this protocol knows")
	ErrBadLength       = errors.New("Frame is malformed, its length byte cannot cover a frame header")
	ErrPayloadTooShort = errors.New("Payload is malformed, it appears to be too short")
	ErrValueOutOfRange = errors.New("Payload is malformed, a field holds a value outside its domain")
	ErrSensorFault     = errors.New("Sensor reported an error value instead of a measurement")
)
