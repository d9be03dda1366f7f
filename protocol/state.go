package protocol

import (
	"encoding/binary"
	"fmt"
)

// RelayState is the decoded state of a relay output.
type RelayState struct {
	On bool
}

// DecodeRelayState decodes a relay state payload. The unit only ever
// reports 0x00 or 0xFF; anything else is a decode failure.
func DecodeRelayState(data []byte) (RelayState, error) {
	if len(data) < 1 {
		return RelayState{}, fmt.Errorf("Failed to decode relay state from %d bytes: %w",
			len(data), ErrPayloadTooShort)
	}

	switch data[0] {
	case 0xFF:
		return RelayState{On: true}, nil
	case 0x00:
		return RelayState{On: false}, nil
	}

	return RelayState{}, fmt.Errorf("Failed to decode relay state 0x%02X: %w",
		data[0], ErrValueOutOfRange)
}

// DimmerState is the decoded state of a dimmer output.
//
// Previous is the level the dimmer will return to when toggled back on. It
// is -1 when the unit did not report one.
type DimmerState struct {
	On       bool
	Level    int
	Previous int
}

// DecodeDimmerState decodes a dimmer state payload. Levels are percentages
// in [0, 100].
func DecodeDimmerState(data []byte) (DimmerState, error) {
	if len(data) < 1 {
		return DimmerState{}, fmt.Errorf("Failed to decode dimmer state from %d bytes: %w",
			len(data), ErrPayloadTooShort)
	}

	level := int(data[0])
	if level > 100 {
		return DimmerState{}, fmt.Errorf("Failed to decode dimmer level %d: %w",
			level, ErrValueOutOfRange)
	}

	state := DimmerState{
		On:       level > 0,
		Level:    level,
		Previous: -1,
	}

	if len(data) >= 2 && data[1] <= 100 {
		state.Previous = int(data[1])
	}

	return state, nil
}

// MotorDirection is the reported travel direction of a motor.
type MotorDirection byte

const (
	MotorStopped MotorDirection = iota
	MotorUp
	MotorDown
)

func (m MotorDirection) String() string {
	switch m {
	case MotorUp:
		return "up"
	case MotorDown:
		return "down"
	}

	return "stopped"
}

// MotorProtection is the motor's protection circuit state.
type MotorProtection byte

const (
	ProtectionNotDefined MotorProtection = iota
	ProtectionOnControlled
	ProtectionOnNotControlled
	ProtectionOnOverruled
	ProtectionOff
	ProtectionUnknown
)

func (m MotorProtection) String() string {
	switch m {
	case ProtectionNotDefined:
		return "notDefined"
	case ProtectionOnControlled:
		return "onControlled"
	case ProtectionOnNotControlled:
		return "onNotControlled"
	case ProtectionOnOverruled:
		return "onOverruled"
	case ProtectionOff:
		return "off"
	}

	return "unknown"
}

// MotorState is the decoded state of a motor (blinds, screens, ...).
//
// Positions are percentages in [0, 100]. TimeToFinish is in seconds; the
// wire carries centiseconds.
type MotorState struct {
	Direction       MotorDirection
	Moving          bool
	Protection      MotorProtection
	TargetPosition  int
	Position        int
	TimeToFinish    float64
	CorrectionAt0   int
	CorrectionAt100 int
}

// DecodeMotorState decodes the fixed 9-byte motor state payload.
func DecodeMotorState(data []byte) (MotorState, error) {
	if len(data) < 9 {
		return MotorState{}, fmt.Errorf("Failed to decode motor state from %d bytes: %w",
			len(data), ErrPayloadTooShort)
	}

	state := MotorState{
		Moving:          data[1] == 0xFF,
		CorrectionAt0:   int(data[7]),
		CorrectionAt100: int(data[8]),
	}

	switch data[0] {
	case 1:
		state.Direction = MotorUp
	case 2:
		state.Direction = MotorDown
	default:
		state.Direction = MotorStopped
	}

	if data[2] <= byte(ProtectionOff) {
		state.Protection = MotorProtection(data[2])
	} else {
		state.Protection = ProtectionUnknown
	}

	if data[3] > 100 {
		return MotorState{}, fmt.Errorf("Failed to decode motor target position %d: %w",
			data[3], ErrValueOutOfRange)
	}
	state.TargetPosition = int(data[3])

	if data[4] > 100 {
		return MotorState{}, fmt.Errorf("Failed to decode motor position %d: %w",
			data[4], ErrValueOutOfRange)
	}
	state.Position = int(data[4])

	state.TimeToFinish = float64(binary.BigEndian.Uint16(data[5:7])) / 100

	return state, nil
}

// decodeCelsius converts the unit's 2-byte temperature encoding (decikelvin,
// more or less) into degrees celsius rounded to one decimal.
//
// Values of 0x3F00 and above are the firmware's way of saying the sensor is
// faulted or absent.
func decodeCelsius(raw uint16) (float64, error) {
	if raw >= 0x3F00 {
		return 0, fmt.Errorf("Failed to decode temperature 0x%04X: %w", raw, ErrSensorFault)
	}

	// raw is in tenths, so dividing the shifted integer keeps exactly one
	// decimal of precision.
	return (float64(raw) - 2730) / 10, nil
}
