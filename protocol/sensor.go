package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SensorKind discriminates the sensor family. The unit reports it at
// payload offset 1; type-specific fields follow from offset 2.
type SensorKind byte

const (
	SensorTemperature SensorKind = iota
	SensorHumidity
	SensorLight
	SensorTemperatureControl
	SensorPulseCounter
	SensorGeneric
)

func (s SensorKind) String() string {
	switch s {
	case SensorTemperature:
		return "temperature"
	case SensorHumidity:
		return "humidity"
	case SensorLight:
		return "light"
	case SensorTemperatureControl:
		return "temperatureControl"
	case SensorPulseCounter:
		return "pulseCounter"
	}

	return "generic"
}

// SensorState is implemented by every decoded sensor payload.
type SensorState interface {
	Kind() SensorKind
}

// TemperatureState is a plain temperature measurement.
type TemperatureState struct {
	Celsius float64
}

func (TemperatureState) Kind() SensorKind { return SensorTemperature }

// HumidityState is a relative humidity measurement.
type HumidityState struct {
	Percent int
}

func (HumidityState) Kind() SensorKind { return SensorHumidity }

// LightState is an illuminance measurement.
type LightState struct {
	Lux int
}

func (LightState) Kind() SensorKind { return SensorLight }

// PulseCounterState is an energy meter reading.
type PulseCounterState struct {
	Rate     int
	TotalKWH float64
}

func (PulseCounterState) Kind() SensorKind { return SensorPulseCounter }

// GenericSensorState is the fallback for sensor kinds without a richer
// decoding: the raw 2-byte value, no unit conversion.
type GenericSensorState struct {
	Raw int
}

func (GenericSensorState) Kind() SensorKind { return SensorGeneric }

// TemperaturePreset selects which setpoint a temperature controller runs.
type TemperaturePreset byte

const (
	PresetOff     TemperaturePreset = 0x00
	PresetNight   TemperaturePreset = 0x19
	PresetDay     TemperaturePreset = 0x1A
	PresetStandby TemperaturePreset = 0x5D
)

func (p TemperaturePreset) String() string {
	switch p {
	case PresetDay:
		return "day"
	case PresetNight:
		return "night"
	case PresetStandby:
		return "standby"
	}

	return "off"
}

// OperationMode is a temperature controller's HVAC mode.
type OperationMode byte

const (
	ModeOff  OperationMode = 0x00
	ModeVent OperationMode = 0x69
	ModeDry  OperationMode = 0x6A
	ModeAuto OperationMode = 0x94
	ModeHeat OperationMode = 0x95
	ModeCool OperationMode = 0x96
)

func (m OperationMode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeHeat:
		return "heat"
	case ModeCool:
		return "cool"
	case ModeVent:
		return "vent"
	case ModeDry:
		return "dry"
	}

	return "off"
}

// FanSpeed is a temperature controller's fan setting.
type FanSpeed byte

const (
	FanAuto   FanSpeed = 0x89
	FanLow    FanSpeed = 0x97
	FanMedium FanSpeed = 0x98
	FanHigh   FanSpeed = 0x99
)

func (f FanSpeed) String() string {
	switch f {
	case FanLow:
		return "low"
	case FanMedium:
		return "medium"
	case FanHigh:
		return "high"
	}

	return "auto"
}

// TemperatureControlState is the full state of a temperature controller
// (thermostat / airco interface).
type TemperatureControlState struct {
	Current       float64
	Target        float64
	DayPreset     float64
	NightPreset   float64
	StandbyOffset float64
	Preset        TemperaturePreset
	Mode          OperationMode
	Fan           FanSpeed
	On            bool
	WindowOpen    bool
	Output        byte
	Swing         byte
}

func (TemperatureControlState) Kind() SensorKind { return SensorTemperatureControl }

// DecodeSensorState decodes a sensor family payload, dispatching on the
// kind discriminator at offset 1.
func DecodeSensorState(data []byte) (SensorState, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("Failed to decode sensor state from %d bytes: %w",
			len(data), ErrPayloadTooShort)
	}

	kind := SensorKind(data[1])
	fields := data[2:]

	switch kind {
	case SensorTemperature:
		raw, err := beUint16(fields, 0)
		if err != nil {
			return nil, err
		}

		celsius, err := decodeCelsius(raw)
		if err != nil {
			return nil, err
		}

		return TemperatureState{Celsius: celsius}, nil

	case SensorHumidity:
		if len(fields) < 1 {
			return nil, fmt.Errorf("Failed to decode humidity from %d bytes: %w",
				len(fields), ErrPayloadTooShort)
		}

		return HumidityState{Percent: int(fields[0])}, nil

	case SensorLight:
		raw, err := beUint16(fields, 0)
		if err != nil {
			return nil, err
		}

		return LightState{Lux: decodeLux(raw)}, nil

	case SensorTemperatureControl:
		return decodeTemperatureControl(fields)

	case SensorPulseCounter:
		if len(fields) < 20 {
			return nil, fmt.Errorf("Failed to decode pulse counter from %d bytes: %w",
				len(fields), ErrPayloadTooShort)
		}

		total := binary.BigEndian.Uint32(fields[16:20])

		return PulseCounterState{
			Rate:     int(binary.BigEndian.Uint16(fields[0:2])),
			TotalKWH: float64(total) / 1000,
		}, nil

	default:
		raw, err := beUint16(fields, 0)
		if err != nil {
			return nil, err
		}

		return GenericSensorState{Raw: int(raw)}, nil
	}
}

func decodeTemperatureControl(fields []byte) (SensorState, error) {
	if len(fields) < 16 {
		return nil, fmt.Errorf("Failed to decode temperature control from %d bytes: %w",
			len(fields), ErrPayloadTooShort)
	}

	var (
		state TemperatureControlState
		err   error
	)

	if state.Current, err = decodeCelsius(binary.BigEndian.Uint16(fields[0:2])); err != nil {
		return nil, err
	}

	if state.Target, err = decodeCelsius(binary.BigEndian.Uint16(fields[2:4])); err != nil {
		return nil, err
	}

	if state.DayPreset, err = decodeCelsius(binary.BigEndian.Uint16(fields[4:6])); err != nil {
		return nil, err
	}

	if state.NightPreset, err = decodeCelsius(binary.BigEndian.Uint16(fields[6:8])); err != nil {
		return nil, err
	}

	state.StandbyOffset = float64(fields[8]) / 10

	switch TemperaturePreset(fields[9]) {
	case PresetDay, PresetNight, PresetStandby:
		state.Preset = TemperaturePreset(fields[9])
	default:
		state.Preset = PresetOff
	}

	switch OperationMode(fields[10]) {
	case ModeAuto, ModeHeat, ModeCool, ModeVent, ModeDry:
		state.Mode = OperationMode(fields[10])
	default:
		state.Mode = ModeOff
	}

	switch FanSpeed(fields[11]) {
	case FanLow, FanMedium, FanHigh:
		state.Fan = FanSpeed(fields[11])
	default:
		state.Fan = FanAuto
	}

	state.On = fields[12] == 0xFF
	state.WindowOpen = fields[13] == 0xFF
	state.Output = fields[14]
	state.Swing = fields[15]

	return state, nil
}

// decodeLux converts the unit's logarithmic light encoding to lux.
func decodeLux(raw uint16) int {
	return int(math.Round(math.Pow(10, float64(raw)/40) - 1))
}

func beUint16(data []byte, offset int) (uint16, error) {
	if len(data) < offset+2 {
		return 0, fmt.Errorf("Failed to decode sensor value from %d bytes: %w",
			len(data), ErrPayloadTooShort)
	}

	return binary.BigEndian.Uint16(data[offset : offset+2]), nil
}
