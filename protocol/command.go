package protocol

// Command identifies the purpose of a frame.
type Command byte

const (
	CmdLog       Command = 0x03
	CmdGet       Command = 0x06
	CmdSet       Command = 0x07
	CmdResponse  Command = 0x10
	CmdKeepAlive Command = 0x0B
)

const (
	// STX marks the start of every frame.
	STX byte = 0x02

	// Ack is a standalone one-byte "OK" from the unit. It is not framed.
	Ack byte = 0x0A
)

// FunctionType is the category of controllable or queryable entity.
//
// These values come straight out of the central unit firmware and must
// match it bit-for-bit.
type FunctionType byte

const (
	FnRelay       FunctionType = 0x01
	FnDimmer      FunctionType = 0x02
	FnProcess     FunctionType = 0x03
	FnMotor       FunctionType = 0x06
	FnLocalMood   FunctionType = 0x08
	FnTimedMood   FunctionType = 0x09
	FnGeneralMood FunctionType = 0x0A
	FnRegime      FunctionType = 0x0E
	FnFlag        FunctionType = 0x0F
	FnSensor      FunctionType = 0x14
	FnAudio       FunctionType = 0x1F
	FnTPKey       FunctionType = 0x34
	FnService     FunctionType = 0x35
	FnMessage     FunctionType = 0x36
	FnCondition   FunctionType = 0x3C
)

// FunctionTypes lists every known function type, in byte order.
var FunctionTypes = []FunctionType{
	FnRelay, FnDimmer, FnProcess, FnMotor, FnLocalMood, FnTimedMood,
	FnGeneralMood, FnRegime, FnFlag, FnSensor, FnAudio, FnTPKey,
	FnService, FnMessage, FnCondition,
}

func (f FunctionType) String() string {
	switch f {
	case FnRelay:
		return "relay"
	case FnDimmer:
		return "dimmer"
	case FnProcess:
		return "process"
	case FnMotor:
		return "motor"
	case FnLocalMood:
		return "localMood"
	case FnTimedMood:
		return "timedMood"
	case FnGeneralMood:
		return "generalMood"
	case FnRegime:
		return "regime"
	case FnFlag:
		return "flag"
	case FnSensor:
		return "sensor"
	case FnAudio:
		return "audio"
	case FnTPKey:
		return "tpKey"
	case FnService:
		return "service"
	case FnMessage:
		return "message"
	case FnCondition:
		return "condition"
	}

	return "unknown"
}

// Action bytes for on/off style function types (relay, flag, moods).
const (
	ActionOff    byte = 0x00
	ActionOn     byte = 0x01
	ActionToggle byte = 0x02
)

// Action bytes for dimmers. ActionDimmerSet is followed by a level byte.
const (
	ActionDimmerSet byte = 0x03
)

// Action bytes for motors. The values line up with the direction byte the
// unit reports back in motor state payloads.
const (
	ActionMotorUp   byte = 0x01
	ActionMotorDown byte = 0x02
	ActionMotorStop byte = 0x03
)

// LOG subscription parameter bytes, sent as [functionType, enable].
const (
	LogEnable  byte = 0xFF
	LogDisable byte = 0x00
)
