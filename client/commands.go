package client

import (
	"fmt"

	"github.com/luma/doip/protocol"
)

// SET commands are fire-and-forget: the unit acknowledges them with a bare
// 0x0A byte, which the scanner consumes silently. Watch the LOG stream if
// you need to observe the effect.

// SwitchRelay turns a relay output on or off.
func (c *Client) SwitchRelay(centralUnit, item int, on bool) error {
	if err := validateAddress(centralUnit, item); err != nil {
		return err
	}

	action := protocol.ActionOff
	if on {
		action = protocol.ActionOn
	}

	return c.set(protocol.FnRelay, byte(centralUnit), uint16(item), action)
}

// ToggleRelay flips a relay output.
func (c *Client) ToggleRelay(centralUnit, item int) error {
	if err := validateAddress(centralUnit, item); err != nil {
		return err
	}

	return c.set(protocol.FnRelay, byte(centralUnit), uint16(item), protocol.ActionToggle)
}

// SetDimmerLevel drives a dimmer to a level in [0, 100].
func (c *Client) SetDimmerLevel(centralUnit, item, level int) error {
	if err := validateAddress(centralUnit, item); err != nil {
		return err
	}

	if err := validateLevel(level); err != nil {
		return err
	}

	return c.set(protocol.FnDimmer, byte(centralUnit), uint16(item),
		protocol.ActionDimmerSet, byte(level))
}

// ToggleDimmer flips a dimmer between off and its previous level.
func (c *Client) ToggleDimmer(centralUnit, item int) error {
	if err := validateAddress(centralUnit, item); err != nil {
		return err
	}

	return c.set(protocol.FnDimmer, byte(centralUnit), uint16(item), protocol.ActionToggle)
}

// MoveMotorUp starts a motor travelling up.
func (c *Client) MoveMotorUp(centralUnit, item int) error {
	return c.moveMotor(centralUnit, item, protocol.ActionMotorUp)
}

// MoveMotorDown starts a motor travelling down.
func (c *Client) MoveMotorDown(centralUnit, item int) error {
	return c.moveMotor(centralUnit, item, protocol.ActionMotorDown)
}

// StopMotor halts a motor where it is.
func (c *Client) StopMotor(centralUnit, item int) error {
	return c.moveMotor(centralUnit, item, protocol.ActionMotorStop)
}

func (c *Client) moveMotor(centralUnit, item int, action byte) error {
	if err := validateAddress(centralUnit, item); err != nil {
		return err
	}

	return c.set(protocol.FnMotor, byte(centralUnit), uint16(item), action)
}

// SetMood switches a mood on or off. moodType must be one of the three
// mood function types.
func (c *Client) SetMood(moodType protocol.FunctionType, centralUnit, item int, on bool) error {
	switch moodType {
	case protocol.FnLocalMood, protocol.FnTimedMood, protocol.FnGeneralMood:
	default:
		return fmt.Errorf("Function type %s is not a mood: %w", moodType, ErrValidation)
	}

	if err := validateAddress(centralUnit, item); err != nil {
		return err
	}

	action := protocol.ActionOff
	if on {
		action = protocol.ActionOn
	}

	return c.set(moodType, byte(centralUnit), uint16(item), action)
}

// SetFlag raises or clears a flag.
func (c *Client) SetFlag(centralUnit, item int, on bool) error {
	if err := validateAddress(centralUnit, item); err != nil {
		return err
	}

	action := protocol.ActionOff
	if on {
		action = protocol.ActionOn
	}

	return c.set(protocol.FnFlag, byte(centralUnit), uint16(item), action)
}

// ActivateRegime switches the installation to the given regime.
func (c *Client) ActivateRegime(centralUnit, item int) error {
	if err := validateAddress(centralUnit, item); err != nil {
		return err
	}

	return c.set(protocol.FnRegime, byte(centralUnit), uint16(item), protocol.ActionOn)
}

// SendAudioCommand sends a raw audio action. The action vocabulary varies
// per audio device so the bytes pass through untouched.
func (c *Client) SendAudioCommand(centralUnit, item int, action ...byte) error {
	if err := validateAddress(centralUnit, item); err != nil {
		return err
	}

	return c.set(protocol.FnAudio, byte(centralUnit), uint16(item), action...)
}

// SetTemperaturePreset puts a temperature controller into a preset.
func (c *Client) SetTemperaturePreset(centralUnit, item int, preset protocol.TemperaturePreset) error {
	if err := validateAddress(centralUnit, item); err != nil {
		return err
	}

	return c.set(protocol.FnSensor, byte(centralUnit), uint16(item), byte(preset))
}
