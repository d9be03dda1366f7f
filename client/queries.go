package client

import (
	"context"

	"github.com/luma/doip/protocol"
)

// Queries suspend the calling goroutine until the matching RESPONSE frame
// arrives or the query timeout fires. They never block frame processing,
// so any number of queries for distinct items can be in flight at once
// over the one connection. A second query for an item that already has one
// in flight fails immediately with ErrQueryInFlight.

// QueryRelay fetches the current state of a relay output.
func (c *Client) QueryRelay(ctx context.Context, centralUnit, item int) (protocol.RelayState, error) {
	if err := validateAddress(centralUnit, item); err != nil {
		return protocol.RelayState{}, err
	}

	data, err := c.query(ctx, protocol.FnRelay, byte(centralUnit), uint16(item))
	if err != nil {
		return protocol.RelayState{}, err
	}

	return protocol.DecodeRelayState(data)
}

// QueryDimmer fetches the current state of a dimmer output.
func (c *Client) QueryDimmer(ctx context.Context, centralUnit, item int) (protocol.DimmerState, error) {
	if err := validateAddress(centralUnit, item); err != nil {
		return protocol.DimmerState{}, err
	}

	data, err := c.query(ctx, protocol.FnDimmer, byte(centralUnit), uint16(item))
	if err != nil {
		return protocol.DimmerState{}, err
	}

	return protocol.DecodeDimmerState(data)
}

// QueryMotor fetches the current state of a motor.
func (c *Client) QueryMotor(ctx context.Context, centralUnit, item int) (protocol.MotorState, error) {
	if err := validateAddress(centralUnit, item); err != nil {
		return protocol.MotorState{}, err
	}

	data, err := c.query(ctx, protocol.FnMotor, byte(centralUnit), uint16(item))
	if err != nil {
		return protocol.MotorState{}, err
	}

	return protocol.DecodeMotorState(data)
}

// QuerySensor fetches the current state of a sensor. The concrete type of
// the returned state depends on what kind of sensor the item is; switch on
// Kind() or type-assert.
func (c *Client) QuerySensor(ctx context.Context, centralUnit, item int) (protocol.SensorState, error) {
	if err := validateAddress(centralUnit, item); err != nil {
		return nil, err
	}

	data, err := c.query(ctx, protocol.FnSensor, byte(centralUnit), uint16(item))
	if err != nil {
		return nil, err
	}

	return protocol.DecodeSensorState(data)
}

// QueryRaw fetches the undecoded state bytes for any function type. Useful
// for the types without a dedicated decoder (moods, audio, flags, ...).
func (c *Client) QueryRaw(ctx context.Context, fn protocol.FunctionType, centralUnit, item int) ([]byte, error) {
	if err := validateAddress(centralUnit, item); err != nil {
		return nil, err
	}

	return c.query(ctx, fn, byte(centralUnit), uint16(item))
}
