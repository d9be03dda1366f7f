package client

import (
	"go.uber.org/zap"

	"github.com/luma/doip/protocol"
)

// StateChange is the decoded content of a LOG frame: some monitored item
// changed state. Value is the raw byte the unit reported; run it through
// the protocol decoders yourself if you need more than on/off semantics.
type StateChange struct {
	CentralUnit  int
	FunctionType protocol.FunctionType
	ItemNumber   int
	Value        byte
}

// EventFunc receives state changes. It is invoked synchronously on the
// frame-processing goroutine, so it must not block; hand the change to a
// channel or goroutine if you need to do real work.
type EventFunc func(change StateChange)

// Subscription is a registered interest in one function type's LOG events.
type Subscription struct {
	client   *Client
	fn       protocol.FunctionType
	callback EventFunc
}

// FunctionType returns the function type this subscription watches.
func (s *Subscription) FunctionType() protocol.FunctionType {
	return s.fn
}

// Cancel removes the subscription. When it was the last one for its
// function type the unit is told to stop logging that type.
func (s *Subscription) Cancel() error {
	return s.client.unsubscribe(s)
}

// Subscribe registers a callback for every LOG event of the given function
// type. The first subscriber for a type enables logging of it on the unit;
// later subscribers piggyback on that. The enable command is re-sent after
// every reconnect for as long as the subscription lives.
func (c *Client) Subscribe(fn protocol.FunctionType, callback EventFunc) (*Subscription, error) {
	sub := &Subscription{client: c, fn: fn, callback: callback}

	c.subMu.Lock()
	set, ok := c.subs[fn]
	if !ok {
		set = make(map[*Subscription]struct{})
		c.subs[fn] = set
	}

	first := len(set) == 0
	set[sub] = struct{}{}
	c.subMu.Unlock()

	if !first {
		return sub, nil
	}

	// Best effort: if we're between connections right now, Ready will
	// enable logging for this type once the transport comes back.
	if err := c.writeLogState(fn, protocol.LogEnable); err != nil {
		c.log.Warn("Failed to enable logging, will retry on reconnect",
			zap.String("functionType", fn.String()),
			zap.Error(err))
	}

	return sub, nil
}

func (c *Client) unsubscribe(sub *Subscription) error {
	c.subMu.Lock()
	set, ok := c.subs[sub.fn]
	if ok {
		delete(set, sub)
	}
	last := ok && len(set) == 0
	c.subMu.Unlock()

	if !last {
		return nil
	}

	return c.writeLogState(sub.fn, protocol.LogDisable)
}

// dispatchLog fans a LOG frame out to every subscriber of its function
// type. A malformed LOG frame is dropped and reported; it must never take
// the read path down.
func (c *Client) dispatchLog(payload []byte) {
	if len(payload) < 6 {
		c.log.Warn("Dropping undersized LOG frame", zap.Int("bytes", len(payload)))
		return
	}

	change := StateChange{
		CentralUnit:  int(payload[0]),
		FunctionType: protocol.FunctionType(payload[1]),
		ItemNumber:   int(payload[2])<<8 | int(payload[3]),
		// payload[4] is the unit's (unused) error byte.
		Value: payload[5],
	}

	c.subMu.Lock()
	callbacks := make([]EventFunc, 0, len(c.subs[change.FunctionType]))
	for sub := range c.subs[change.FunctionType] {
		callbacks = append(callbacks, sub.callback)
	}
	c.subMu.Unlock()

	for _, callback := range callbacks {
		callback(change)
	}
}
