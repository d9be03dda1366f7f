package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/doip/protocol"
)

// DefaultQueryTimeout is how long a query waits for its RESPONSE frame
// before failing.
const DefaultQueryTimeout = 4 * time.Second

// Transport is the send side of whatever carries our frames to the central
// unit. The receive side feeds the client through its Ready/Data/Disconnected
// methods, which satisfy transport.Handler.
type Transport interface {
	Send(data []byte) error
}

// Options configures a Client.
type Options struct {
	// Transport carries outbound frames. Leave nil and call Attach later
	// when the transport itself needs the client as its inbound handler.
	Transport Transport

	// QueryTimeout bounds how long queries wait for their RESPONSE.
	// Defaults to DefaultQueryTimeout.
	QueryTimeout time.Duration

	Log *zap.Logger
}

// pendingKey correlates a RESPONSE frame back to the GET that asked for it.
type pendingKey struct {
	fn          protocol.FunctionType
	centralUnit byte
	item        uint16
}

// Client issues control commands to a central unit and routes the frames it
// pushes back: RESPONSE frames to the query that is waiting on them, LOG
// frames to subscribers.
//
// All inbound frames are handled on the transport's single delivery
// goroutine, in arrival order. Public methods can be called from any
// goroutine.
type Client struct {
	timeout time.Duration
	log     *zap.Logger

	// scanner is only ever touched from the Data path.
	scanner protocol.Scanner

	mu        sync.Mutex
	transport Transport
	connected bool
	pending   map[pendingKey]chan []byte

	subMu sync.Mutex
	subs  map[protocol.FunctionType]map[*Subscription]struct{}
}

// New builds a Client. It does nothing with the transport until frames
// start flowing.
func New(options Options) *Client {
	timeout := options.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	log := options.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		transport: options.Transport,
		timeout:   timeout,
		log:       log,
		pending:   make(map[pendingKey]chan []byte),
		subs:      make(map[protocol.FunctionType]map[*Subscription]struct{}),
	}
}

// Attach wires in the transport the client sends through, for the setups
// where the transport needs the client as its inbound handler before it can
// be constructed itself.
func (c *Client) Attach(t Transport) {
	c.mu.Lock()
	c.transport = t
	c.mu.Unlock()
}

func (c *Client) send(data []byte) error {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()

	if t == nil {
		return ErrNotConnected
	}

	return t.Send(data)
}

// Ready is called by the transport after every (re)connect. The unit
// forgets which function types it should report on when a session drops,
// so we re-enable logging for everything that still has subscribers.
func (c *Client) Ready() {
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	c.subMu.Lock()
	active := make([]protocol.FunctionType, 0, len(c.subs))
	for fn, set := range c.subs {
		if len(set) > 0 {
			active = append(active, fn)
		}
	}
	c.subMu.Unlock()

	for _, fn := range active {
		if err := c.writeLogState(fn, protocol.LogEnable); err != nil {
			c.log.Warn("Failed to restore subscription",
				zap.String("functionType", fn.String()),
				zap.Error(err))
		}
	}
}

// Disconnected is called by the transport when the connection drops. Every
// in-flight query is failed immediately rather than left to time out.
func (c *Client) Disconnected(err error) {
	c.mu.Lock()
	c.connected = false
	for key, ch := range c.pending {
		close(ch)
		delete(c.pending, key)
	}
	c.mu.Unlock()

	c.log.Info("Disconnected from central unit", zap.Error(err))
}

// Data is called by the transport for every chunk of raw bytes it reads.
// Chunk boundaries carry no meaning; the scanner reassembles frames across
// them.
func (c *Client) Data(chunk []byte) {
	frames, err := c.scanner.Feed(chunk)
	if err != nil {
		// Framing errors are per-frame. The good frames in this delivery
		// are still usable.
		c.log.Warn("Failed to scan delivery", zap.Error(err))
	}

	for _, frame := range frames {
		switch frame.Command {
		case protocol.CmdLog:
			c.dispatchLog(frame.Payload)

		case protocol.CmdResponse:
			c.dispatchResponse(frame.Payload)
		}
	}
}

// Close tears the client down: pending queries fail and the unit is told
// to stop logging every function type we were watching.
func (c *Client) Close() (err error) {
	c.mu.Lock()
	connected := c.connected
	c.connected = false
	for key, ch := range c.pending {
		close(ch)
		delete(c.pending, key)
	}
	c.mu.Unlock()

	c.subMu.Lock()
	active := make([]protocol.FunctionType, 0, len(c.subs))
	for fn, set := range c.subs {
		if len(set) > 0 {
			active = append(active, fn)
		}
		delete(c.subs, fn)
	}
	c.subMu.Unlock()

	if !connected {
		return nil
	}

	for _, fn := range active {
		if werr := c.writeLogState(fn, protocol.LogDisable); werr != nil {
			err = multierr.Append(err, werr)
		}
	}

	return err
}

// query registers a waiter, then sends the GET. Registration must come
// first: a unit on the same LAN can answer faster than a goroutine switch.
func (c *Client) query(ctx context.Context, fn protocol.FunctionType, centralUnit byte, item uint16, extra ...byte) ([]byte, error) {
	key := pendingKey{fn: fn, centralUnit: centralUnit, item: item}
	ch := make(chan []byte, 1)

	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}

	if _, inFlight := c.pending[key]; inFlight {
		c.mu.Unlock()
		return nil, fmt.Errorf("Failed to query %s %d/%d: %w",
			fn, centralUnit, item, ErrQueryInFlight)
	}

	c.pending[key] = ch
	c.mu.Unlock()

	params := append(protocol.Address(centralUnit, fn, item), extra...)
	if err := c.send(protocol.BuildFrame(protocol.CmdGet, params...)); err != nil {
		c.clearPending(key)
		return nil, err
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case data, ok := <-ch:
		if !ok {
			return nil, ErrNotConnected
		}
		return data, nil

	case <-timer.C:
		c.clearPending(key)
		return nil, fmt.Errorf("Failed to query %s %d/%d within %s: %w",
			fn, centralUnit, item, c.timeout, ErrQueryTimeout)

	case <-ctx.Done():
		c.clearPending(key)
		return nil, ctx.Err()
	}
}

func (c *Client) clearPending(key pendingKey) {
	c.mu.Lock()
	delete(c.pending, key)
	c.mu.Unlock()
}

// dispatchResponse resolves the pending query matching the address at the
// front of the RESPONSE payload. Replies nobody asked for are dropped.
func (c *Client) dispatchResponse(payload []byte) {
	if len(payload) < 5 {
		c.log.Warn("Dropping undersized RESPONSE frame",
			zap.Int("bytes", len(payload)))
		return
	}

	key := pendingKey{
		fn:          protocol.FunctionType(payload[1]),
		centralUnit: payload[0],
		item:        uint16(payload[2])<<8 | uint16(payload[3]),
	}

	c.mu.Lock()
	ch, ok := c.pending[key]
	if ok {
		delete(c.pending, key)
	}
	c.mu.Unlock()

	if !ok {
		c.log.Debug("No pending query for RESPONSE frame",
			zap.String("functionType", key.fn.String()),
			zap.Uint8("centralUnit", key.centralUnit),
			zap.Uint16("item", key.item))
		return
	}

	// payload[4] is the unit's (unused) error byte.
	ch <- payload[5:]
	close(ch)
}

func (c *Client) writeLogState(fn protocol.FunctionType, state byte) error {
	return c.send(protocol.BuildFrame(protocol.CmdLog, byte(fn), state))
}

// set builds and sends a fire-and-forget SET frame.
func (c *Client) set(fn protocol.FunctionType, centralUnit byte, item uint16, action ...byte) error {
	params := append(protocol.Address(centralUnit, fn, item), action...)
	return c.send(protocol.BuildFrame(protocol.CmdSet, params...))
}
