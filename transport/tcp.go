package transport

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luma/doip/protocol"
)

// TCP maintains one persistent connection to a central unit. It owns the
// socket lifecycle: dialling, a fixed-delay redial loop when the session
// drops, and the periodic keep-alive. Everything read off the socket goes
// to the handler as raw chunks; framing is the handler's problem.
type TCP struct {
	cancel     context.CancelFunc
	loopWaiter sync.WaitGroup

	addr    string
	handler Handler

	reconnectDelay    time.Duration
	keepAliveInterval time.Duration

	mu   sync.Mutex
	conn *net.TCPConn

	log *zap.Logger
}

func NewTCP(options Options) *TCP {
	port := options.Port
	if port == 0 {
		port = DefaultPort
	}

	reconnectDelay := options.ReconnectDelay
	if reconnectDelay <= 0 {
		reconnectDelay = DefaultReconnectDelay
	}

	keepAliveInterval := options.KeepAliveInterval
	if keepAliveInterval <= 0 {
		keepAliveInterval = DefaultKeepAliveInterval
	}

	log := options.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &TCP{
		addr:              net.JoinHostPort(options.Host, strconv.Itoa(port)),
		handler:           options.Handler,
		reconnectDelay:    reconnectDelay,
		keepAliveInterval: keepAliveInterval,
		log:               log,
	}
}

// Connect dials the unit and starts the read and keep-alive loops. The
// first dial happens synchronously so the caller knows whether the unit is
// reachable at all; after that, drops are handled by redialling internally.
func (t *TCP) Connect(parentCtx context.Context) error {
	ctx, cancel := context.WithCancel(parentCtx)
	t.cancel = cancel

	t.log.Info("Connecting to central unit", zap.String("addr", t.addr))

	if err := t.dial(ctx); err != nil {
		cancel()
		return err
	}

	t.handler.Ready()

	t.loopWaiter.Add(2)

	go func() {
		defer t.loopWaiter.Done()
		t.readLoop(ctx)
	}()

	go func() {
		defer t.loopWaiter.Done()
		t.keepAliveLoop(ctx)
	}()

	return nil
}

// Close tears the connection down and stops reconnecting.
func (t *TCP) Close() error {
	if t.cancel != nil {
		t.cancel()
	}

	t.mu.Lock()
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}

	t.loopWaiter.Wait()

	return err
}

// Send writes a frame to the unit. It fails fast when no connection is up;
// no byte is ever queued for a future session.
func (t *TCP) Send(data []byte) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	_, err := conn.Write(data)
	return err
}

func (t *TCP) dial(ctx context.Context) error {
	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return err
	}

	t.mu.Lock()
	if ctx.Err() != nil {
		// Close won the race while we were dialling. Closing here keeps
		// the socket from leaking past Close's loopWaiter.Wait.
		t.mu.Unlock()
		conn.Close()
		return ctx.Err()
	}
	t.conn = conn.(*net.TCPConn)
	t.mu.Unlock()

	return nil
}

func (t *TCP) readLoop(ctx context.Context) {
	log := t.log.Named("readLoop")
	buf := make([]byte, 512)

	for {
		t.mu.Lock()
		conn := t.conn
		t.mu.Unlock()

		if conn == nil {
			return
		}

		n, err := conn.Read(buf)

		if n > 0 {
			// The handler keeps whatever it needs, so one scratch buffer
			// can be reused, but the chunk handed over must be its own.
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			t.handler.Data(chunk)
		}

		if err == nil {
			continue
		}

		if ctx.Err() != nil {
			// Close was called, this is a deliberate shutdown.
			return
		}

		log.Warn("Connection to central unit lost", zap.Error(err))

		t.mu.Lock()
		t.conn = nil
		t.mu.Unlock()

		conn.Close()
		t.handler.Disconnected(err)

		if !t.redial(ctx, log) {
			return
		}

		t.handler.Ready()
	}
}

// redial retries at a fixed cadence until the unit answers or the
// transport is closed. Reports whether a new connection is up.
func (t *TCP) redial(ctx context.Context, log *zap.Logger) bool {
	for {
		select {
		case <-ctx.Done():
			return false

		case <-time.After(t.reconnectDelay):
		}

		if err := t.dial(ctx); err != nil {
			log.Warn("Reconnect attempt failed, will retry",
				zap.String("addr", t.addr),
				zap.Duration("retryIn", t.reconnectDelay),
				zap.Error(err))
			continue
		}

		log.Info("Reconnected to central unit", zap.String("addr", t.addr))
		return true
	}
}

func (t *TCP) keepAliveLoop(ctx context.Context) {
	ticker := time.NewTicker(t.keepAliveInterval)
	defer ticker.Stop()

	frame := protocol.BuildFrame(protocol.CmdKeepAlive)

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if err := t.Send(frame); err != nil && err != ErrNotConnected {
				t.log.Warn("Failed to send keep-alive", zap.Error(err))
			}
		}
	}
}
