package transport

import (
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultPort is the TCP port central units listen on.
	DefaultPort = 55957

	// DefaultReconnectDelay is the fixed pause between reconnect attempts.
	// Deliberately not a backoff: the unit is on the local network and we
	// want the session back the moment it is reachable again.
	DefaultReconnectDelay = 5 * time.Second

	// DefaultKeepAliveInterval is how often a KEEP_ALIVE frame is sent so
	// the unit does not drop an idle session.
	DefaultKeepAliveInterval = 30 * time.Second
)

type Options struct {
	// Host of the central unit
	Host string

	// Port of the central unit. Defaults to DefaultPort.
	Port int

	// Handler receives connection lifecycle events and raw inbound bytes.
	Handler Handler

	ReconnectDelay    time.Duration
	KeepAliveInterval time.Duration

	Log *zap.Logger
}

// Handler is what the transport delivers into: the client core. Ready
// fires after every successful (re)connect, Data for every chunk read off
// the socket in arrival order, Disconnected when the connection drops.
// All three are called from the transport's own goroutines; Data always
// from the single read loop, so chunk handling needs no locking of its own.
type Handler interface {
	Ready()
	Data(chunk []byte)
	Disconnected(err error)
}
