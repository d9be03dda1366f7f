package storage

import (
	"context"
	"fmt"

	"github.com/luma/doip/protocol"
)

// Store caches the last known state of every item the bridge has heard
// about, keyed by the device path produced by DeviceKey.
type Store interface {
	Set(ctx context.Context, key []byte, value interface{}) error
	Get(ctx context.Context, key []byte) ([]byte, error)

	Restore(values []byte) error
	Backup() ([]byte, error)

	ListenToUpdates() (<-chan *Update, func())

	Close() error
}

// Update is broadcast to listeners whenever a key changes.
type Update struct {
	Key   []byte
	Value []byte
}

// DeviceKey builds the cache path for one item, e.g. "unit1.relay.5".
// The dots nest, so a backup dump groups naturally by unit and type.
func DeviceKey(centralUnit int, fn protocol.FunctionType, item int) []byte {
	return []byte(fmt.Sprintf("unit%d.%s.%d", centralUnit, fn, item))
}
