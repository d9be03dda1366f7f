package cmd

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/doip/client"
	"github.com/luma/doip/protocol"
	"github.com/luma/doip/storage"
)

// bridge mirrors every LOG event the unit pushes into the state cache.
type bridge struct {
	store storage.Store
	log   *zap.Logger

	subs []*client.Subscription
}

func newBridge(store storage.Store, log *zap.Logger) *bridge {
	return &bridge{store: store, log: log}
}

// watch subscribes to state changes for every known function type.
func (b *bridge) watch(doip *client.Client) error {
	for _, fn := range protocol.FunctionTypes {
		sub, err := doip.Subscribe(fn, b.record)
		if err != nil {
			return multierr.Append(err, b.stop())
		}

		b.subs = append(b.subs, sub)
	}

	return nil
}

func (b *bridge) record(change client.StateChange) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	key := storage.DeviceKey(change.CentralUnit, change.FunctionType, change.ItemNumber)

	if err := b.store.Set(ctx, key, int(change.Value)); err != nil {
		b.log.Warn("Failed to record state change",
			zap.ByteString("key", key),
			zap.Error(err))
	}
}

func (b *bridge) stop() (err error) {
	for _, sub := range b.subs {
		err = multierr.Append(err, sub.Cancel())
	}

	b.subs = nil
	return err
}
