package storage

import (
	"context"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// InmemoryStore keeps the whole cache as one JSON document, which makes
// Backup cheap: the bridge's /state endpoint serves a snapshot of it as-is.
//
// Writes arrive on the transport's delivery goroutine while reads come from
// the HTTP handlers, so every touch of the document goes through the lock.
type InmemoryStore struct {
	mu     sync.RWMutex
	values []byte

	listenerMu  sync.Mutex
	updateChans []chan *Update

	// stop will be closed when Close() is called
	stop chan struct{}
}

func NewInmemoryStore() *InmemoryStore {
	return &InmemoryStore{
		values:      []byte(""),
		stop:        make(chan struct{}),
		updateChans: make([]chan *Update, 0),
	}
}

func (i *InmemoryStore) Close() error {
	if i.isRunning() {
		close(i.stop)
	}

	i.listenerMu.Lock()
	defer i.listenerMu.Unlock()

	for _, updateChan := range i.updateChans {
		close(updateChan)
	}
	i.updateChans = nil

	return nil
}

func (i *InmemoryStore) Set(ctx context.Context, key []byte, value interface{}) error {
	i.mu.Lock()

	values, err := sjson.SetBytes(i.values, string(key), value)
	if err != nil {
		i.mu.Unlock()
		return err
	}

	i.values = values
	raw := gjson.GetBytes(i.values, string(key)).Raw
	i.mu.Unlock()

	if i.isRunning() {
		i.notify(&Update{Key: key, Value: []byte(raw)})
	}

	return nil
}

func (i *InmemoryStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	// Copied out because the next Set may rewrite the document in place.
	return []byte(gjson.GetBytes(i.values, string(key)).Raw), nil
}

// ListenToUpdates registers a listener for every change to the document.
// The returned cancel closes the channel and stops the deliveries; a
// listener that falls behind loses updates instead of stalling writers.
func (i *InmemoryStore) ListenToUpdates() (<-chan *Update, func()) {
	i.listenerMu.Lock()
	defer i.listenerMu.Unlock()

	updateChan := make(chan *Update, 255)
	i.updateChans = append(i.updateChans, updateChan)

	return updateChan, func() {
		i.listenerMu.Lock()
		defer i.listenerMu.Unlock()

		for n, ch := range i.updateChans {
			if ch == updateChan {
				i.updateChans = append(i.updateChans[:n], i.updateChans[n+1:]...)
				close(ch)
				return
			}
		}
	}
}

func (i *InmemoryStore) notify(update *Update) {
	i.listenerMu.Lock()
	defer i.listenerMu.Unlock()

	for _, updateChan := range i.updateChans {
		select {
		case updateChan <- update:
		default:
		}
	}
}

func (i *InmemoryStore) Restore(values []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.values = values
	return nil
}

// Backup returns a snapshot of the whole document. The copy matters: the
// backing array is still being appended to by concurrent Sets.
func (i *InmemoryStore) Backup() ([]byte, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.values) == 0 {
		return []byte("{}"), nil
	}

	snapshot := make([]byte, len(i.values))
	copy(snapshot, i.values)

	return snapshot, nil
}

// isRunning returns true if Close has not been called
func (i *InmemoryStore) isRunning() bool {
	select {
	case <-i.stop:
		return false

	default:
		return true
	}
}

var _ Store = (*InmemoryStore)(nil)
