package storage_test

import (
	"context"
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/luma/doip/protocol"
	"github.com/luma/doip/storage"
)

var _ = Describe("storage / InmemoryStore", func() {
	Describe("Close()", func() {
		It("does not panic when closed twice", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			Expect(func() { store.Close() }).NotTo(Panic())
			Expect(func() { store.Close() }).NotTo(Panic())
		})
	})

	It("an empty store equals {}", func() {
		store := storage.NewInmemoryStore()
		defer store.Close()

		value, err := store.Backup()
		Expect(err).To(Succeed())
		Expect(string(value)).To(Equal(`{}`))
	})

	Describe("Set() / Get()", func() {
		It("can read a key that is written", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			key := storage.DeviceKey(1, protocol.FnRelay, 5)

			err := store.Set(context.Background(), key, 255)
			Expect(err).To(Succeed())

			Expect(store.Get(context.Background(), key)).To(Equal([]byte(`255`)))

			value, err := store.Backup()
			Expect(err).To(Succeed())
			Expect(string(value)).To(Equal(`{"unit1":{"relay":{"5":255}}}`))
		})

		It("survives writers and readers racing", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			var writers sync.WaitGroup
			for unit := 1; unit <= 4; unit++ {
				writers.Add(1)

				go func(unit int) {
					defer writers.Done()
					defer GinkgoRecover()

					for item := 0; item < 100; item++ {
						key := storage.DeviceKey(unit, protocol.FnRelay, item)
						Expect(store.Set(context.Background(), key, 255)).To(Succeed())
					}
				}(unit)
			}

			reading := make(chan struct{})
			var readers sync.WaitGroup
			readers.Add(1)

			go func() {
				defer readers.Done()
				defer GinkgoRecover()

				for {
					select {
					case <-reading:
						return

					default:
						snapshot, err := store.Backup()
						Expect(err).To(Succeed())
						Expect(gjson.ValidBytes(snapshot)).To(BeTrue())
					}
				}
			}()

			writers.Wait()
			close(reading)
			readers.Wait()

			final, err := store.Backup()
			Expect(err).To(Succeed())
			for unit := 1; unit <= 4; unit++ {
				for item := 0; item < 100; item++ {
					path := fmt.Sprintf("unit%d.relay.%d", unit, item)
					Expect(gjson.GetBytes(final, path).Int()).To(Equal(int64(255)))
				}
			}
		})

		It("hands out snapshots that later writes cannot touch", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			key := storage.DeviceKey(1, protocol.FnRelay, 5)
			Expect(store.Set(context.Background(), key, 255)).To(Succeed())

			snapshot, err := store.Backup()
			Expect(err).To(Succeed())

			Expect(store.Set(context.Background(), key, 0)).To(Succeed())

			Expect(string(snapshot)).To(Equal(`{"unit1":{"relay":{"5":255}}}`))
		})

		It("sends on the update channel when values are set", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			key := storage.DeviceKey(2, protocol.FnDimmer, 9)

			updateChan, stopListening := store.ListenToUpdates()
			defer stopListening()

			err := store.Set(context.Background(), key, 50)
			Expect(err).To(Succeed())

			update, ok := <-updateChan
			Expect(ok).To(BeTrue())
			Expect(update).To(Equal(&storage.Update{
				Key:   key,
				Value: []byte(`50`),
			}))
		})

		It("stops delivering once a listener cancels", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			updateChan, stopListening := store.ListenToUpdates()
			stopListening()

			_, ok := <-updateChan
			Expect(ok).To(BeFalse())

			key := storage.DeviceKey(1, protocol.FnRelay, 5)
			Expect(store.Set(context.Background(), key, 255)).To(Succeed())
		})
	})

	Describe("DeviceKey", func() {
		It("nests by unit, function type, and item", func() {
			Expect(string(storage.DeviceKey(3, protocol.FnSensor, 17))).To(
				Equal("unit3.sensor.17"))
		})
	})
})
