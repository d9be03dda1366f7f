package protocol_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/doip/protocol"
)

// sensorPayload assembles a sensor payload: a leading byte, the kind
// discriminator at offset 1, then the type-specific fields.
func sensorPayload(kind protocol.SensorKind, fields ...byte) []byte {
	return append([]byte{0x00, byte(kind)}, fields...)
}

var _ = Describe("DecodeSensorState", func() {
	Describe("temperature", func() {
		It("converts the raw value to celsius with one decimal", func() {
			// 2731 / 10 - 273 = 0.1
			state, err := protocol.DecodeSensorState(
				sensorPayload(protocol.SensorTemperature, 0x0A, 0xAB))

			Expect(err).To(Succeed())
			Expect(state).To(Equal(protocol.TemperatureState{Celsius: 0.1}))
		})

		It("handles sub-zero temperatures", func() {
			// 2680 / 10 - 273 = -5.0
			state, err := protocol.DecodeSensorState(
				sensorPayload(protocol.SensorTemperature, 0x0A, 0x78))

			Expect(err).To(Succeed())
			Expect(state).To(Equal(protocol.TemperatureState{Celsius: -5.0}))
		})

		It("rejects the sensor fault sentinel", func() {
			_, err := protocol.DecodeSensorState(
				sensorPayload(protocol.SensorTemperature, 0x3F, 0x00))

			Expect(errors.Is(err, protocol.ErrSensorFault)).To(BeTrue())
		})
	})

	Describe("humidity", func() {
		It("reads the percentage directly", func() {
			state, err := protocol.DecodeSensorState(
				sensorPayload(protocol.SensorHumidity, 55))

			Expect(err).To(Succeed())
			Expect(state).To(Equal(protocol.HumidityState{Percent: 55}))
		})
	})

	Describe("light", func() {
		It("decodes raw zero as zero lux", func() {
			state, err := protocol.DecodeSensorState(
				sensorPayload(protocol.SensorLight, 0x00, 0x00))

			Expect(err).To(Succeed())
			Expect(state).To(Equal(protocol.LightState{Lux: 0}))
		})

		It("decodes the logarithmic scale", func() {
			// 10^(80/40) - 1 = 99
			state, err := protocol.DecodeSensorState(
				sensorPayload(protocol.SensorLight, 0x00, 80))

			Expect(err).To(Succeed())
			Expect(state).To(Equal(protocol.LightState{Lux: 99}))
		})
	})

	Describe("temperature control", func() {
		It("decodes the full controller state", func() {
			fields := []byte{
				0x0A, 0xAB, // current: 0.1
				0x0B, 0x72, // target: 20.0
				0x0B, 0x72, // day preset: 20.0
				0x0B, 0x0E, // night preset: 10.0
				5,    // standby offset: 0.5
				0x1A, // preset: day
				0x95, // mode: heat
				0x98, // fan: medium
				0xFF, // on
				0x00, // window closed
				7,    // raw output state
				9,    // raw swing direction
			}

			state, err := protocol.DecodeSensorState(
				sensorPayload(protocol.SensorTemperatureControl, fields...))

			Expect(err).To(Succeed())
			Expect(state).To(Equal(protocol.TemperatureControlState{
				Current:       0.1,
				Target:        20.0,
				DayPreset:     20.0,
				NightPreset:   10.0,
				StandbyOffset: 0.5,
				Preset:        protocol.PresetDay,
				Mode:          protocol.ModeHeat,
				Fan:           protocol.FanMedium,
				On:            true,
				WindowOpen:    false,
				Output:        7,
				Swing:         9,
			}))
		})

		It("falls back to off and auto for unknown enumeration bytes", func() {
			fields := []byte{
				0x0A, 0xAB,
				0x0B, 0x72,
				0x0B, 0x72,
				0x0B, 0x0E,
				0,
				0x42, // not a preset
				0x42, // not a mode
				0x42, // not a fan speed
				0x00,
				0xFF,
				0,
				0,
			}

			state, err := protocol.DecodeSensorState(
				sensorPayload(protocol.SensorTemperatureControl, fields...))

			Expect(err).To(Succeed())

			control := state.(protocol.TemperatureControlState)
			Expect(control.Preset).To(Equal(protocol.PresetOff))
			Expect(control.Mode).To(Equal(protocol.ModeOff))
			Expect(control.Fan).To(Equal(protocol.FanAuto))
			Expect(control.On).To(BeFalse())
			Expect(control.WindowOpen).To(BeTrue())
		})

		It("rejects truncated controller payloads", func() {
			_, err := protocol.DecodeSensorState(
				sensorPayload(protocol.SensorTemperatureControl, 0x0A, 0xAB))

			Expect(errors.Is(err, protocol.ErrPayloadTooShort)).To(BeTrue())
		})
	})

	Describe("pulse counter", func() {
		It("decodes the rate and the cumulative total", func() {
			fields := make([]byte, 20)
			fields[0], fields[1] = 0x01, 0x02 // rate: 258
			fields[18], fields[19] = 0x03, 0xE8 // total: 1000 -> 1.0 kWh

			state, err := protocol.DecodeSensorState(
				sensorPayload(protocol.SensorPulseCounter, fields...))

			Expect(err).To(Succeed())
			Expect(state).To(Equal(protocol.PulseCounterState{Rate: 258, TotalKWH: 1.0}))
		})
	})

	Describe("generic fallback", func() {
		It("returns the raw value for unknown sensor kinds", func() {
			state, err := protocol.DecodeSensorState(
				append([]byte{0x00, 0x77}, 0x01, 0x00))

			Expect(err).To(Succeed())
			Expect(state).To(Equal(protocol.GenericSensorState{Raw: 256}))
		})
	})

	It("rejects payloads without a discriminator", func() {
		_, err := protocol.DecodeSensorState([]byte{0x00})
		Expect(errors.Is(err, protocol.ErrPayloadTooShort)).To(BeTrue())
	})
})
