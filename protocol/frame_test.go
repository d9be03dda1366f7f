package protocol_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/doip/protocol"
)

var _ = Describe("BuildFrame", func() {
	It("lays out start marker, length, command, parameters, checksum", func() {
		frame := protocol.BuildFrame(protocol.CmdSet, 0x01, 0x02, 0x03)

		Expect(frame).To(HaveLen(7))
		Expect(frame[0]).To(Equal(byte(0x02)))
		Expect(frame[1]).To(Equal(byte(6)))
		Expect(frame[2]).To(Equal(byte(protocol.CmdSet)))
		Expect(frame[3:6]).To(Equal([]byte{0x01, 0x02, 0x03}))
	})

	It("builds a parameterless frame", func() {
		frame := protocol.BuildFrame(protocol.CmdKeepAlive)

		Expect(frame).To(Equal([]byte{0x02, 0x03, 0x0B, 0x10}))
	})

	It("sets the length byte to 3 plus the parameter count", func() {
		for count := 0; count <= 250; count += 10 {
			params := make([]byte, count)
			frame := protocol.BuildFrame(protocol.CmdGet, params...)

			Expect(frame[1]).To(Equal(byte(3 + count)))
		}
	})

	It("ends every frame with the sum of all preceding bytes mod 256", func() {
		for count := 0; count <= 250; count++ {
			params := make([]byte, count)
			for i := range params {
				params[i] = byte(i * 7)
			}

			frame := protocol.BuildFrame(protocol.CmdLog, params...)

			var sum byte
			for _, b := range frame[:len(frame)-1] {
				sum += b
			}

			Expect(frame[len(frame)-1]).To(Equal(sum))
		}
	})
})

var _ = Describe("Address", func() {
	It("splits the item number big-endian", func() {
		Expect(protocol.Address(1, protocol.FnRelay, 0x0105)).To(
			Equal([]byte{0x01, 0x01, 0x01, 0x05}))
	})
})
