package protocol

// BuildFrame serialises a command and its parameter bytes into a complete
// wire frame, including the length byte and the trailing checksum.
//
// Parameters must already be valid bytes. Constraining caller-supplied
// numbers into [0, 255] happens before this point (see client validation).
func BuildFrame(command Command, params ...byte) []byte {
	length := byte(3 + len(params))

	frame := make([]byte, 0, int(length)+1)
	frame = append(frame, STX, length, byte(command))
	frame = append(frame, params...)

	return append(frame, Checksum(frame))
}

// Checksum is the sum of all frame bytes before the checksum position,
// modulo 256.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}

	return sum
}

// itemNumber splits a 16bit item number into its wire order (MSB first).
func itemNumber(item uint16) (msb, lsb byte) {
	return byte(item >> 8), byte(item & 0xFF)
}

// Address builds the four address bytes that start every GET/SET payload.
func Address(centralUnit byte, fn FunctionType, item uint16) []byte {
	msb, lsb := itemNumber(item)
	return []byte{centralUnit, byte(fn), msb, lsb}
}
