package protocol

import (
	"fmt"

	"go.uber.org/multierr"
)

// Frame is a single complete frame lifted out of the raw byte stream.
//
// Payload holds the bytes between the command byte and the checksum,
// exclusive. It aliases the Scanner's internal buffer only until the next
// Feed call, so Scan copies it out.
type Frame struct {
	Command Command
	Payload []byte
}

// Scanner reassembles discrete frames from an unbounded sequence of raw
// byte chunks, in whatever sizes the transport happens to deliver them.
//
// A chunk can hold several frames, a fragment of one, or acknowledge bytes
// interleaved between frames. Any trailing fragment is buffered and parsing
// resumes from it on the next Feed. Scanner is not safe for concurrent use;
// feed it from a single read loop.
type Scanner struct {
	buf []byte
}

// Feed appends a chunk to the scanner's buffer and returns every complete
// frame found, in stream order.
//
// Standalone acknowledge bytes (0x0A) are consumed silently. Unrecognised
// leading bytes are skipped one at a time to resync on the next start
// marker. A well-formed frame whose command byte is unknown produces a
// framing error but scanning continues past it; the returned frames are
// valid even when err is non-nil.
func (s *Scanner) Feed(chunk []byte) (frames []Frame, err error) {
	s.buf = append(s.buf, chunk...)

	i := 0
	for i < len(s.buf) {
		switch {
		case s.buf[i] == Ack:
			// A one byte "OK" from the unit. Nothing to surface.
			i++

		case s.buf[i] == STX:
			if i+1 >= len(s.buf) {
				// We have the start marker but not the length byte yet.
				s.buf = s.buf[i:]
				return frames, err
			}

			length := int(s.buf[i+1])
			if length < 3 {
				// Too short to even hold a command byte. Treat the start
				// marker as garbage and resync.
				err = multierr.Append(err, fmt.Errorf(
					"Failed to read frame with length byte %d: %w",
					length, ErrBadLength))
				i++
				continue
			}

			if i+length+1 > len(s.buf) {
				// Incomplete frame, wait for the rest of it.
				s.buf = s.buf[i:]
				return frames, err
			}

			// length covers STX..last param; the checksum byte follows it.
			raw := s.buf[i : i+length+1]
			i += length + 1

			frame, ferr := classify(raw)
			if ferr != nil {
				err = multierr.Append(err, ferr)
				continue
			}

			if frame.Command == CmdKeepAlive {
				continue
			}

			frames = append(frames, frame)

		default:
			// Defensive resync: skip garbage one byte at a time until we
			// find something we recognise.
			i++
		}
	}

	s.buf = nil
	return frames, err
}

// Pending reports how many buffered bytes are waiting on a future delivery.
func (s *Scanner) Pending() int {
	return len(s.buf)
}

func classify(raw []byte) (Frame, error) {
	cmd := Command(raw[2])

	switch cmd {
	case CmdLog, CmdResponse, CmdKeepAlive:
	default:
		return Frame{}, fmt.Errorf("Failed to classify frame with command 0x%02X: %w",
			raw[2], ErrUnknownCommand)
	}

	// Copy the payload out so it survives the scanner reusing its buffer.
	payload := make([]byte, len(raw)-4)
	copy(payload, raw[3:len(raw)-1])

	return Frame{Command: cmd, Payload: payload}, nil
}
