package protocol

// This package implements framing, parsing, and payload decoding for the
// DoIP protocol that central units use to talk to their clients over a
// persistent TCP connection (port 55957 by default).
//
// === Wire frame
//
// Every frame, in both directions, has the same shape:
//
//   ```
//     STX(0x02) | LEN(1B) | CMD(1B) | PARAMS(LEN-3 B) | CHECKSUM(1B)
//   ```
//
// - `LEN` covers everything from the STX up to (and including) the last
//   parameter byte, so `LEN = 3 + len(PARAMS)`.
// - `CHECKSUM` is the sum of all preceding bytes, modulo 256.
//
// A bare `0x0A` byte is a standalone acknowledge ("OK") and is not part of
// the frame format above. The unit emits it after accepting a command and
// it can appear anywhere between frames.
//
// === Commands
//
// - `LOG` (0x03)        - an unsolicited state-change notification. Also
//                         used client->unit to enable/disable notifications
//                         for a function type.
// - `GET` (0x06)        - query the current state of an item.
// - `SET` (0x07)        - change the state of an item. Fire and forget.
// - `RESPONSE` (0x10)   - the unit's reply to a prior GET.
// - `KEEP_ALIVE` (0x0B) - a no-op that keeps the TCP session open. Carries
//                         no payload and is dropped on receipt.
//
// === Payloads
//
// Every addressed payload starts with the same four bytes:
//
//   ```
//     [centralUnit, functionType, itemNumberMSB, itemNumberLSB, ...]
//   ```
//
// - `SET`:      the address, then action-specific bytes.
// - `GET`:      the address only.
// - `RESPONSE`: the address, an (unused) error byte, then the type-specific
//               state bytes that the Decode* functions in this package
//               understand.
// - `LOG`:      the address, an (unused) error byte, then a single raw
//               value byte.
//
// As the unit pushes LOG frames whenever a monitored state changes, they
// can interleave with the RESPONSE to a pending GET. The (centralUnit,
// functionType, itemNumber) triple in each RESPONSE payload is what lets a
// client associate the reply with the right request.
//
// Note: a single frame is atomic but a single TCP read is not. A delivery
//       can hold several frames, half a frame, or a frame plus a trailing
//       fragment, so reassembly state must be carried across reads. That
//       is what Scanner is for.
