package transport

import "errors"

// ErrNotConnected is returned by Send while no session to the unit is up.
var ErrNotConnected = errors.New("Not connected to the central unit")
