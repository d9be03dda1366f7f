package client

import "errors"

var (
	ErrNotConnected  = errors.New("Not connected to the central unit")
	ErrQueryTimeout  = errors.New("Central unit did not answer the query in time")
	ErrQueryInFlight = errors.New("A query for this item is already in flight")
	ErrValidation    = errors.New("Parameter is outside its allowed range")
)
