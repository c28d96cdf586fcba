package storage

import "errors"

// ErrNotFound is returned when a trip or itinerary does not exist.
var ErrNotFound = errors.New("not found")
