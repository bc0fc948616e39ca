package db

import "errors"

// ErrNotFound is returned by writes that matched no row. Reads report an
// absent row as a nil entity with a nil error instead.
var ErrNotFound = errors.New("not found")
