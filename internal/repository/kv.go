package repository

import "errors"

// ErrKeyNotFound is returned by key-value stores when a key has never been written.
var ErrKeyNotFound = errors.New("key not found")
