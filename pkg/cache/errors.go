package cache

import "errors"

var (
	ErrEmptyKey   = errors.New("cache: empty key")
	ErrStoreRead  = errors.New("cache: failed to read entry")
	ErrStoreWrite = errors.New("cache: failed to write entry")
	ErrStoreClear = errors.New("cache: failed to clear store")
)
