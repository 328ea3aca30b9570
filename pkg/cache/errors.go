package cache

import "errors"

// ErrBackend is returned when a cache backend (Redis, Mongo) fails in a way
// that is not a simple miss. Callers treating the cache as best-effort can
// check for it and fall through to a fresh fetch.
var ErrBackend = errors.New("cache backend error")
