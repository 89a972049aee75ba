// Package cache provides response caching for read-only catalog endpoints.
//
// Two Store implementations are available: MemoryStore, an in-process LRU with
// per-entry expiry, and RedisStore, which shares entries across instances.
// Middleware wraps an http.Handler and replays cached GET 200 responses,
// marking them with an X-Cache header. InvalidateHandler empties the store.
//
//	store := cache.NewMemoryStore(cache.WithCapacity(256))
//	r.With(cache.Middleware(store, time.Hour)).Get("/plan/{name}", h)
package cache
