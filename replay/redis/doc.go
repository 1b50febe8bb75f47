// Package redis builds the go-redis client backing the Redis account
// repository and transaction caches.
//
// New validates its Config, pings the server with exponential backoff and,
// when asked, deletes the keys left under its key prefix by a previous run so
// a run starts from empty state. Keys outside the prefix are never touched.
package redis
