// Package cache provides a small response cache abstraction with Redis and
// no-op implementations.
package cache
