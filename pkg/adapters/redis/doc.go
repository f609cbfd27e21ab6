// Package redis persists simulation frames in Redis and guards run ids with a
// distributed lock.
package redis
