// Package cache provides the short-lived snapshot store used by the stats
// loader. Values are JSON encoded.
package cache

import (
	"context"
	"time"
)

// Store reads and writes JSON-encodable values by key.
type Store interface {
	// Get decodes the value stored under key into dest. The boolean is false
	// on a miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type noop struct{}

// NewNoop returns a Store that never holds anything.
func NewNoop() Store { return noop{} }

func (noop) Get(context.Context, string, interface{}) (bool, error)       { return false, nil }
func (noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (noop) Delete(context.Context, ...string) error                      { return nil }
func (noop) Close() error                                                 { return nil }
