package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is a size-bounded in-process LRU with a per-entry TTL.
type Memory struct {
	lru *expirable.LRU[string, string]
}

// NewMemory returns nil when maxEntries is not positive; a nil *Memory
// behaves as an always-empty cache.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		return nil
	}

	return &Memory{
		lru: expirable.NewLRU[string, string](maxEntries, nil, ttl),
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	if m == nil || key == "" {
		return "", false
	}

	return m.lru.Get(key)
}

func (m *Memory) Set(_ context.Context, key string, value string) {
	if m == nil || key == "" || value == "" {
		return
	}

	m.lru.Add(key, value)
}

// Len reports the number of live entries.
func (m *Memory) Len() int {
	if m == nil {
		return 0
	}

	return m.lru.Len()
}
