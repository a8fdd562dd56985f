// Package cache holds the content-addressed caches used for fetched
// sources and summaries.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Cache stores string values by key. Implementations are safe for
// concurrent use and treat every backend failure as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string)
}

// Key derives a stable cache key from a namespace and its parts.
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}

	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool) { return "", false }

func (Nop) Set(context.Context, string, string) {}
