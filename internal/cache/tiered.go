package cache

import (
	"context"

	"gist/internal/metrics"
)

// Layer is one named level of a Tiered cache.
type Layer struct {
	Name  string
	Cache Cache
}

// Tiered looks layers up in order and backfills the faster layers on a
// hit in a slower one. Writes go to every layer.
type Tiered struct {
	layers  []Layer
	metrics *metrics.Metrics
}

// NewTiered drops layers whose Cache is nil.
func NewTiered(m *metrics.Metrics, layers ...Layer) *Tiered {
	t := &Tiered{metrics: m}
	for _, l := range layers {
		if l.Cache == nil || isNilMemory(l.Cache) {
			continue
		}
		t.layers = append(t.layers, l)
	}

	return t
}

func (t *Tiered) Get(ctx context.Context, key string) (string, bool) {
	for i, l := range t.layers {
		value, ok := l.Cache.Get(ctx, key)
		t.metrics.ObserveCache(l.Name, ok)
		if !ok {
			continue
		}

		for _, faster := range t.layers[:i] {
			faster.Cache.Set(ctx, key, value)
		}

		return value, true
	}

	return "", false
}

func (t *Tiered) Set(ctx context.Context, key string, value string) {
	for _, l := range t.layers {
		l.Cache.Set(ctx, key, value)
	}
}

// Len reports the number of configured layers.
func (t *Tiered) Len() int {
	return len(t.layers)
}

func isNilMemory(c Cache) bool {
	m, ok := c.(*Memory)
	return ok && m == nil
}
