package fetch_test

import (
	"context"
	"testing"
	"time"

	"gist/internal/fetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiterSpacesSameHost(t *testing.T) {
	l := fetch.NewHostLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, l.Wait(ctx, "https://example.com/a"))
	require.NoError(t, l.Wait(ctx, "https://other.example/b"))
	assert.Less(t, time.Since(start), 40*time.Millisecond)

	require.NoError(t, l.Wait(ctx, "https://example.com/c"))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestHostLimiterRejectsHostlessURL(t *testing.T) {
	l := fetch.NewHostLimiter(time.Second)
	require.Error(t, l.Wait(context.Background(), "/relative/path"))
}

func TestHostLimiterHonoursContext(t *testing.T) {
	l := fetch.NewHostLimiter(time.Hour)
	require.NoError(t, l.Wait(context.Background(), "https://example.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.Error(t, l.Wait(ctx, "https://example.com"))
}

func TestHostLimiterDisabled(t *testing.T) {
	l := fetch.NewHostLimiter(0)
	for range 3 {
		require.NoError(t, l.Wait(context.Background(), "not even parsed"))
	}
}
