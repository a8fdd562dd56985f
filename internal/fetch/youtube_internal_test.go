package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimedText(t *testing.T) {
	got, err := parseTimedText([]byte(`<transcript><text>One &amp;amp; two</text><text> </text><text>three</text></transcript>`))
	require.NoError(t, err)
	assert.Equal(t, "One & two three", got)

	_, err = parseTimedText([]byte(`<transcript><text>broken`))
	require.Error(t, err)
}

func TestFindTrackPrefersManual(t *testing.T) {
	tracks := []captionTrack{
		{baseURL: "asr", language: "en", generated: true},
		{baseURL: "manual", language: "en"},
		{baseURL: "us", language: "en-US"},
	}

	track, ok := findTrack(tracks, "en")
	require.True(t, ok)
	assert.Equal(t, "manual", track.baseURL)

	track, ok = findTrack(tracks[:1], "en")
	require.True(t, ok)
	assert.Equal(t, "asr", track.baseURL)

	_, ok = findTrack(tracks, "en-GB")
	assert.False(t, ok)
}

func TestWithQuery(t *testing.T) {
	got, err := withQuery("https://example.com/api/timedtext?v=x&lang=de", "tlang", "en")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api/timedtext?lang=de&tlang=en&v=x", got)
}
