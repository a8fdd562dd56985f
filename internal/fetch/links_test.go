package fetch_test

import (
	"testing"

	"gist/internal/fetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ", wantOK: true},
		{url: "https://youtu.be/dQw4w9WgXcQ?t=42", want: "dQw4w9WgXcQ", wantOK: true},
		{url: "https://youtube.com/watch?v=abc-_12&list=x", want: "abc-_12", wantOK: true},
		{url: "https://youtu.be/short", wantOK: false},
		{url: "https://www.youtube.com/channel/UC123456", wantOK: false},
		{url: "https://example.com/article", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := fetch.ExtractVideoID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLinks(t *testing.T) {
	got := fetch.ParseLinks(" https://a.example/x, https://youtu.be/abcdefg ,,\nhttps://b.example\t https://c.example ")

	assert.Equal(t, []string{
		"https://a.example/x",
		"https://youtu.be/abcdefg",
		"https://b.example",
		"https://c.example",
	}, got)

	assert.Empty(t, fetch.ParseLinks(" , \n "))
}

func TestFindLinks(t *testing.T) {
	links, err := fetch.FindLinks("Read https://example.com/a and http://example.org/b, then https://example.com/a again. ftp://skip.me")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/a", "http://example.org/b"}, links)
}
