package fetch

import (
	"fmt"
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"
)

var youTubeIDRe = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([A-Za-z0-9_\-]{6,})`)

// ExtractVideoID returns the YouTube video id embedded in rawURL.
func ExtractVideoID(rawURL string) (string, bool) {
	m := youTubeIDRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}

	return m[1], true
}

// ParseLinks splits a comma or whitespace separated list of links.
func ParseLinks(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})

	links := make([]string, 0, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			links = append(links, field)
		}
	}

	return links
}

// FindLinks returns the http and https URLs mentioned in free text, in
// order and without duplicates.
func FindLinks(text string) ([]string, error) {
	re, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		return nil, fmt.Errorf("create regexp: %w", err)
	}

	var links []string
	seen := make(map[string]struct{})
	for _, u := range re.FindAllString(text, -1) {
		u = strings.TrimSpace(u)
		if _, ok := seen[u]; ok {
			continue
		}

		seen[u] = struct{}{}
		links = append(links, u)
	}

	return links, nil
}
