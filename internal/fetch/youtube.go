package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"gist/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

const (
	ReasonTranscriptsDisabled = "Transcripts are disabled for this video."
	ReasonVideoUnavailable    = "This video is unavailable."
	ReasonNoTranscript        = "No transcript could be found for this video."
	ReasonNoEnglishTranscript = "No English transcript found and translation failed."

	playerResponseMarker = "ytInitialPlayerResponse"
	translationLanguage  = "en"
)

var (
	preferredLanguages = []string{"en", "en-US", "en-GB"}

	errNoPlayerResponse = errors.New("player response not found")
)

type captionTrack struct {
	baseURL      string
	language     string
	generated    bool
	translatable bool
}

// FetchTranscript returns the English transcript of a YouTube video. A
// track in another language is translated when no English one exists.
func (f *Fetcher) FetchTranscript(ctx context.Context, videoID string) domain.FetchResult {
	watchURL := fmt.Sprintf("%s/watch?v=%s", f.cfg.YouTubeBaseURL, url.QueryEscape(videoID))

	resp, err := f.get(ctx, watchURL)
	if err != nil {
		return transcriptError(err)
	}

	player, err := playerResponse(resp.body)
	if err != nil {
		return transcriptError(err)
	}

	status := player.Get("playabilityStatus.status").String()
	if status != "" && status != "OK" {
		f.log.InfoContext(ctx, "Video is not playable",
			"video_id", videoID,
			"status", status,
			"reason", player.Get("playabilityStatus.reason").String())

		return domain.Failed(ReasonVideoUnavailable)
	}

	captions := player.Get("captions.playerCaptionsTracklistRenderer")
	if !captions.Exists() {
		return domain.Failed(ReasonTranscriptsDisabled)
	}

	tracks := captionTracks(captions)
	if len(tracks) == 0 {
		return domain.Failed(ReasonNoTranscript)
	}

	for _, lang := range preferredLanguages {
		track, ok := findTrack(tracks, lang)
		if !ok {
			continue
		}

		transcript, fetchErr := f.fetchTrack(ctx, track.baseURL)
		if fetchErr != nil {
			return transcriptError(fetchErr)
		}
		if transcript != "" {
			return domain.Fetched(transcript)
		}
	}

	for _, track := range tracks {
		if !track.translatable {
			continue
		}

		translated, urlErr := withQuery(track.baseURL, "tlang", translationLanguage)
		if urlErr != nil {
			continue
		}

		transcript, fetchErr := f.fetchTrack(ctx, translated)
		if fetchErr != nil {
			f.log.WarnContext(ctx, "Failed to fetch translated transcript",
				"video_id", videoID,
				"language", track.language,
				"error", fetchErr)

			continue
		}
		if transcript != "" {
			return domain.Fetched(transcript)
		}
	}

	return domain.Failed(ReasonNoEnglishTranscript)
}

func transcriptError(err error) domain.FetchResult {
	return domain.Failed(fmt.Sprintf("Could not fetch transcript: %v", err))
}

func playerResponse(page []byte) (gjson.Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("parse watch page: %w", err)
	}

	var player gjson.Result
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		body := s.Text()

		idx := strings.Index(body, playerResponseMarker)
		if idx < 0 {
			return true
		}

		rest := body[idx+len(playerResponseMarker):]
		brace := strings.IndexByte(rest, '{')
		if brace < 0 {
			return true
		}

		// The object is followed by more script, so decode just one value.
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(rest[brace:])).Decode(&raw); err != nil {
			return true
		}

		player = gjson.ParseBytes(raw)

		return false
	})

	if !player.Exists() {
		return gjson.Result{}, errNoPlayerResponse
	}

	return player, nil
}

func captionTracks(captions gjson.Result) []captionTrack {
	var tracks []captionTrack
	captions.Get("captionTracks").ForEach(func(_, t gjson.Result) bool {
		baseURL := t.Get("baseUrl").String()
		if baseURL == "" {
			return true
		}

		tracks = append(tracks, captionTrack{
			baseURL:      baseURL,
			language:     t.Get("languageCode").String(),
			generated:    t.Get("kind").String() == "asr",
			translatable: t.Get("isTranslatable").Bool(),
		})

		return true
	})

	return tracks
}

// findTrack prefers a manually created track over a generated one.
func findTrack(tracks []captionTrack, lang string) (captionTrack, bool) {
	var (
		generated captionTrack
		found     bool
	)

	for _, t := range tracks {
		if t.language != lang {
			continue
		}
		if !t.generated {
			return t, true
		}
		if !found {
			generated, found = t, true
		}
	}

	return generated, found
}

func (f *Fetcher) fetchTrack(ctx context.Context, trackURL string) (string, error) {
	resp, err := f.get(ctx, trackURL)
	if err != nil {
		return "", err
	}

	return parseTimedText(resp.body)
}

// parseTimedText joins the cues of a timedtext document. Both the legacy
// <text> and the srv3 <p> cue elements are understood.
func parseTimedText(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		segments []string
		current  strings.Builder
		depth    int
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode timed text: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if isCue(t.Name.Local) {
				depth++
			}
		case xml.EndElement:
			if !isCue(t.Name.Local) || depth == 0 {
				continue
			}

			depth--
			if depth > 0 {
				continue
			}

			if segment := normalizeWhitespace(html.UnescapeString(current.String())); segment != "" {
				segments = append(segments, segment)
			}
			current.Reset()
		case xml.CharData:
			if depth > 0 {
				current.Write(t)
			}
		}
	}

	return strings.Join(segments, " "), nil
}

func isCue(name string) bool {
	return name == "text" || name == "p"
}

func withQuery(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}

	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
