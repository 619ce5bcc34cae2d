// Package youtube derives video ids from YouTube URLs and scrapes basic
// metadata from watch pages.
package youtube

import (
	"fmt"
	"regexp"
)

var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
}

// ExtractVideoID returns the video id embedded in rawURL, or "" when no
// known URL shape matches. Patterns are tried in order.
func ExtractVideoID(rawURL string) string {
	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(rawURL); len(m) == 2 {
			return m[1]
		}
	}
	return ""
}

// ThumbnailURL is the full-size thumbnail stored with a saved video.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}

// PreviewThumbnailURL is the medium thumbnail shown while adding a video.
func PreviewThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", videoID)
}
