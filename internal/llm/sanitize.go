package llm

import (
	"encoding/base64"
	"regexp"
	"strings"
)

const redactedMedia = "[REDACTED media]"

var (
	reDataURL = regexp.MustCompile(`(?is)\bdata:(image|video|audio)/[a-z0-9+.-]+;base64,[a-z0-9+/=\r\n]+`)
	reImgTag  = regexp.MustCompile(`(?is)<img[^>]*src=["']data:(image)/[^"']+["'][^>]*>`)
)

// RedactMedia replaces embedded media payloads in s with a marker.
// A string that as a whole looks like a long base64 blob is replaced entirely.
func RedactMedia(s string) string {
	if looksLikeBase64Image(s) {
		return redactedMedia
	}
	s = reImgTag.ReplaceAllString(s, redactedMedia)
	return reDataURL.ReplaceAllString(s, redactedMedia)
}

func looksLikeBase64Image(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 512 {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}
