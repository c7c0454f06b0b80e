package utils

import (
	"fmt"
	"regexp"
)

// Matches watch?v=, youtu.be/ and embed/ URL forms. The capture group is the
// canonical 11-character video code.
var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com\/(?:watch\?(?:.*&)?v=|embed\/)|youtu\.be\/)([A-Za-z0-9_-]{11})`)

// ExtractVideoID returns the 11-character YouTube video id embedded in url,
// or "" when url is not a recognizable YouTube URL.
func ExtractVideoID(url string) string {
	m := youtubeIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// ThumbnailQuality selects one of YouTube's fixed thumbnail renditions.
type ThumbnailQuality string

const (
	ThumbnailDefault  ThumbnailQuality = "default"
	ThumbnailMedium   ThumbnailQuality = "mqdefault"
	ThumbnailHigh     ThumbnailQuality = "hqdefault"
	ThumbnailStandard ThumbnailQuality = "sddefault"
	ThumbnailMax      ThumbnailQuality = "maxresdefault"
)

// ThumbnailURL builds the deterministic thumbnail URL for a video id. No
// network call is made and the id is not validated beyond being non-empty.
func ThumbnailURL(videoID string, quality ThumbnailQuality) string {
	if videoID == "" {
		return ""
	}
	if quality == "" {
		quality = ThumbnailHigh
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, quality)
}
