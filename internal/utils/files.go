package utils

import (
	"fmt"
	"strings"
)

// FormatFileSize renders a byte count the way the UI shows attachments.
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FileIcon maps a MIME type to the glyph shown next to an attachment.
func FileIcon(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mt, "image/"):
		return "🖼️"
	case strings.HasPrefix(mt, "video/"):
		return "🎬"
	case strings.HasPrefix(mt, "audio/"):
		return "🎵"
	case mt == "application/pdf":
		return "📕"
	case strings.Contains(mt, "zip"), strings.Contains(mt, "compressed"), strings.Contains(mt, "tar"):
		return "🗜️"
	case strings.Contains(mt, "spreadsheet"), strings.Contains(mt, "excel"), mt == "text/csv":
		return "📊"
	case strings.Contains(mt, "presentation"), strings.Contains(mt, "powerpoint"):
		return "📽️"
	case strings.Contains(mt, "word"), strings.Contains(mt, "document"), strings.HasPrefix(mt, "text/"):
		return "📄"
	default:
		return "📎"
	}
}
