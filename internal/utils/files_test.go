package utils

import "testing"

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5242880, "5.0 MB"},
		{1073741824, "1.0 GB"},
	}
	for _, tc := range cases {
		if got := FormatFileSize(tc.bytes); got != tc.want {
			t.Fatalf("FormatFileSize(%d): want %q, got %q", tc.bytes, tc.want, got)
		}
	}
}

func TestFileIcon(t *testing.T) {
	cases := []struct {
		mime string
		want string
	}{
		{"image/png", "🖼️"},
		{"video/mp4", "🎬"},
		{"application/pdf", "📕"},
		{"application/zip", "🗜️"},
		{"application/vnd.ms-excel", "📊"},
		{"text/plain", "📄"},
		{"application/octet-stream", "📎"},
		{"", "📎"},
	}
	for _, tc := range cases {
		if got := FileIcon(tc.mime); got != tc.want {
			t.Fatalf("FileIcon(%q): want %q, got %q", tc.mime, tc.want, got)
		}
	}
}
