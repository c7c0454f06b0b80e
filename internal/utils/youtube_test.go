package utils

import "testing"

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url with extra params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url with timestamp", "https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ"},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"no scheme", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"underscore and dash in id", "https://youtu.be/a_b-C1d2E3f", "a_b-C1d2E3f"},
		{"not a youtube url", "https://vimeo.com/123456", ""},
		{"garbage", "not a url at all", ""},
		{"too-short id", "https://youtu.be/short", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractVideoID(tc.url); got != tc.want {
				t.Fatalf("ExtractVideoID(%q): want %q, got %q", tc.url, tc.want, got)
			}
		})
	}
}

func TestThumbnailURL(t *testing.T) {
	if got := ThumbnailURL("dQw4w9WgXcQ", ThumbnailMax); got != "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := ThumbnailURL("dQw4w9WgXcQ", ""); got != "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Fatalf("empty quality should default to hqdefault, got %q", got)
	}
	if got := ThumbnailURL("", ThumbnailHigh); got != "" {
		t.Fatalf("empty id should give empty url, got %q", got)
	}
}
