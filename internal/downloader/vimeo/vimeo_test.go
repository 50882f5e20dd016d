package vimeo_test

import (
	"testing"

	"github.com/praneethvg/video-summarizer/internal/downloader/vimeo"
)

func TestCanHandle(t *testing.T) {
	d := vimeo.New(nil)
	cases := []struct {
		url  string
		want bool
	}{
		{"https://vimeo.com/123456", true},
		{"https://www.vimeo.com/123456", true},
		{"https://player.vimeo.com/video/123456", true},
		{"https://vimeo.com/about", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", false},
	}
	for _, tc := range cases {
		if got := d.CanHandle(tc.url); got != tc.want {
			t.Errorf("CanHandle(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestVideoID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://vimeo.com/123456", "123456"},
		{"https://player.vimeo.com/video/987654", "987654"},
		{"https://vimeo.com/about", ""},
	}
	for _, tc := range cases {
		if got := vimeo.VideoID(tc.url); got != tc.want {
			t.Errorf("VideoID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
