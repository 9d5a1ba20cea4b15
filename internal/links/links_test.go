package links_test

import (
	"testing"

	"cinepick/internal/links"
)

func TestPosterURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{links.DefaultPosterBase, "/abc.jpg", "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{"https://img.example/", "abc.jpg", "https://img.example/abc.jpg"},
		{"", "/abc.jpg", "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{links.DefaultPosterBase, "", ""},
	}
	for _, tt := range tests {
		if got := links.PosterURL(tt.base, tt.path); got != tt.want {
			t.Errorf("PosterURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestYouTubeURL(t *testing.T) {
	if got := links.YouTubeURL("5xH0HfJHsaY"); got != "https://www.youtube.com/watch?v=5xH0HfJHsaY" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := links.YouTubeURL(" "); got != "" {
		t.Fatalf("expected empty url, got %q", got)
	}
}

func TestOTTSearchURL(t *testing.T) {
	tests := []struct {
		title, want string
	}{
		{"Drive My Car", "https://www.justwatch.com/in/search?q=Drive%20My%20Car"},
		{"Parasite", "https://www.justwatch.com/in/search?q=Parasite"},
		{"Amélie", "https://www.justwatch.com/in/search?q=Am%C3%A9lie"},
		{"Tom & Jerry", "https://www.justwatch.com/in/search?q=Tom%20%26%20Jerry"},
		{"C++", "https://www.justwatch.com/in/search?q=C%2B%2B"},
		{"", "https://www.justwatch.com/in/search?q="},
	}
	for _, tt := range tests {
		if got := links.OTTSearchURL(links.DefaultOTTSearchTemplate, tt.title); got != tt.want {
			t.Errorf("OTTSearchURL(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}

	if got := links.OTTSearchURL("https://example.com/find/{query}/all", "A B"); got != "https://example.com/find/A%20B/all" {
		t.Errorf("custom template = %q", got)
	}
}
