package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinepick/internal/tmdb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "en-US"); err == nil {
		t.Fatal("expected error when api key missing")
	}
	if _, err := tmdb.New("key", " ", "en-US"); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestSearchMovieSendsLocaleParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		want := map[string]string{
			"api_key":       "key",
			"query":         "Drive My Car",
			"language":      "en-US",
			"include_adult": "false",
			"region":        "IN",
			"page":          "1",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("param %s = %q, want %q", k, got, v)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"Drive My Car","original_language":"ja","release_date":"2021-08-20","vote_average":7.5,"poster_path":"/p.jpg"},{"id":2,"title":"No Votes"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US", tmdb.WithRegion("in"), tmdb.WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	resp, err := client.SearchMovie(context.Background(), "  Drive My Car ")
	if err != nil {
		t.Fatalf("SearchMovie returned error: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("unexpected response: %#v", resp)
	}
	first := resp.Results[0]
	if first.OriginalLanguage != "ja" || first.PosterPath != "/p.jpg" || first.VoteAverage == nil || *first.VoteAverage != 7.5 {
		t.Fatalf("unexpected first result: %#v", first)
	}
	if resp.Results[1].VoteAverage != nil {
		t.Fatalf("expected missing vote_average to stay nil, got %v", *resp.Results[1].VoteAverage)
	}
}

func TestSearchMovieHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.SearchMovie(context.Background(), "fail")
	var statusErr *tmdb.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized || statusErr.Operation != "search" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestSearchMovieDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	t.Cleanup(server.Close)

	client, _ := tmdb.New("key", server.URL, "")
	if _, err := client.SearchMovie(context.Background(), "x"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSearchMovieEmptyQuery(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMovie(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestMovieVideos(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/496243/videos" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("language") != "en-US" {
			t.Errorf("expected language parameter, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"id":496243,"results":[{"key":"abc","site":"YouTube","type":"Teaser"},{"key":"xyz","site":"YouTube","type":"Trailer"}]}`))
	}))
	t.Cleanup(server.Close)

	client, _ := tmdb.New("key", server.URL, "en-US")
	resp, err := client.MovieVideos(context.Background(), 496243)
	if err != nil {
		t.Fatalf("MovieVideos returned error: %v", err)
	}
	if len(resp.Results) != 2 || resp.Results[1].Type != "Trailer" {
		t.Fatalf("unexpected videos: %#v", resp)
	}

	if _, err := client.MovieVideos(context.Background(), 0); err == nil {
		t.Fatal("expected error for non-positive id")
	}
}
