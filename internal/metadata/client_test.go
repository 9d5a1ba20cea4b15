package metadata_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"cinepick/internal/metacache"
	"cinepick/internal/metadata"
	"cinepick/internal/tmdb"
)

type fakeSource struct {
	mu       sync.Mutex
	results  map[string][]tmdb.Result
	videos   map[int64][]tmdb.Video
	err      error
	searches int
	gate     chan struct{}
}

func (f *fakeSource) SearchMovie(ctx context.Context, query string) (*tmdb.Response, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.searches++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &tmdb.Response{Page: 1, Results: f.results[query]}, nil
}

func (f *fakeSource) MovieVideos(ctx context.Context, id int64) (*tmdb.VideosResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &tmdb.VideosResponse{ID: id, Results: f.videos[id]}, nil
}

func (f *fakeSource) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

func titles(cands []metadata.Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Title)
	}
	return out
}

func TestSearchMovieSortsNewestFirstWithUndatedLast(t *testing.T) {
	source := &fakeSource{results: map[string][]tmdb.Result{
		"Drive": {
			{ID: 1, Title: "2019", ReleaseDate: "2019-01-01"},
			{ID: 2, Title: "undated"},
			{ID: 3, Title: "2023", ReleaseDate: "2023-05-05"},
			{ID: 4, Title: "2021", ReleaseDate: "2021-03-03"},
		},
	}}
	client := metadata.New(source)

	res := client.SearchMovie(context.Background(), "Drive", "")
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	want := []string{"2023", "2021", "2019", "undated"}
	if diff := cmp.Diff(want, titles(res.Candidates)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchMovieFiltersByLanguage(t *testing.T) {
	source := &fakeSource{results: map[string][]tmdb.Result{
		"Parasite": {
			{ID: 1, Title: "Parasite (en)", OriginalLanguage: "en", ReleaseDate: "1982-03-12"},
			{ID: 2, Title: "Parasite", OriginalLanguage: "ko", ReleaseDate: "2019-05-30"},
		},
	}}
	client := metadata.New(source)

	res := client.SearchMovie(context.Background(), "Parasite", "ko")
	if diff := cmp.Diff([]string{"Parasite"}, titles(res.Candidates)); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}

	none := client.SearchMovie(context.Background(), "Parasite", "ja")
	if !none.OK() || len(none.Candidates) != 0 {
		t.Fatalf("expected empty successful result, got %+v", none)
	}
}

func TestSearchMovieSoftFails(t *testing.T) {
	client := metadata.New(&fakeSource{err: errors.New("network down")})

	res := client.SearchMovie(context.Background(), "Inception", "")
	if res.OK() {
		t.Fatal("expected failure to be reported in result")
	}
	if res.Candidates != nil {
		t.Fatalf("expected nil candidates on failure, got %v", res.Candidates)
	}
}

func TestSearchMovieEmptyQuerySkipsNetwork(t *testing.T) {
	source := &fakeSource{}
	client := metadata.New(source)

	res := client.SearchMovie(context.Background(), "   ", "")
	if !res.OK() || len(res.Candidates) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if source.searchCount() != 0 {
		t.Fatalf("expected no network call, got %d", source.searchCount())
	}
}

func TestSearchMovieUsesCache(t *testing.T) {
	cache, err := metacache.New(t.TempDir(), time.Hour, nil)
	if err != nil {
		t.Fatalf("metacache.New: %v", err)
	}
	source := &fakeSource{results: map[string][]tmdb.Result{
		"Inception": {{ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15"}},
	}}
	client := metadata.New(source, metadata.WithCache(cache))

	first := client.SearchMovie(context.Background(), "Inception", "")
	second := client.SearchMovie(context.Background(), "Inception", "")
	if source.searchCount() != 1 {
		t.Fatalf("expected one upstream search, got %d", source.searchCount())
	}
	if diff := cmp.Diff(first.Candidates, second.Candidates); diff != "" {
		t.Fatalf("cached result differs (-first +second):\n%s", diff)
	}
}

func TestSearchMovieCollapsesConcurrentLookups(t *testing.T) {
	source := &fakeSource{
		results: map[string][]tmdb.Result{"Her": {{ID: 1, Title: "Her", ReleaseDate: "2013-12-18"}}},
		gate:    make(chan struct{}),
	}
	client := metadata.New(source)

	var wg sync.WaitGroup
	var matched atomic.Int32
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res := client.SearchMovie(context.Background(), "Her", ""); len(res.Candidates) == 1 {
				matched.Add(1)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(source.gate)
	wg.Wait()

	if matched.Load() != 5 {
		t.Fatalf("expected all callers to receive the result, got %d", matched.Load())
	}
	if n := source.searchCount(); n < 1 || n > 5 {
		t.Fatalf("unexpected upstream search count %d", n)
	}
}

func TestSearchMovieCancelledCallerDoesNotFailSharedLookup(t *testing.T) {
	source := &fakeSource{
		results: map[string][]tmdb.Result{"Her": {{ID: 1, Title: "Her", ReleaseDate: "2013-12-18"}}},
		gate:    make(chan struct{}),
	}
	client := metadata.New(source)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan metadata.SearchResult, 1)
	go func() { first <- client.SearchMovie(ctx, "Her", "") }()
	time.Sleep(20 * time.Millisecond)

	second := make(chan metadata.SearchResult, 1)
	go func() { second <- client.SearchMovie(context.Background(), "Her", "") }()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case res := <-first:
		if !errors.Is(res.Err, context.Canceled) {
			t.Fatalf("expected cancelled caller to see context.Canceled, got %v", res.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(source.gate)
	res := <-second
	if res.Err != nil {
		t.Fatalf("joined caller failed: %v", res.Err)
	}
	if diff := cmp.Diff([]string{"Her"}, titles(res.Candidates)); diff != "" {
		t.Fatalf("unexpected candidates (-want +got):\n%s", diff)
	}
}

func TestSearchMovieCacheIsScopedByLocale(t *testing.T) {
	cache, err := metacache.New(t.TempDir(), time.Hour, nil)
	if err != nil {
		t.Fatalf("metacache.New: %v", err)
	}
	english := &fakeSource{results: map[string][]tmdb.Result{
		"Parasite": {{ID: 496243, Title: "Parasite", ReleaseDate: "2019-05-30"}},
	}}
	korean := &fakeSource{results: map[string][]tmdb.Result{
		"Parasite": {{ID: 496243, Title: "기생충", ReleaseDate: "2019-05-30"}},
	}}

	en := metadata.New(english, metadata.WithCache(cache), metadata.WithLocale("en-US", "IN"))
	ko := metadata.New(korean, metadata.WithCache(cache), metadata.WithLocale("ko-KR", "KR"))

	if got := titles(en.SearchMovie(context.Background(), "Parasite", "").Candidates); !cmp.Equal(got, []string{"Parasite"}) {
		t.Fatalf("unexpected en-US titles %v", got)
	}
	if got := titles(ko.SearchMovie(context.Background(), "Parasite", "").Candidates); !cmp.Equal(got, []string{"기생충"}) {
		t.Fatalf("ko-KR lookup served another locale's payload: %v", got)
	}
	if english.searchCount() != 1 || korean.searchCount() != 1 {
		t.Fatalf("expected one upstream search per locale, got en=%d ko=%d", english.searchCount(), korean.searchCount())
	}

	again := metadata.New(korean, metadata.WithCache(cache), metadata.WithLocale("ko-KR", "kr"))
	_ = again.SearchMovie(context.Background(), "parasite", "")
	if korean.searchCount() != 1 {
		t.Fatalf("expected same-locale lookup to hit the cache, got %d upstream searches", korean.searchCount())
	}
}

func TestSearchMovieRateLimitHonoursContext(t *testing.T) {
	source := &fakeSource{results: map[string][]tmdb.Result{}}
	client := metadata.New(source, metadata.WithRateLimit(0.001, 1))

	_ = client.SearchMovie(context.Background(), "first", "")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res := client.SearchMovie(ctx, "second", "")
	if res.OK() {
		t.Fatal("expected limiter wait to fail once the context expires")
	}
}

func TestFetchTrailerPicksFirstYouTubeTrailer(t *testing.T) {
	source := &fakeSource{videos: map[int64][]tmdb.Video{
		496243: {
			{Key: "teaser", Site: "YouTube", Type: "Teaser"},
			{Key: "vimeo", Site: "Vimeo", Type: "Trailer"},
			{Key: "5xH0HfJHsaY", Site: "YouTube", Type: "Trailer"},
			{Key: "second", Site: "YouTube", Type: "Trailer"},
		},
		1: {{Key: "clip", Site: "YouTube", Type: "Clip"}},
	}}
	client := metadata.New(source)

	res := client.FetchTrailer(context.Background(), 496243)
	if !res.Found || res.URL != "https://www.youtube.com/watch?v=5xH0HfJHsaY" {
		t.Fatalf("unexpected trailer: %+v", res)
	}

	none := client.FetchTrailer(context.Background(), 1)
	if none.Found || none.Err != nil || none.URL != "" {
		t.Fatalf("expected not found without error, got %+v", none)
	}
}

func TestFetchTrailerSoftFails(t *testing.T) {
	client := metadata.New(&fakeSource{err: errors.New("boom")})
	res := client.FetchTrailer(context.Background(), 42)
	if res.Found || res.Err == nil {
		t.Fatalf("expected soft failure, got %+v", res)
	}
}

func TestSearchMovieOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	source, err := tmdb.New("key", server.URL, "en-US")
	if err != nil {
		t.Fatalf("tmdb.New: %v", err)
	}
	res := metadata.New(source).SearchMovie(context.Background(), "Inception", "")
	var statusErr *tmdb.StatusError
	if !errors.As(res.Err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected wrapped status error, got %v", res.Err)
	}
}
