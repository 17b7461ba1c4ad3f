package discovery_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"openingline/internal/candidates"
	"openingline/internal/config"
	"openingline/internal/discovery"
	"openingline/internal/discovery/tmdb"
	"openingline/internal/services"
	"openingline/internal/testsupport"
)

type stubDiscoverer struct {
	pages  map[int]*tmdb.Response
	failOn int
	calls  []tmdb.DiscoverOptions
}

func (s *stubDiscoverer) Discover(_ context.Context, opts tmdb.DiscoverOptions) (*tmdb.Response, error) {
	s.calls = append(s.calls, opts)
	if opts.Page == s.failOn {
		return nil, errors.New("connection reset")
	}
	resp, ok := s.pages[opts.Page]
	if !ok {
		return &tmdb.Response{Page: opts.Page}, nil
	}
	return resp, nil
}

func fixedClock() time.Time {
	return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func newRepo(t *testing.T) (*candidates.Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.json")
	repo, err := candidates.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return repo, path
}

func tmdbConfig() config.TMDB {
	return config.Default().TMDB
}

func TestRunFetchesAllPagesAndIngests(t *testing.T) {
	client := &stubDiscoverer{pages: map[int]*tmdb.Response{
		1: {Page: 1, TotalPages: 2, Results: []tmdb.Movie{{ID: 1, Title: "One"}, {ID: 2, Title: "Two"}}},
		2: {Page: 2, TotalPages: 2, Results: []tmdb.Movie{{ID: 2, Title: "Two again"}, {ID: 3, Title: " Three "}}},
	}}
	repo, _ := newRepo(t)
	svc := discovery.NewService(tmdbConfig(), client, repo, discovery.WithClock(fixedClock))

	summary, err := svc.Run(context.Background(), 1999)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := discovery.Summary{Year: 1999, Pages: 2, Fetched: 4, Added: 3}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
	if len(client.calls) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(client.calls))
	}
	first := client.calls[0]
	if first.Year != 1999 || first.Page != 1 || first.OriginalLanguage != "en" || first.MinVoteCount != 500 || first.SortBy != "popularity.desc" {
		t.Fatalf("unexpected filters: %+v", first)
	}

	stored := repo.All()
	if len(stored) != 3 || stored[2].Name != "Three" || stored[2].Year != 1999 || stored[2].Processed {
		t.Fatalf("unexpected stored candidates: %#v", stored)
	}
}

func TestRunCapsPagesAtLimit(t *testing.T) {
	client := &stubDiscoverer{pages: map[int]*tmdb.Response{
		1: {Page: 1, TotalPages: 900, Results: []tmdb.Movie{{ID: 1, Title: "One"}}},
	}}
	repo, _ := newRepo(t)
	svc := discovery.NewService(tmdbConfig(), client, repo, discovery.WithClock(fixedClock))

	summary, err := svc.Run(context.Background(), 2010)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Pages != tmdb.MaxPage || len(client.calls) != tmdb.MaxPage {
		t.Fatalf("expected %d pages, got summary=%d calls=%d", tmdb.MaxPage, summary.Pages, len(client.calls))
	}
}

func TestRunZeroResults(t *testing.T) {
	client := &stubDiscoverer{pages: map[int]*tmdb.Response{1: {Page: 1}}}
	repo, _ := newRepo(t)
	svc := discovery.NewService(tmdbConfig(), client, repo, discovery.WithClock(fixedClock))

	summary, err := svc.Run(context.Background(), 1950)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Pages != 1 || summary.Fetched != 0 || summary.Added != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunPageFailureDiscardsEverything(t *testing.T) {
	client := &stubDiscoverer{
		pages: map[int]*tmdb.Response{
			1: {Page: 1, TotalPages: 3, Results: []tmdb.Movie{{ID: 1, Title: "One"}}},
			2: {Page: 2, TotalPages: 3, Results: []tmdb.Movie{{ID: 2, Title: "Two"}}},
		},
		failOn: 3,
	}
	repo, path := newRepo(t)
	svc := discovery.NewService(tmdbConfig(), client, repo, discovery.WithClock(fixedClock))

	_, err := svc.Run(context.Background(), 2000)
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected ErrExternal, got %v", err)
	}
	stored := testsupport.ReadJSON[[]candidates.Candidate](t, path)
	if len(stored) != 0 {
		t.Fatalf("expected nothing persisted, got %#v", stored)
	}
}

func TestRunRejectsMalformedResult(t *testing.T) {
	client := &stubDiscoverer{pages: map[int]*tmdb.Response{
		1: {Page: 1, TotalPages: 1, Results: []tmdb.Movie{{ID: 1, Title: "One"}, {ID: 0, Title: "Nobody"}}},
	}}
	repo, _ := newRepo(t)
	svc := discovery.NewService(tmdbConfig(), client, repo, discovery.WithClock(fixedClock))

	if _, err := svc.Run(context.Background(), 2000); !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if len(repo.All()) != 0 {
		t.Fatal("expected no candidates ingested")
	}
}

func TestRunValidatesYear(t *testing.T) {
	client := &stubDiscoverer{}
	repo, _ := newRepo(t)
	svc := discovery.NewService(tmdbConfig(), client, repo, discovery.WithClock(fixedClock))

	for _, year := range []int{1899, 2025} {
		if _, err := svc.Run(context.Background(), year); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("year %d: expected ErrValidation, got %v", year, err)
		}
	}
	if len(client.calls) != 0 {
		t.Fatal("no request should be issued for an invalid year")
	}
}

func TestAskYearRepromptsUntilValid(t *testing.T) {
	prompter := testsupport.NewScriptedPrompter("nineteen", "1899", "2031", "  1987 ")
	repo, _ := newRepo(t)
	svc := discovery.NewService(tmdbConfig(), &stubDiscoverer{}, repo,
		discovery.WithClock(fixedClock),
		discovery.WithPrompter(prompter),
	)

	year, err := svc.AskYear(context.Background())
	if err != nil {
		t.Fatalf("AskYear: %v", err)
	}
	if year != 1987 {
		t.Fatalf("year = %d, want 1987", year)
	}
	if len(prompter.InputMessages) != 4 {
		t.Fatalf("expected 4 prompts, got %d", len(prompter.InputMessages))
	}
}

func TestAskYearPropagatesPromptError(t *testing.T) {
	prompter := testsupport.NewScriptedPrompter().FailWith(os.ErrClosed)
	repo, _ := newRepo(t)
	svc := discovery.NewService(tmdbConfig(), &stubDiscoverer{}, repo,
		discovery.WithClock(fixedClock),
		discovery.WithPrompter(prompter),
	)
	if _, err := svc.AskYear(context.Background()); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected prompt error, got %v", err)
	}
}

func TestAskYearRequiresPrompter(t *testing.T) {
	repo, _ := newRepo(t)
	svc := discovery.NewService(tmdbConfig(), &stubDiscoverer{}, repo)
	if _, err := svc.AskYear(context.Background()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
