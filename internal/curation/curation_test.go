package curation_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"openingline/internal/candidates"
	"openingline/internal/curation"
	"openingline/internal/entries"
	"openingline/internal/prompt"
	"openingline/internal/services"
	"openingline/internal/subtitles/opensubtitles"
	"openingline/internal/testsupport"
)

type stubFetcher struct {
	search      opensubtitles.SearchResponse
	searchErr   error
	payload     string
	downloadErr error

	requests  []opensubtitles.SearchRequest
	downloads []int64
}

func (f *stubFetcher) Search(_ context.Context, req opensubtitles.SearchRequest) (opensubtitles.SearchResponse, error) {
	f.requests = append(f.requests, req)
	return f.search, f.searchErr
}

func (f *stubFetcher) Download(_ context.Context, fileID int64) (opensubtitles.DownloadResult, error) {
	f.downloads = append(f.downloads, fileID)
	if f.downloadErr != nil {
		return opensubtitles.DownloadResult{}, f.downloadErr
	}
	return opensubtitles.DownloadResult{Data: []byte(f.payload), FileName: "movie.srt"}, nil
}

func srt(lines ...string) string {
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%d\n00:00:%02d,000 --> 00:00:%02d,500\n%s\n\n", i+1, i, i, line)
	}
	return b.String()
}

func foundOne(fileID int64) opensubtitles.SearchResponse {
	return opensubtitles.SearchResponse{
		Subtitles: []opensubtitles.Subtitle{{ID: "1", Files: []opensubtitles.File{{ID: fileID}}}},
		Total:     1,
	}
}

type harness struct {
	repo     *candidates.Repository
	sink     *entries.Sink
	fetcher  *stubFetcher
	prompter *testsupport.ScriptedPrompter
	svc      *curation.Service
	moviesAt string
}

func newHarness(t *testing.T, fetcher *stubFetcher, prompter *testsupport.ScriptedPrompter, opts ...testsupport.ConfigOption) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	ctx := context.Background()
	repo, err := candidates.Open(ctx, cfg.MoviesPath())
	if err != nil {
		t.Fatalf("open candidates: %v", err)
	}
	if _, err := repo.Ingest(ctx, []candidates.Candidate{{ID: 949, Name: "Heat", Year: 1995}}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	sink, err := entries.NewSink(cfg.EntriesPath(), nil)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	svc := curation.NewService(curation.SettingsFromConfig(cfg), repo, sink, fetcher, prompter, nil)
	return &harness{repo: repo, sink: sink, fetcher: fetcher, prompter: prompter, svc: svc, moviesAt: cfg.MoviesPath()}
}

func (h *harness) processed(t *testing.T) bool {
	t.Helper()
	stored := testsupport.ReadJSON[[]candidates.Candidate](t, h.moviesAt)
	if len(stored) != 1 {
		t.Fatalf("expected one candidate, got %d", len(stored))
	}
	return stored[0].Processed
}

func (h *harness) storedEntries(t *testing.T) []entries.Entry {
	t.Helper()
	list, err := h.sink.List(context.Background())
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	return list
}

func TestRunKeepsSelectedLines(t *testing.T) {
	fetcher := &stubFetcher{search: foundOne(555), payload: srt("<i>First line</i>", "Second\nline", "Third")}
	prompter := testsupport.NewScriptedPrompter().QueueSelection(2, 0)
	h := newHarness(t, fetcher, prompter)

	result, err := h.svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Outcome != curation.OutcomeKept || result.Entry == nil {
		t.Fatalf("unexpected result: %+v", result)
	}
	want := entries.Entry{Movie: "Heat", Year: 1995, OpeningLine: "First line Third", URL: "https://www.themoviedb.org/movie/949"}
	if *result.Entry != want {
		t.Fatalf("entry = %+v, want %+v", *result.Entry, want)
	}
	if got := h.storedEntries(t); len(got) != 1 || got[0] != want {
		t.Fatalf("stored entries = %+v", got)
	}
	if !h.processed(t) {
		t.Fatal("candidate should be processed")
	}

	offered := prompter.Offered[0]
	if len(offered) != 4 || offered[1] != "Second line" || offered[3] != "(Skip movie)" {
		t.Fatalf("unexpected options: %q", offered)
	}
	if len(fetcher.downloads) != 1 || fetcher.downloads[0] != 555 {
		t.Fatalf("unexpected downloads: %v", fetcher.downloads)
	}
	req := fetcher.requests[0]
	if req.TMDBID != 949 || !req.TrustedSourcesOnly || !req.ExcludeForeignParts || len(req.Languages) != 1 || req.Languages[0] != "en" {
		t.Fatalf("unexpected search request: %+v", req)
	}
}

func TestRunOffersDialogueThatMentionsSubtitles(t *testing.T) {
	dialogue := `I said, "Subtitle by subtitle, we read it."`
	fetcher := &stubFetcher{search: foundOne(1), payload: srt("Subtitles by explosiveskull", "Hello there", dialogue)}
	prompter := testsupport.NewScriptedPrompter().QueueSelection()
	h := newHarness(t, fetcher, prompter)

	result, err := h.svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	options := prompter.Offered[0]
	if result.Offered != 2 || options[0] != "Hello there" || options[1] != dialogue {
		t.Fatalf("unexpected options %q", options)
	}
}

func TestRunOffersAtMostChoiceCountLines(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = fmt.Sprintf("Line %d", i)
	}
	fetcher := &stubFetcher{search: foundOne(1), payload: srt(lines...)}
	prompter := testsupport.NewScriptedPrompter().QueueSelection()
	h := newHarness(t, fetcher, prompter)

	result, err := h.svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Offered != 15 || len(prompter.Offered[0]) != 16 {
		t.Fatalf("expected 15 lines plus skip, got offered=%d options=%d", result.Offered, len(prompter.Offered[0]))
	}
}

func TestRunHonorsConfiguredChoiceCount(t *testing.T) {
	fetcher := &stubFetcher{search: foundOne(1), payload: srt("One", "Two", "Three", "Four")}
	prompter := testsupport.NewScriptedPrompter().QueueSelection()
	h := newHarness(t, fetcher, prompter, testsupport.WithChoiceCount(2))

	result, err := h.svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	options := prompter.Offered[0]
	if result.Offered != 2 || len(options) != 3 || options[0] != "One" || options[1] != "Two" {
		t.Fatalf("unexpected options %q", options)
	}
}

func TestRunSkipMarksProcessedOnly(t *testing.T) {
	fetcher := &stubFetcher{search: foundOne(1), payload: srt("One", "Two")}
	h := newHarness(t, fetcher, testsupport.NewScriptedPrompter().QueueSelection(2))

	result, err := h.svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Outcome != curation.OutcomeSkipped || result.Entry != nil {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !h.processed(t) {
		t.Fatal("skipped candidate should be processed")
	}
	if len(h.storedEntries(t)) != 0 {
		t.Fatal("skip must not record an entry")
	}
}

func TestRunSkipWinsOverSelectedLines(t *testing.T) {
	fetcher := &stubFetcher{search: foundOne(1), payload: srt("One", "Two")}
	h := newHarness(t, fetcher, testsupport.NewScriptedPrompter().QueueSelection(0, 2))

	result, err := h.svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Outcome != curation.OutcomeSkipped {
		t.Fatalf("expected skipped outcome, got %s", result.Outcome)
	}
	if len(h.storedEntries(t)) != 0 || !h.processed(t) {
		t.Fatal("skip with lines should only mark processed")
	}
}

func TestRunEmptySelectionChangesNothing(t *testing.T) {
	fetcher := &stubFetcher{search: foundOne(1), payload: srt("One")}
	h := newHarness(t, fetcher, testsupport.NewScriptedPrompter().QueueSelection())

	result, err := h.svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Outcome != curation.OutcomeUndecided {
		t.Fatalf("expected undecided outcome, got %s", result.Outcome)
	}
	if h.processed(t) || len(h.storedEntries(t)) != 0 {
		t.Fatal("empty selection must not change state")
	}
}

func TestRunNotFoundPaths(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *stubFetcher
	}{
		{"no results", &stubFetcher{}},
		{"no file", &stubFetcher{search: opensubtitles.SearchResponse{Subtitles: []opensubtitles.Subtitle{{ID: "1"}}}}},
		{"empty payload", &stubFetcher{search: foundOne(1), payload: ""}},
		{"only ads", &stubFetcher{search: foundOne(1), payload: srt("Subtitles by someone", "www.example.com")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.fetcher, testsupport.NewScriptedPrompter())
			_, err := h.svc.Run(context.Background())
			if !errors.Is(err, services.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if h.processed(t) {
				t.Fatal("candidate must stay unprocessed")
			}
		})
	}
}

func TestRunExternalFailures(t *testing.T) {
	boom := errors.New("503 Service Unavailable")
	for name, fetcher := range map[string]*stubFetcher{
		"search":   {searchErr: boom},
		"download": {search: foundOne(1), downloadErr: boom},
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, fetcher, testsupport.NewScriptedPrompter())
			_, err := h.svc.Run(context.Background())
			if !errors.Is(err, services.ErrExternal) || !errors.Is(err, boom) {
				t.Fatalf("expected wrapped external error, got %v", err)
			}
		})
	}
}

func TestRunMalformedSubtitle(t *testing.T) {
	fetcher := &stubFetcher{search: foundOne(1), payload: "1\n00:00:zz,000 --> 00:00:01,000\nBroken\n"}
	h := newHarness(t, fetcher, testsupport.NewScriptedPrompter())
	if _, err := h.svc.Run(context.Background()); !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestRunPromptInterrupted(t *testing.T) {
	fetcher := &stubFetcher{search: foundOne(1), payload: srt("One")}
	h := newHarness(t, fetcher, testsupport.NewScriptedPrompter().FailWith(prompt.ErrInterrupted))
	if _, err := h.svc.Run(context.Background()); !errors.Is(err, prompt.ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
	if h.processed(t) {
		t.Fatal("interrupted curation must not change state")
	}
}

func TestRunRejectsOutOfRangeSelection(t *testing.T) {
	fetcher := &stubFetcher{search: foundOne(1), payload: srt("One")}
	h := newHarness(t, fetcher, testsupport.NewScriptedPrompter().QueueSelection(7))
	if _, err := h.svc.Run(context.Background()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRunNoCandidates(t *testing.T) {
	fetcher := &stubFetcher{search: foundOne(1), payload: srt("One")}
	h := newHarness(t, fetcher, testsupport.NewScriptedPrompter().QueueSelection(1))
	if _, err := h.svc.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if _, err := h.svc.Run(context.Background()); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound once backlog is empty, got %v", err)
	}
	if len(fetcher.requests) != 1 {
		t.Fatalf("no subtitle search expected without a candidate, got %d", len(fetcher.requests))
	}
}

type orderCheckingSink struct {
	moviesAt string
	t        *testing.T
	appended int
}

func (s *orderCheckingSink) Append(_ context.Context, _ entries.Entry) error {
	stored := testsupport.ReadJSON[[]candidates.Candidate](s.t, s.moviesAt)
	if stored[0].Processed {
		s.t.Error("candidate was marked processed before the entry was appended")
	}
	s.appended++
	return nil
}

func TestRunAppendsBeforeMarkingProcessed(t *testing.T) {
	fetcher := &stubFetcher{search: foundOne(1), payload: srt("One")}
	h := newHarness(t, fetcher, testsupport.NewScriptedPrompter().QueueSelection(0))
	sink := &orderCheckingSink{moviesAt: h.moviesAt, t: t}
	cfg := testsupport.NewConfig(t)
	svc := curation.NewService(curation.SettingsFromConfig(cfg), h.repo, sink, fetcher, h.prompter, nil)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sink.appended != 1 || !h.processed(t) {
		t.Fatalf("expected one append followed by mark processed")
	}
}

type failingSink struct{}

func (failingSink) Append(context.Context, entries.Entry) error {
	return services.Wrap(services.ErrIO, "entries", "append", "disk full", nil)
}

func TestRunAppendFailureLeavesCandidateUnprocessed(t *testing.T) {
	fetcher := &stubFetcher{search: foundOne(1), payload: srt("One")}
	h := newHarness(t, fetcher, testsupport.NewScriptedPrompter().QueueSelection(0))
	svc := curation.NewService(curation.SettingsFromConfig(testsupport.NewConfig(t)), h.repo, failingSink{}, fetcher, h.prompter, nil)

	if _, err := svc.Run(context.Background()); !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if h.processed(t) {
		t.Fatal("candidate must stay unprocessed when the entry was not recorded")
	}
}
