package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"openingline/internal/candidates"
	"openingline/internal/config"
	"openingline/internal/discovery/tmdb"
	"openingline/internal/logging"
	"openingline/internal/prompt"
	"openingline/internal/services"
)

// MinYear is the earliest release year accepted for discovery.
const MinYear = 1900

// Ingester persists discovered candidates.
type Ingester interface {
	Ingest(ctx context.Context, incoming []candidates.Candidate) (int, error)
}

// Summary describes one discovery run.
type Summary struct {
	Year    int `json:"year"`
	Pages   int `json:"pages"`
	Fetched int `json:"fetched"`
	Added   int `json:"added"`
}

// Service discovers movies for a release year and ingests them as candidates.
type Service struct {
	client   tmdb.Discoverer
	repo     Ingester
	prompter prompt.Prompter
	filters  tmdb.DiscoverOptions
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to bound the year range.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPrompter sets the prompter used when no year is supplied.
func WithPrompter(p prompt.Prompter) Option {
	return func(s *Service) {
		s.prompter = p
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires a discovery service using the TMDB query filters from cfg.
func NewService(cfg config.TMDB, client tmdb.Discoverer, repo Ingester, opts ...Option) *Service {
	s := &Service{
		client: client,
		repo:   repo,
		filters: tmdb.DiscoverOptions{
			OriginalLanguage: cfg.OriginalLanguage,
			MinVoteCount:     cfg.MinVoteCount,
			SortBy:           cfg.SortBy,
		},
		now:    time.Now,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "discovery")
	return s
}

// ValidateYear reports whether year falls within MinYear and the current year.
func (s *Service) ValidateYear(year int) error {
	latest := s.now().Year()
	if year < MinYear || year > latest {
		return services.Wrap(services.ErrValidation, "discovery", "year",
			fmt.Sprintf("year must be between %d and %d, got %d", MinYear, latest, year), nil)
	}
	return nil
}

// AskYear prompts until the operator enters a valid release year.
func (s *Service) AskYear(ctx context.Context) (int, error) {
	if s.prompter == nil {
		return 0, services.Wrap(services.ErrConfiguration, "discovery", "ask year", "no prompter configured", nil)
	}
	message := fmt.Sprintf("Release year to discover (%d-%d):", MinYear, s.now().Year())
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		answer, err := s.prompter.Input(message)
		if err != nil {
			return 0, fmt.Errorf("ask year: %w", err)
		}
		year, convErr := strconv.Atoi(strings.TrimSpace(answer))
		if convErr != nil {
			s.logger.Warn("release year is not a number", logging.String("answer", answer))
			continue
		}
		if err := s.ValidateYear(year); err != nil {
			s.logger.Warn("release year out of range", logging.Int("year", year))
			continue
		}
		return year, nil
	}
}

// Run queries every discover page for year and ingests the results once. A
// failure on any page aborts the run before anything is persisted.
func (s *Service) Run(ctx context.Context, year int) (Summary, error) {
	if err := s.ValidateYear(year); err != nil {
		return Summary{}, err
	}
	ctx = services.WithStage(ctx, "discover")
	logger := logging.WithContext(ctx, s.logger).With(logging.Int("year", year))

	summary := Summary{Year: year}
	first, err := s.fetch(ctx, year, 1)
	if err != nil {
		return summary, err
	}
	lastPage := min(max(first.TotalPages, 1), tmdb.MaxPage)
	if first.TotalPages > tmdb.MaxPage {
		logger.Warn("discover results truncated at page limit",
			logging.Int("total_pages", first.TotalPages),
			logging.Int("limit", tmdb.MaxPage),
		)
	}
	logger.Info("discover query started",
		logging.Int("total_pages", first.TotalPages),
		logging.Int("total_results", first.TotalResults),
	)

	results := append([]tmdb.Movie(nil), first.Results...)
	summary.Pages = 1
	for page := 2; page <= lastPage; page++ {
		resp, err := s.fetch(ctx, year, page)
		if err != nil {
			return summary, err
		}
		results = append(results, resp.Results...)
		summary.Pages++
		logger.Debug("discover page fetched", logging.Int("page", page), logging.Int("results", len(resp.Results)))
	}
	summary.Fetched = len(results)

	found, err := toCandidates(results, year)
	if err != nil {
		return summary, err
	}
	added, err := s.repo.Ingest(ctx, found)
	if err != nil {
		return summary, err
	}
	summary.Added = added
	logger.Info("discovery complete",
		logging.Int("pages", summary.Pages),
		logging.Int("fetched", summary.Fetched),
		logging.Int("added", summary.Added),
	)
	return summary, nil
}

func (s *Service) fetch(ctx context.Context, year, page int) (*tmdb.Response, error) {
	opts := s.filters
	opts.Year = year
	opts.Page = page
	resp, err := s.client.Discover(ctx, opts)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, "discovery", "fetch page",
			fmt.Sprintf("year %d page %d", year, page), err)
	}
	if resp == nil {
		return nil, services.Wrap(services.ErrFormat, "discovery", "fetch page",
			fmt.Sprintf("year %d page %d returned no payload", year, page), nil)
	}
	return resp, nil
}

func toCandidates(results []tmdb.Movie, year int) ([]candidates.Candidate, error) {
	out := make([]candidates.Candidate, 0, len(results))
	for i, movie := range results {
		title := strings.TrimSpace(movie.Title)
		if movie.ID <= 0 || title == "" {
			return nil, services.Wrap(services.ErrFormat, "discovery", "map results",
				fmt.Sprintf("result %d has id %d and title %q", i, movie.ID, movie.Title), nil)
		}
		out = append(out, candidates.Candidate{
			ID:   movie.ID,
			Name: title,
			Year: year,
		})
	}
	return out, nil
}
