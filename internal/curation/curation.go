package curation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"openingline/internal/candidates"
	"openingline/internal/config"
	"openingline/internal/entries"
	"openingline/internal/logging"
	"openingline/internal/prompt"
	"openingline/internal/services"
	"openingline/internal/subtitles"
	"openingline/internal/subtitles/opensubtitles"
	"openingline/internal/textutil"
)

// Outcome classifies how a curation attempt ended.
type Outcome string

const (
	// OutcomeKept means an entry was recorded and the candidate marked processed.
	OutcomeKept Outcome = "kept"
	// OutcomeSkipped means the operator chose the skip option.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeUndecided means nothing was selected and no state changed.
	OutcomeUndecided Outcome = "undecided"
)

// Result describes one curation attempt.
type Result struct {
	Outcome   Outcome              `json:"outcome"`
	Candidate candidates.Candidate `json:"candidate"`
	Entry     *entries.Entry       `json:"entry,omitempty"`
	Offered   int                  `json:"offered"`
}

// Repository is the candidate store used during curation.
type Repository interface {
	PickUnprocessed() (candidates.Candidate, error)
	MarkProcessed(ctx context.Context, candidate candidates.Candidate) error
}

// Sink records curated entries.
type Sink interface {
	Append(ctx context.Context, entry entries.Entry) error
}

// Settings tunes the subtitle query and the choices offered.
type Settings struct {
	Languages           []string
	TrustedSourcesOnly  bool
	ExcludeForeignParts bool
	ChoiceCount         int
	SkipLabel           string
	DropAdvertisements  bool
	WebURL              string
}

// SettingsFromConfig derives curation settings from application config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Languages:           slices.Clone(cfg.OpenSubtitles.Languages),
		TrustedSourcesOnly:  cfg.OpenSubtitles.TrustedSourcesOnly,
		ExcludeForeignParts: cfg.OpenSubtitles.ExcludeForeignParts,
		ChoiceCount:         cfg.Curation.ChoiceCount,
		SkipLabel:           cfg.Curation.SkipLabel,
		DropAdvertisements:  cfg.Curation.DropAdvertisements,
		WebURL:              cfg.TMDB.WebURL,
	}
}

// Service runs one curation attempt per call to Run.
type Service struct {
	settings Settings
	repo     Repository
	sink     Sink
	subs     opensubtitles.Fetcher
	prompter prompt.Prompter
	logger   *slog.Logger
}

// NewService wires a curation service.
func NewService(settings Settings, repo Repository, sink Sink, subs opensubtitles.Fetcher, prompter prompt.Prompter, logger *slog.Logger) *Service {
	if strings.TrimSpace(settings.SkipLabel) == "" {
		settings.SkipLabel = "(Skip movie)"
	}
	return &Service{
		settings: settings,
		repo:     repo,
		sink:     sink,
		subs:     subs,
		prompter: prompter,
		logger:   logging.NewComponentLogger(logger, "curation"),
	}
}

// Run picks an unprocessed candidate, offers its opening subtitle lines, and
// records the operator's decision. The entry is appended before the candidate
// is marked processed.
func (s *Service) Run(ctx context.Context) (Result, error) {
	candidate, err := s.repo.PickUnprocessed()
	if err != nil {
		return Result{}, err
	}
	ctx = services.WithStage(ctx, "curate")
	ctx = services.WithCandidateID(ctx, candidate.ID)
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("curating candidate", logging.String("name", candidate.Name), logging.Int("year", candidate.Year))

	result := Result{Candidate: candidate}
	lines, err := s.OpeningLines(ctx, candidate)
	if err != nil {
		return result, err
	}
	result.Offered = len(lines)

	options := append(slices.Clone(lines), s.settings.SkipLabel)
	picked, err := s.prompter.MultiSelect(fmt.Sprintf("Opening line for %s:", candidate), options)
	if err != nil {
		return result, fmt.Errorf("select lines: %w", err)
	}
	selected, skip, err := classify(picked, len(lines))
	if err != nil {
		return result, err
	}

	switch {
	case skip:
		if len(selected) > 0 {
			logger.Warn("skip chosen together with lines; lines ignored", logging.Int("lines", len(selected)))
		}
		if err := s.repo.MarkProcessed(ctx, candidate); err != nil {
			return result, err
		}
		result.Outcome = OutcomeSkipped
	case len(selected) == 0:
		logger.Warn("no lines selected; candidate left unprocessed", logging.Alert("undecided"))
		result.Outcome = OutcomeUndecided
	default:
		chosen := make([]string, 0, len(selected))
		for _, idx := range selected {
			chosen = append(chosen, lines[idx])
		}
		entry := entries.Entry{
			Movie:       candidate.Name,
			Year:        candidate.Year,
			OpeningLine: textutil.JoinLines(chosen),
			URL:         s.movieURL(candidate.ID),
		}
		if err := s.sink.Append(ctx, entry); err != nil {
			return result, err
		}
		if err := s.repo.MarkProcessed(ctx, candidate); err != nil {
			return result, err
		}
		result.Outcome = OutcomeKept
		result.Entry = &entry
	}
	logger.Info("curation finished", logging.String("outcome", string(result.Outcome)))
	return result, nil
}

// OpeningLines downloads the most popular matching subtitle for candidate and
// returns its first display lines.
func (s *Service) OpeningLines(ctx context.Context, candidate candidates.Candidate) ([]string, error) {
	logger := logging.WithContext(ctx, s.logger)
	search, err := s.subs.Search(ctx, opensubtitles.SearchRequest{
		TMDBID:              candidate.ID,
		Languages:           s.settings.Languages,
		TrustedSourcesOnly:  s.settings.TrustedSourcesOnly,
		ExcludeForeignParts: s.settings.ExcludeForeignParts,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, "curation", "search subtitles", candidate.String(), err)
	}
	if len(search.Subtitles) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "curation", "search subtitles", "no subtitles for "+candidate.String(), nil)
	}
	best := search.Subtitles[0]
	fileID := best.PrimaryFileID()
	if fileID == 0 {
		return nil, services.Wrap(services.ErrNotFound, "curation", "search subtitles", "top subtitle has no file for "+candidate.String(), nil)
	}
	logger.Debug("subtitle selected",
		logging.String("subtitle_id", best.ID),
		logging.Int64("file_id", fileID),
		logging.Int("downloads", best.Downloads),
		logging.String("release", best.Release),
	)

	download, err := s.subs.Download(ctx, fileID)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, "curation", "download subtitles", "file "+strconv.FormatInt(fileID, 10), err)
	}
	cues, err := subtitles.ParseSRT(download.Data)
	if err != nil {
		return nil, services.Wrap(services.ErrFormat, "curation", "parse subtitles", download.FileName, err)
	}
	if s.settings.DropAdvertisements {
		var removed int
		cues, removed = subtitles.DropAdvertisements(cues)
		if removed > 0 {
			logger.Debug("advertisement cues removed", logging.Int("removed", removed))
		}
	}
	lines := subtitles.Lines(cues, s.settings.ChoiceCount)
	if len(lines) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "curation", "parse subtitles", "no dialogue in "+download.FileName, nil)
	}
	return lines, nil
}

func (s *Service) movieURL(id int64) string {
	return strings.TrimRight(s.settings.WebURL, "/") + "/movie/" + strconv.FormatInt(id, 10)
}

// classify splits the picked option indices into selected line indices (in
// ascending order) and whether the trailing skip option was chosen.
func classify(picked []int, lineCount int) ([]int, bool, error) {
	selected := make([]int, 0, len(picked))
	skip := false
	for _, idx := range picked {
		switch {
		case idx == lineCount:
			skip = true
		case idx >= 0 && idx < lineCount:
			selected = append(selected, idx)
		default:
			return nil, false, services.Wrap(services.ErrValidation, "curation", "select lines",
				fmt.Sprintf("option %d out of range", idx), errors.New("invalid selection"))
		}
	}
	slices.Sort(selected)
	return slices.Compact(selected), skip, nil
}
