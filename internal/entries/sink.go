package entries

import (
	"context"
	"log/slog"

	"openingline/internal/dataset"
	"openingline/internal/logging"
	"openingline/internal/services"
)

// Sink is the append-only curated entry collection.
type Sink struct {
	store  *dataset.Store[Entry]
	logger *slog.Logger
}

// NewSink returns a sink writing to path. The file is created on first use.
func NewSink(path string, logger *slog.Logger) (*Sink, error) {
	logger = logging.NewComponentLogger(logger, "entries")
	store, err := dataset.New(path,
		dataset.WithValidator(Entry.Validate),
		dataset.WithLogger[Entry](logger),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "entries", "open", "dataset path", err)
	}
	return &Sink{store: store, logger: logger}, nil
}

// Path returns the backing file path.
func (s *Sink) Path() string {
	return s.store.Path()
}

// Append adds entry to the end of the collection. Duplicates are allowed.
func (s *Sink) Append(ctx context.Context, entry Entry) error {
	if err := entry.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "entries", "append", "", err)
	}
	next, err := s.store.Update(ctx, func(current []Entry) ([]Entry, error) {
		return append(current, entry), nil
	})
	if err != nil {
		return err
	}
	logging.WithContext(ctx, s.logger).Info("entry appended",
		logging.String("movie", entry.Movie),
		logging.Int("year", entry.Year),
		logging.Int("total", len(next)),
	)
	return nil
}

// List returns every stored entry in insertion order.
func (s *Sink) List(ctx context.Context) ([]Entry, error) {
	return s.store.Load(ctx)
}
