package candidates

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"

	"openingline/internal/dataset"
	"openingline/internal/logging"
	"openingline/internal/services"
)

// Repository owns the candidate collection for one run. The collection is read
// once by Open; mutations re-read the file under lock, apply the change, and
// persist before the in-memory copy is replaced.
type Repository struct {
	store  *dataset.Store[Candidate]
	items  []Candidate
	intn   func(int) int
	logger *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithRand overrides the random index source used by PickUnprocessed. fn must
// return a value in [0, n).
func WithRand(fn func(n int) int) Option {
	return func(r *Repository) {
		if fn != nil {
			r.intn = fn
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Open loads the candidate collection stored at path, creating an empty file
// when none exists.
func Open(ctx context.Context, path string, opts ...Option) (*Repository, error) {
	r := &Repository{
		intn:   rand.IntN,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "candidates")

	store, err := dataset.New(path,
		dataset.WithValidator(Candidate.Validate),
		dataset.WithLogger[Candidate](r.logger),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "candidates", "open", "dataset path", err)
	}
	items, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	r.store = store
	r.items = items
	r.logger.Debug("candidates loaded", logging.Int("count", len(items)), logging.String("path", store.Path()))
	return r, nil
}

// Path returns the backing file path.
func (r *Repository) Path() string {
	return r.store.Path()
}

// Ingest appends candidates whose id is not already stored and returns how
// many were added. Existing records are never modified, repeats within the
// batch keep the first occurrence, and every added record starts unprocessed.
func (r *Repository) Ingest(ctx context.Context, incoming []Candidate) (int, error) {
	added := 0
	next, err := r.store.Update(ctx, func(current []Candidate) ([]Candidate, error) {
		added = 0
		seen := make(map[int64]struct{}, len(current)+len(incoming))
		for _, c := range current {
			seen[c.ID] = struct{}{}
		}
		for _, c := range incoming {
			if err := c.Validate(); err != nil {
				return nil, services.Wrap(services.ErrValidation, "candidates", "ingest", "", err)
			}
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			c.Processed = false
			current = append(current, c)
			added++
		}
		return current, nil
	})
	if err != nil {
		return 0, err
	}
	r.items = next
	r.logger.Info("candidates ingested",
		logging.Int("offered", len(incoming)),
		logging.Int("added", added),
		logging.Int("total", len(next)),
	)
	return added, nil
}

// PickUnprocessed returns a uniformly random candidate that has not been
// processed yet. It returns services.ErrNotFound when none remain.
func (r *Repository) PickUnprocessed() (Candidate, error) {
	pending := make([]Candidate, 0, len(r.items))
	for _, c := range r.items {
		if !c.Processed {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		return Candidate{}, services.Wrap(services.ErrNotFound, "candidates", "pick", "", errNoUnprocessed)
	}
	return pending[r.intn(len(pending))], nil
}

// MarkProcessed flags the stored record with the candidate's id as processed
// and persists the collection.
func (r *Repository) MarkProcessed(ctx context.Context, candidate Candidate) error {
	next, err := r.store.Update(ctx, func(current []Candidate) ([]Candidate, error) {
		idx := slices.IndexFunc(current, func(c Candidate) bool { return c.ID == candidate.ID })
		if idx < 0 {
			return nil, services.Wrap(services.ErrNotFound, "candidates", "mark processed",
				"unknown candidate id "+strconv.FormatInt(candidate.ID, 10), nil)
		}
		current[idx].Processed = true
		return current, nil
	})
	if err != nil {
		return err
	}
	r.items = next
	logging.WithContext(ctx, r.logger).Info("candidate marked processed",
		logging.Int64(logging.FieldCandidateID, candidate.ID),
		logging.String("name", candidate.Name),
	)
	return nil
}

// All returns a copy of the loaded collection in stored order.
func (r *Repository) All() []Candidate {
	return slices.Clone(r.items)
}
