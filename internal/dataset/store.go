package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"openingline/internal/fileutil"
	"openingline/internal/logging"
	"openingline/internal/services"
)

const (
	defaultLockTimeout = 10 * time.Second
	lockRetryDelay     = 50 * time.Millisecond
	filePerm           = 0o644
)

// Store persists an ordered collection of records of one type as a single
// pretty-printed JSON array file.
type Store[T any] struct {
	path        string
	lockPath    string
	validate    func(T) error
	lockTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithValidator runs fn against every record read from disk. A failing record
// turns the whole load into a format error.
func WithValidator[T any](fn func(T) error) Option[T] {
	return func(s *Store[T]) {
		s.validate = fn
	}
}

// WithLogger attaches a logger for persistence events.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(s *Store[T]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLockTimeout bounds how long a mutation waits for the file lock.
func WithLockTimeout[T any](timeout time.Duration) Option[T] {
	return func(s *Store[T]) {
		if timeout > 0 {
			s.lockTimeout = timeout
		}
	}
}

// New returns a store backed by the file at path. The file is not touched until
// the first Load, Save, or Update.
func New[T any](path string, opts ...Option[T]) (*Store[T], error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("dataset: path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: resolve path: %w", err)
	}
	s := &Store[T]{
		path:        abs,
		lockPath:    abs + ".lock",
		lockTimeout: defaultLockTimeout,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "dataset").With(logging.String("path", abs))
	return s, nil
}

// Path returns the absolute path of the backing file.
func (s *Store[T]) Path() string {
	return s.path
}

// Load returns every record in the file. A missing file yields an empty
// collection and is created as "[]" so later reads never fail.
func (s *Store[T]) Load(ctx context.Context) ([]T, error) {
	var records []T
	err := s.withLock(ctx, "load", func() error {
		var err error
		records, err = s.read()
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Save overwrites the file with records.
func (s *Store[T]) Save(ctx context.Context, records []T) error {
	return s.withLock(ctx, "save", func() error {
		return s.write(records)
	})
}

// Update runs a read-modify-write cycle under the file lock. fn receives the
// current records and returns the collection to persist; when fn fails nothing
// is written. The persisted collection is returned.
func (s *Store[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) ([]T, error) {
	if fn == nil {
		return nil, errors.New("dataset: update function is required")
	}
	var result []T
	err := s.withLock(ctx, "update", func() error {
		current, err := s.read()
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if err := s.write(next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store[T]) withLock(ctx context.Context, operation string, fn func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return services.Wrap(services.ErrIO, "dataset", operation, "create data directory", err)
	}
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	lock := flock.New(s.lockPath)
	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return services.Wrap(services.ErrIO, "dataset", operation, "acquire lock "+s.lockPath, err)
	}
	if !locked {
		return services.Wrap(services.ErrIO, "dataset", operation, "lock held by another process: "+s.lockPath, nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("release dataset lock failed", logging.Error(err))
		}
	}()
	return fn()
}

func (s *Store[T]) read() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := s.write(nil); err != nil {
				return nil, err
			}
			s.logger.Debug("created empty dataset file")
			return []T{}, nil
		}
		return nil, services.Wrap(services.ErrIO, "dataset", "load", "read "+s.path, err)
	}
	return s.decode(data)
}

func (s *Store[T]) decode(data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, services.Wrap(services.ErrFormat, "dataset", "load", s.path+" does not contain a JSON array", nil)
	}
	records := []T{}
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, services.Wrap(services.ErrFormat, "dataset", "load", "decode "+s.path, err)
	}
	if s.validate != nil {
		for i, record := range records {
			if err := s.validate(record); err != nil {
				return nil, services.Wrap(services.ErrFormat, "dataset", "load", fmt.Sprintf("%s record %d", s.path, i), err)
			}
		}
	}
	return records, nil
}

func (s *Store[T]) write(records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrFormat, "dataset", "save", "encode records", err)
	}
	payload = append(payload, '\n')
	if err := fileutil.WriteFileAtomic(s.path, payload, filePerm); err != nil {
		return services.Wrap(services.ErrIO, "dataset", "save", "write "+s.path, err)
	}
	s.logger.Debug("dataset saved", logging.Int("records", len(records)))
	return nil
}
