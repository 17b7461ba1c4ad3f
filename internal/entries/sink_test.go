package entries_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"openingline/internal/entries"
	"openingline/internal/services"
)

func newSink(t *testing.T) (*entries.Sink, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entries.json")
	sink, err := entries.NewSink(path, nil)
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}
	return sink, path
}

func TestAppendPreservesOrder(t *testing.T) {
	sink, _ := newSink(t)
	ctx := context.Background()
	e1 := entries.Entry{Movie: "Heat", Year: 1995, OpeningLine: "First line.", URL: "https://www.themoviedb.org/movie/949"}
	e2 := entries.Entry{Movie: "Fargo", Year: 1996, OpeningLine: "Second line.", URL: "https://www.themoviedb.org/movie/275"}

	if err := sink.Append(ctx, e1); err != nil {
		t.Fatalf("Append e1: %v", err)
	}
	if err := sink.Append(ctx, e2); err != nil {
		t.Fatalf("Append e2: %v", err)
	}
	got, err := sink.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0] != e1 || got[1] != e2 {
		t.Fatalf("unexpected entries: %#v", got)
	}
}

func TestAppendAllowsDuplicates(t *testing.T) {
	sink, _ := newSink(t)
	ctx := context.Background()
	e := entries.Entry{Movie: "Heat", Year: 1995, OpeningLine: "Same."}
	for range 2 {
		if err := sink.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	got, _ := sink.List(ctx)
	if len(got) != 2 {
		t.Fatalf("expected duplicate entries to be kept, got %d", len(got))
	}
}

func TestAppendRejectsEmptyLine(t *testing.T) {
	sink, path := newSink(t)
	err := sink.Append(context.Background(), entries.Entry{Movie: "Heat", Year: 1995, OpeningLine: "  "})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("rejected append should not create the file, stat err=%v", statErr)
	}
}

func TestListMissingFileIsEmpty(t *testing.T) {
	sink, path := newSink(t)
	got, err := sink.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected empty file to be created: %v", err)
	}
}

func TestListMalformedFile(t *testing.T) {
	sink, path := newSink(t)
	if err := os.WriteFile(path, []byte(`{"movie":"x"}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := sink.List(context.Background()); !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}
