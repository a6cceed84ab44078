package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
	pkgerrors "github.com/yungbote/roadmaphub-backend/internal/pkg/errors"
)

func writeSeedFile(tb testing.TB, content string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "stats.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		tb.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestSeedFromFile(t *testing.T) {
	e := newEnv(t)
	rm := e.roadmaps.add(&domain.Roadmap{Slug: "go-basics", Name: "Go Basics"})

	path := writeSeedFile(t, `
roadmaps:
  - slug: go-basics
    completion_count: 100
    dropout_count: 50
    avg_hours_spent: 10
    avg_nodes_completed: 5
    bookmark_count: 80
    usefulness_score: 4.0
  - slug: unknown-roadmap
    completion_count: 1
`)

	seeder := NewStatsSeeder(nil, testLogger(t), e.roadmaps, e.stats)
	seeded, err := seeder.SeedFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	// The unknown slug is skipped, not fatal.
	if seeded != 1 {
		t.Fatalf("seeded = %d, want 1", seeded)
	}

	st, ok := e.stats.rows[rm.ID]
	if !ok {
		t.Fatal("statistics row missing after seed")
	}
	if st.CompletionCount != 100 || st.DropoutCount != 50 || st.BookmarkCount != 80 || st.UsefulnessScore != 4.0 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestSeedFromFileInvalidUsefulness(t *testing.T) {
	e := newEnv(t)
	e.roadmaps.add(&domain.Roadmap{Slug: "go-basics", Name: "Go Basics"})

	path := writeSeedFile(t, `
roadmaps:
  - slug: go-basics
    usefulness_score: 7.5
`)

	seeder := NewStatsSeeder(nil, testLogger(t), e.roadmaps, e.stats)
	_, err := seeder.SeedFromFile(context.Background(), path)
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestSeedFromFileMissingSlug(t *testing.T) {
	e := newEnv(t)
	path := writeSeedFile(t, `
roadmaps:
  - completion_count: 3
`)

	seeder := NewStatsSeeder(nil, testLogger(t), e.roadmaps, e.stats)
	_, err := seeder.SeedFromFile(context.Background(), path)
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestSeedFromFileMissingFile(t *testing.T) {
	e := newEnv(t)
	seeder := NewStatsSeeder(nil, testLogger(t), e.roadmaps, e.stats)
	if _, err := seeder.SeedFromFile(context.Background(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
