package analytics

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/roadmaphub-backend/internal/data/repos/testutil"
	"github.com/yungbote/roadmaphub-backend/internal/domain"
)

func TestUpsertReplacesExisting(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRoadmapStatisticsRepo(db, testutil.Logger(t))

	rm := testutil.SeedRoadmap(t, ctx, tx, "stats-upsert", "go")

	if err := repo.Upsert(ctx, tx, &domain.RoadmapStatistics{
		RoadmapID:       rm.ID,
		CompletionCount: 10,
		BookmarkCount:   5,
		UsefulnessScore: 3.0,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := repo.Upsert(ctx, tx, &domain.RoadmapStatistics{
		RoadmapID:       rm.ID,
		CompletionCount: 20,
		BookmarkCount:   8,
		UsefulnessScore: 4.5,
	}); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	rows, err := repo.GetByRoadmapIDs(ctx, tx, []uuid.UUID{rm.ID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want exactly one per roadmap", len(rows))
	}
	if rows[0].CompletionCount != 20 || rows[0].BookmarkCount != 8 || rows[0].UsefulnessScore != 4.5 {
		t.Fatalf("row = %+v, want the second write", rows[0])
	}
}

func TestGetByRoadmapIDsEmpty(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRoadmapStatisticsRepo(db, testutil.Logger(t))

	rows, err := repo.GetByRoadmapIDs(ctx, tx, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}
