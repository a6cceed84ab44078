package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *domain.User {
	tb.Helper()
	u := &domain.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: "Test User",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedRoadmap(tb testing.TB, ctx context.Context, tx *gorm.DB, slug, tags string) *domain.Roadmap {
	tb.Helper()
	r := &domain.Roadmap{
		ID:   uuid.New(),
		Slug: slug,
		Name: slug,
		Tags: tags,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed roadmap: %v", err)
	}
	return r
}

func SeedNode(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *domain.Node {
	tb.Helper()
	n := &domain.Node{
		ID:    uuid.New(),
		Title: title,
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed node: %v", err)
	}
	return n
}

func AttachNode(tb testing.TB, ctx context.Context, tx *gorm.DB, roadmapID, nodeID uuid.UUID, position int) *domain.RoadmapNode {
	tb.Helper()
	rn := &domain.RoadmapNode{
		ID:        uuid.New(),
		RoadmapID: roadmapID,
		NodeID:    nodeID,
		Position:  position,
	}
	if err := tx.WithContext(ctx).Create(rn).Error; err != nil {
		tb.Fatalf("attach node: %v", err)
	}
	return rn
}

func SeedStatistics(tb testing.TB, ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID, completion, dropout, bookmarks int, hours, nodes, usefulness float64) *domain.RoadmapStatistics {
	tb.Helper()
	st := &domain.RoadmapStatistics{
		ID:                uuid.New(),
		RoadmapID:         roadmapID,
		CompletionCount:   completion,
		DropoutCount:      dropout,
		AvgHoursSpent:     hours,
		AvgNodesCompleted: nodes,
		BookmarkCount:     bookmarks,
		UsefulnessScore:   usefulness,
	}
	if err := tx.WithContext(ctx).Create(st).Error; err != nil {
		tb.Fatalf("seed statistics: %v", err)
	}
	return st
}
