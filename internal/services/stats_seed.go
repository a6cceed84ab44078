package services

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/data/repos"
	"github.com/yungbote/roadmaphub-backend/internal/domain"
	pkgerrors "github.com/yungbote/roadmaphub-backend/internal/pkg/errors"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
)

// statsSeedFile is the on-disk shape of a statistics seed. Roadmaps are
// referenced by slug so the file survives database rebuilds.
type statsSeedFile struct {
	Roadmaps []statsSeedEntry `yaml:"roadmaps"`
}

type statsSeedEntry struct {
	Slug              string  `yaml:"slug"`
	CompletionCount   int     `yaml:"completion_count"`
	DropoutCount      int     `yaml:"dropout_count"`
	AvgHoursSpent     float64 `yaml:"avg_hours_spent"`
	AvgNodesCompleted float64 `yaml:"avg_nodes_completed"`
	BookmarkCount     int     `yaml:"bookmark_count"`
	UsefulnessScore   float64 `yaml:"usefulness_score"`
}

// StatsSeeder loads roadmap statistics from a YAML file and upserts
// them. Used at boot to backfill environments that have no analytics
// pipeline feeding the statistics table.
type StatsSeeder interface {
	SeedFromFile(ctx context.Context, path string) (int, error)
}

type statsSeeder struct {
	db          *gorm.DB
	log         *logger.Logger
	roadmapRepo repos.RoadmapRepo
	statsRepo   repos.RoadmapStatisticsRepo
}

func NewStatsSeeder(db *gorm.DB, log *logger.Logger, roadmapRepo repos.RoadmapRepo, statsRepo repos.RoadmapStatisticsRepo) StatsSeeder {
	return &statsSeeder{
		db:          db,
		log:         log.With("service", "StatsSeeder"),
		roadmapRepo: roadmapRepo,
		statsRepo:   statsRepo,
	}
}

// SeedFromFile returns the number of statistics rows upserted. Entries
// whose slug matches no roadmap are skipped with a warning; malformed
// entries abort the whole seed.
func (ss *statsSeeder) SeedFromFile(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var file statsSeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	seeded := 0
	for i, entry := range file.Roadmaps {
		if entry.Slug == "" {
			return seeded, fmt.Errorf("%w: seed entry %d has no slug", pkgerrors.ErrInvalidArgument, i)
		}
		if entry.UsefulnessScore < 0 || entry.UsefulnessScore > 5 {
			return seeded, fmt.Errorf("%w: seed entry %q usefulness_score %.2f outside [0,5]",
				pkgerrors.ErrInvalidArgument, entry.Slug, entry.UsefulnessScore)
		}

		rm, err := ss.roadmapRepo.GetBySlug(ctx, nil, entry.Slug)
		if err != nil {
			return seeded, fmt.Errorf("resolve slug %q: %w", entry.Slug, err)
		}
		if rm == nil {
			ss.log.Warn("seed entry references unknown roadmap, skipping", "slug", entry.Slug)
			continue
		}

		stats := &domain.RoadmapStatistics{
			RoadmapID:         rm.ID,
			CompletionCount:   entry.CompletionCount,
			DropoutCount:      entry.DropoutCount,
			AvgHoursSpent:     entry.AvgHoursSpent,
			AvgNodesCompleted: entry.AvgNodesCompleted,
			BookmarkCount:     entry.BookmarkCount,
			UsefulnessScore:   entry.UsefulnessScore,
		}
		if err := ss.statsRepo.Upsert(ctx, nil, stats); err != nil {
			return seeded, fmt.Errorf("upsert statistics for %q: %w", entry.Slug, err)
		}
		seeded++
	}

	ss.log.Info("statistics seed applied", "path", path, "seeded", seeded)
	return seeded, nil
}
