package analytics

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
)

type RoadmapStatisticsRepo interface {
	// Upsert writes the aggregate row for a roadmap, replacing the
	// previous one if present (unique roadmap_id).
	Upsert(ctx context.Context, tx *gorm.DB, row *domain.RoadmapStatistics) error
	GetByRoadmapIDs(ctx context.Context, tx *gorm.DB, roadmapIDs []uuid.UUID) ([]*domain.RoadmapStatistics, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.RoadmapStatistics, error)
}

type roadmapStatisticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoadmapStatisticsRepo(db *gorm.DB, baseLog *logger.Logger) RoadmapStatisticsRepo {
	repoLog := baseLog.With("repo", "RoadmapStatisticsRepo")
	return &roadmapStatisticsRepo{db: db, log: repoLog}
}

func (sr *roadmapStatisticsRepo) Upsert(ctx context.Context, tx *gorm.DB, row *domain.RoadmapStatistics) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "roadmap_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"completion_count",
				"dropout_count",
				"avg_hours_spent",
				"avg_nodes_completed",
				"bookmark_count",
				"usefulness_score",
				"updated_at",
			}),
		}).
		Create(row).Error; err != nil {
		return err
	}
	return nil
}

func (sr *roadmapStatisticsRepo) GetByRoadmapIDs(ctx context.Context, tx *gorm.DB, roadmapIDs []uuid.UUID) ([]*domain.RoadmapStatistics, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*domain.RoadmapStatistics
	if len(roadmapIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("roadmap_id IN ?", roadmapIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *roadmapStatisticsRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.RoadmapStatistics, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*domain.RoadmapStatistics
	if err := transaction.WithContext(ctx).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
