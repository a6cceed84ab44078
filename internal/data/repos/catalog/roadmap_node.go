package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
)

type RoadmapNodeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.RoadmapNode) ([]*domain.RoadmapNode, error)
	GetByRoadmapID(ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID) ([]*domain.RoadmapNode, error)
	// NodeIDsForRoadmap returns member node IDs ordered by position.
	NodeIDsForRoadmap(ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID) ([]uuid.UUID, error)
	RoadmapIDsForNode(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID) ([]uuid.UUID, error)
}

type roadmapNodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoadmapNodeRepo(db *gorm.DB, baseLog *logger.Logger) RoadmapNodeRepo {
	repoLog := baseLog.With("repo", "RoadmapNodeRepo")
	return &roadmapNodeRepo{db: db, log: repoLog}
}

func (rnr *roadmapNodeRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.RoadmapNode) ([]*domain.RoadmapNode, error) {
	transaction := tx
	if transaction == nil {
		transaction = rnr.db
	}

	if len(rows) == 0 {
		return []*domain.RoadmapNode{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (rnr *roadmapNodeRepo) GetByRoadmapID(ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID) ([]*domain.RoadmapNode, error) {
	transaction := tx
	if transaction == nil {
		transaction = rnr.db
	}

	var results []*domain.RoadmapNode
	if roadmapID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("roadmap_id = ?", roadmapID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rnr *roadmapNodeRepo) NodeIDsForRoadmap(ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = rnr.db
	}

	var ids []uuid.UUID
	if roadmapID == uuid.Nil {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.RoadmapNode{}).
		Where("roadmap_id = ?", roadmapID).
		Order("position ASC").
		Pluck("node_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (rnr *roadmapNodeRepo) RoadmapIDsForNode(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = rnr.db
	}

	var ids []uuid.UUID
	if nodeID == uuid.Nil {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.RoadmapNode{}).
		Where("node_id = ?", nodeID).
		Pluck("roadmap_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
