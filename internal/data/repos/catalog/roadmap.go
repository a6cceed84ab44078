package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
)

type RoadmapRepo interface {
	Create(ctx context.Context, tx *gorm.DB, roadmaps []*domain.Roadmap) ([]*domain.Roadmap, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, roadmapIDs []uuid.UUID) ([]*domain.Roadmap, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*domain.Roadmap, error)
	Exists(ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID) (bool, error)
	// ListByTagSubstring returns roadmaps whose tag string contains topic,
	// case-sensitive, ordered by creation time. An empty topic matches all.
	ListByTagSubstring(ctx context.Context, tx *gorm.DB, topic string) ([]*domain.Roadmap, error)
}

type roadmapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoadmapRepo(db *gorm.DB, baseLog *logger.Logger) RoadmapRepo {
	repoLog := baseLog.With("repo", "RoadmapRepo")
	return &roadmapRepo{db: db, log: repoLog}
}

func (rr *roadmapRepo) Create(ctx context.Context, tx *gorm.DB, roadmaps []*domain.Roadmap) ([]*domain.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(roadmaps) == 0 {
		return []*domain.Roadmap{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&roadmaps).Error; err != nil {
		return nil, err
	}
	return roadmaps, nil
}

func (rr *roadmapRepo) GetByIDs(ctx context.Context, tx *gorm.DB, roadmapIDs []uuid.UUID) ([]*domain.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*domain.Roadmap
	if len(roadmapIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", roadmapIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *roadmapRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*domain.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*domain.Roadmap
	if err := transaction.WithContext(ctx).
		Where("slug = ?", slug).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (rr *roadmapRepo) Exists(ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if roadmapID == uuid.Nil {
		return false, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Roadmap{}).
		Where("id = ?", roadmapID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (rr *roadmapRepo) ListByTagSubstring(ctx context.Context, tx *gorm.DB, topic string) ([]*domain.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	q := transaction.WithContext(ctx).Model(&domain.Roadmap{})
	if topic != "" {
		// LIKE is case-sensitive in Postgres, which is the contract here.
		q = q.Where("tags LIKE ?", "%"+topic+"%")
	}

	var results []*domain.Roadmap
	if err := q.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
