package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
)

type NodeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, nodes []*domain.Node) ([]*domain.Node, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, nodeIDs []uuid.UUID) ([]*domain.Node, error)
	Exists(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID) (bool, error)
}

type nodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNodeRepo(db *gorm.DB, baseLog *logger.Logger) NodeRepo {
	repoLog := baseLog.With("repo", "NodeRepo")
	return &nodeRepo{db: db, log: repoLog}
}

func (nr *nodeRepo) Create(ctx context.Context, tx *gorm.DB, nodes []*domain.Node) ([]*domain.Node, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if len(nodes) == 0 {
		return []*domain.Node{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

func (nr *nodeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, nodeIDs []uuid.UUID) ([]*domain.Node, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*domain.Node
	if len(nodeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", nodeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *nodeRepo) Exists(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if nodeID == uuid.Nil {
		return false, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Node{}).
		Where("id = ?", nodeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
