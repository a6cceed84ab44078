package engagement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
)

type NodeProgressRepo interface {
	// SetCompleted upserts the (user, node) row to the given completion
	// state. Idempotent: repeating the same direction is a no-op.
	SetCompleted(ctx context.Context, tx *gorm.DB, userID, nodeID uuid.UUID, completed bool) error
	GetByUserAndNodeIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, nodeIDs []uuid.UUID) ([]*domain.NodeProgress, error)
	CompletedNodeIDsForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	CountCompletedForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type nodeProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNodeProgressRepo(db *gorm.DB, baseLog *logger.Logger) NodeProgressRepo {
	repoLog := baseLog.With("repo", "NodeProgressRepo")
	return &nodeProgressRepo{db: db, log: repoLog}
}

func (pr *nodeProgressRepo) SetCompleted(ctx context.Context, tx *gorm.DB, userID, nodeID uuid.UUID, completed bool) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var completedAt *time.Time
	if completed {
		now := time.Now().UTC()
		completedAt = &now
	}

	// Upsert by unique user_id + node_id. Assign uses a map so a false
	// completed flag is not skipped as a zero value.
	row := &domain.NodeProgress{UserID: userID, NodeID: nodeID}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND node_id = ?", userID, nodeID).
		Assign(map[string]interface{}{
			"completed":    completed,
			"completed_at": completedAt,
		}).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}

func (pr *nodeProgressRepo) GetByUserAndNodeIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, nodeIDs []uuid.UUID) ([]*domain.NodeProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*domain.NodeProgress
	if userID == uuid.Nil || len(nodeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND node_id IN ?", userID, nodeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *nodeProgressRepo) CompletedNodeIDsForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var ids []uuid.UUID
	if userID == uuid.Nil {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.NodeProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Pluck("node_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (pr *nodeProgressRepo) CountCompletedForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.NodeProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
