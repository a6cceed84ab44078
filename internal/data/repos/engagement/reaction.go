package engagement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
	pkgerrors "github.com/yungbote/roadmaphub-backend/internal/pkg/errors"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
)

// ReactionRepo is the durable store of (user, entity, kind) tuples. The
// unique index on the full tuple is what makes concurrent toggles safe:
// two racing requests can never produce duplicate rows, only one of the
// two valid end states.
type ReactionRepo interface {
	GetByTuple(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (*domain.Reaction, error)
	// Insert creates the tuple row, surfacing ErrConflict when it already
	// exists. Used by the non-idempotent store path.
	Insert(ctx context.Context, tx *gorm.DB, row *domain.Reaction) error
	// EnsureExists inserts the tuple if absent and is a no-op otherwise
	// (ON CONFLICT DO NOTHING). Used by the cascade fan-out so retries
	// and pre-existing manual likes never double-insert.
	EnsureExists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) error
	// DeleteByTuple removes the tuple row if present, reporting whether a
	// row was deleted.
	DeleteByTuple(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (bool, error)
	CountByTuple(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (int64, error)
	ListByUserAndEntity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref domain.EntityRef) ([]*domain.Reaction, error)
	CountsForEntity(ctx context.Context, tx *gorm.DB, ref domain.EntityRef) (map[domain.ReactionKind]int64, error)
}

type reactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReactionRepo(db *gorm.DB, baseLog *logger.Logger) ReactionRepo {
	repoLog := baseLog.With("repo", "ReactionRepo")
	return &reactionRepo{db: db, log: repoLog}
}

func (rr *reactionRepo) GetByTuple(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (*domain.Reaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*domain.Reaction
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND entity_type = ? AND entity_id = ? AND kind = ?", userID, ref.Type, ref.ID, kind).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (rr *reactionRepo) Insert(ctx context.Context, tx *gorm.DB, row *domain.Reaction) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return pkgerrors.ErrConflict
		}
		return err
	}
	return nil
}

func (rr *reactionRepo) EnsureExists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	row := &domain.Reaction{
		UserID:     userID,
		EntityType: ref.Type,
		EntityID:   ref.ID,
		Kind:       kind,
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "entity_type"},
				{Name: "entity_id"},
				{Name: "kind"},
			},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return err
	}
	return nil
}

func (rr *reactionRepo) DeleteByTuple(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	res := transaction.WithContext(ctx).
		Where("user_id = ? AND entity_type = ? AND entity_id = ? AND kind = ?", userID, ref.Type, ref.ID, kind).
		Delete(&domain.Reaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (rr *reactionRepo) CountByTuple(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Reaction{}).
		Where("user_id = ? AND entity_type = ? AND entity_id = ? AND kind = ?", userID, ref.Type, ref.ID, kind).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (rr *reactionRepo) ListByUserAndEntity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref domain.EntityRef) ([]*domain.Reaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*domain.Reaction
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND entity_type = ? AND entity_id = ?", userID, ref.Type, ref.ID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reactionRepo) CountsForEntity(ctx context.Context, tx *gorm.DB, ref domain.EntityRef) (map[domain.ReactionKind]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	type kindCount struct {
		Kind  domain.ReactionKind
		Count int64
	}
	var rows []kindCount
	if err := transaction.WithContext(ctx).
		Model(&domain.Reaction{}).
		Select("kind, COUNT(*) AS count").
		Where("entity_type = ? AND entity_id = ?", ref.Type, ref.ID).
		Group("kind").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[domain.ReactionKind]int64, len(rows))
	for _, r := range rows {
		counts[r.Kind] = r.Count
	}
	return counts, nil
}
