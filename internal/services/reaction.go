package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/data/repos"
	"github.com/yungbote/roadmaphub-backend/internal/domain"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/roadmaphub-backend/internal/pkg/errors"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
)

type ToggleAction string

const (
	ActionAdded   ToggleAction = "added"
	ActionRemoved ToggleAction = "removed"
)

type ToggleResult struct {
	Action ToggleAction `json:"action"`
}

// ReactionService is the durable reaction store. Toggle/Ensure/Remove are
// raw tuple operations with no entity validation; the cascade engine
// checks existence before invoking them. Store is the general multi-kind
// path exposed directly over HTTP and validates its inputs itself.
type ReactionService interface {
	Toggle(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (*ToggleResult, error)
	Ensure(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) error
	Remove(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) error
	Store(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (*domain.Reaction, error)
	ListForEntity(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef) ([]*domain.Reaction, error)
	CountsForEntity(dbc dbctx.Context, ref domain.EntityRef) (map[domain.ReactionKind]int64, error)
}

type reactionService struct {
	db           *gorm.DB
	log          *logger.Logger
	reactionRepo repos.ReactionRepo
	userRepo     repos.UserRepo
	nodeRepo     repos.NodeRepo
	roadmapRepo  repos.RoadmapRepo
}

func NewReactionService(
	db *gorm.DB,
	log *logger.Logger,
	reactionRepo repos.ReactionRepo,
	userRepo repos.UserRepo,
	nodeRepo repos.NodeRepo,
	roadmapRepo repos.RoadmapRepo,
) ReactionService {
	serviceLog := log.With("service", "ReactionService")
	return &reactionService{
		db:           db,
		log:          serviceLog,
		reactionRepo: reactionRepo,
		userRepo:     userRepo,
		nodeRepo:     nodeRepo,
		roadmapRepo:  roadmapRepo,
	}
}

func (rs *reactionService) Toggle(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (*ToggleResult, error) {
	deleted, err := rs.reactionRepo.DeleteByTuple(dbc.Ctx, dbc.Tx, userID, ref, kind)
	if err != nil {
		return nil, fmt.Errorf("toggle delete: %w", err)
	}
	if deleted {
		return &ToggleResult{Action: ActionRemoved}, nil
	}

	row := &domain.Reaction{
		UserID:     userID,
		EntityType: ref.Type,
		EntityID:   ref.ID,
		Kind:       kind,
	}
	if err := rs.reactionRepo.Insert(dbc.Ctx, dbc.Tx, row); err != nil {
		// A concurrent toggle won the insert race; the tuple exists,
		// which is the "added" end state either way.
		if err == pkgerrors.ErrConflict {
			rs.log.Debug("toggle insert lost race, tuple already present",
				"user_id", userID, "entity_type", ref.Type, "entity_id", ref.ID, "kind", kind)
			return &ToggleResult{Action: ActionAdded}, nil
		}
		return nil, fmt.Errorf("toggle insert: %w", err)
	}
	return &ToggleResult{Action: ActionAdded}, nil
}

func (rs *reactionService) Ensure(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) error {
	return rs.reactionRepo.EnsureExists(dbc.Ctx, dbc.Tx, userID, ref, kind)
}

func (rs *reactionService) Remove(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) error {
	_, err := rs.reactionRepo.DeleteByTuple(dbc.Ctx, dbc.Tx, userID, ref, kind)
	return err
}

func (rs *reactionService) Store(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (*domain.Reaction, error) {
	var created *domain.Reaction
	err := runInTx(rs.db, dbc, func(dbc dbctx.Context) error {
		if err := rs.checkRefs(dbc, userID, ref); err != nil {
			return err
		}

		row := &domain.Reaction{
			UserID:     userID,
			EntityType: ref.Type,
			EntityID:   ref.ID,
			Kind:       kind,
		}
		if err := rs.reactionRepo.Insert(dbc.Ctx, dbc.Tx, row); err != nil {
			if err == pkgerrors.ErrConflict {
				return fmt.Errorf("%w: %s already held on %s %s", pkgerrors.ErrConflict, kind, ref.Type, ref.ID)
			}
			return fmt.Errorf("store reaction: %w", err)
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (rs *reactionService) ListForEntity(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef) ([]*domain.Reaction, error) {
	if err := rs.checkRefs(dbc, userID, ref); err != nil {
		return nil, err
	}
	return rs.reactionRepo.ListByUserAndEntity(dbc.Ctx, dbc.Tx, userID, ref)
}

func (rs *reactionService) CountsForEntity(dbc dbctx.Context, ref domain.EntityRef) (map[domain.ReactionKind]int64, error) {
	if err := rs.checkEntity(dbc, ref); err != nil {
		return nil, err
	}
	return rs.reactionRepo.CountsForEntity(dbc.Ctx, dbc.Tx, ref)
}

func (rs *reactionService) checkRefs(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef) error {
	exists, err := rs.userRepo.Exists(dbc.Ctx, dbc.Tx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: user %s", pkgerrors.ErrNotFound, userID)
	}
	return rs.checkEntity(dbc, ref)
}

func (rs *reactionService) checkEntity(dbc dbctx.Context, ref domain.EntityRef) error {
	var (
		exists bool
		err    error
	)
	switch ref.Type {
	case domain.EntityTypeNode:
		exists, err = rs.nodeRepo.Exists(dbc.Ctx, dbc.Tx, ref.ID)
	case domain.EntityTypeRoadmap:
		exists, err = rs.roadmapRepo.Exists(dbc.Ctx, dbc.Tx, ref.ID)
	default:
		return fmt.Errorf("%w: entity_type %q", pkgerrors.ErrInvalidArgument, ref.Type)
	}
	if err != nil {
		return fmt.Errorf("check %s: %w", ref.Type, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s %s", pkgerrors.ErrNotFound, ref.Type, ref.ID)
	}
	return nil
}
