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

// CascadeService keeps reaction state and node completion state mutually
// consistent. Toggling a like on a node flips that node's progress;
// toggling a like on a roadmap fans out to every member node. Non-like
// kinds never touch progress.
//
// The whole toggle runs inside one transaction, and every sub-effect is
// idempotent (ensure/remove, not blind insert/delete), so an interrupted
// fan-out is recoverable: re-driving the same toggle converges instead of
// double-applying.
type CascadeService interface {
	ToggleReaction(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (*ToggleResult, error)
}

type cascadeService struct {
	db              *gorm.DB
	log             *logger.Logger
	reactionService ReactionService
	progressService ProgressService
	userRepo        repos.UserRepo
	nodeRepo        repos.NodeRepo
	roadmapRepo     repos.RoadmapRepo
	rnRepo          repos.RoadmapNodeRepo
}

func NewCascadeService(
	db *gorm.DB,
	log *logger.Logger,
	reactionService ReactionService,
	progressService ProgressService,
	userRepo repos.UserRepo,
	nodeRepo repos.NodeRepo,
	roadmapRepo repos.RoadmapRepo,
	rnRepo repos.RoadmapNodeRepo,
) CascadeService {
	serviceLog := log.With("service", "CascadeService")
	return &cascadeService{
		db:              db,
		log:             serviceLog,
		reactionService: reactionService,
		progressService: progressService,
		userRepo:        userRepo,
		nodeRepo:        nodeRepo,
		roadmapRepo:     roadmapRepo,
		rnRepo:          rnRepo,
	}
}

// subEffect is one idempotent step of a cascade. Effects are planned up
// front as an explicit list so the transition is inspectable and each
// step retries safely.
type subEffect struct {
	name string
	run  func(dbc dbctx.Context) error
}

func (cs *cascadeService) ToggleReaction(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (*ToggleResult, error) {
	var result *ToggleResult
	err := runInTx(cs.db, dbc, func(dbc dbctx.Context) error {
		if err := cs.checkRefs(dbc, userID, ref); err != nil {
			return err
		}

		toggled, err := cs.reactionService.Toggle(dbc, userID, ref, kind)
		if err != nil {
			return err
		}

		effects, err := cs.planEffects(dbc, userID, ref, kind, toggled.Action)
		if err != nil {
			return err
		}
		for _, eff := range effects {
			if err := eff.run(dbc); err != nil {
				return fmt.Errorf("cascade effect %s: %w", eff.name, err)
			}
		}

		result = toggled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// planEffects maps (entity, kind, action) to the ordered list of
// idempotent sub-effects. Only likes cascade; the fan-out order across
// member nodes is irrelevant since each node's update is independent.
func (cs *cascadeService) planEffects(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind, action ToggleAction) ([]subEffect, error) {
	if kind != domain.ReactionLike {
		return nil, nil
	}

	liked := action == ActionAdded

	switch ref.Type {
	case domain.EntityTypeNode:
		return []subEffect{cs.nodeProgressEffect(userID, ref.ID, liked)}, nil

	case domain.EntityTypeRoadmap:
		memberIDs, err := cs.rnRepo.NodeIDsForRoadmap(dbc.Ctx, dbc.Tx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("load member nodes: %w", err)
		}
		effects := make([]subEffect, 0, len(memberIDs)*2)
		for _, nodeID := range memberIDs {
			effects = append(effects,
				cs.nodeReactionEffect(userID, nodeID, liked),
				cs.nodeProgressEffect(userID, nodeID, liked),
			)
		}
		return effects, nil

	default:
		return nil, fmt.Errorf("%w: entity_type %q", pkgerrors.ErrInvalidArgument, ref.Type)
	}
}

// nodeReactionEffect ensures (or removes) the node-level like. Ensure
// semantics: a pre-existing manual like is left untouched, never
// double-inserted.
func (cs *cascadeService) nodeReactionEffect(userID, nodeID uuid.UUID, liked bool) subEffect {
	nodeRef := domain.EntityRef{Type: domain.EntityTypeNode, ID: nodeID}
	if liked {
		return subEffect{
			name: fmt.Sprintf("ensure-like:%s", nodeID),
			run: func(dbc dbctx.Context) error {
				return cs.reactionService.Ensure(dbc, userID, nodeRef, domain.ReactionLike)
			},
		}
	}
	return subEffect{
		name: fmt.Sprintf("remove-like:%s", nodeID),
		run: func(dbc dbctx.Context) error {
			return cs.reactionService.Remove(dbc, userID, nodeRef, domain.ReactionLike)
		},
	}
}

func (cs *cascadeService) nodeProgressEffect(userID, nodeID uuid.UUID, completed bool) subEffect {
	if completed {
		return subEffect{
			name: fmt.Sprintf("mark-completed:%s", nodeID),
			run: func(dbc dbctx.Context) error {
				return cs.progressService.MarkCompleted(dbc, userID, nodeID)
			},
		}
	}
	return subEffect{
		name: fmt.Sprintf("mark-incomplete:%s", nodeID),
		run: func(dbc dbctx.Context) error {
			return cs.progressService.MarkIncomplete(dbc, userID, nodeID)
		},
	}
}

func (cs *cascadeService) checkRefs(dbc dbctx.Context, userID uuid.UUID, ref domain.EntityRef) error {
	exists, err := cs.userRepo.Exists(dbc.Ctx, dbc.Tx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: user %s", pkgerrors.ErrNotFound, userID)
	}

	switch ref.Type {
	case domain.EntityTypeNode:
		exists, err = cs.nodeRepo.Exists(dbc.Ctx, dbc.Tx, ref.ID)
	case domain.EntityTypeRoadmap:
		exists, err = cs.roadmapRepo.Exists(dbc.Ctx, dbc.Tx, ref.ID)
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
