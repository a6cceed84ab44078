package services

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/data/repos"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/roadmaphub-backend/internal/pkg/errors"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
)

// RoadmapProgress is the per-user progress summary for one roadmap.
type RoadmapProgress struct {
	TotalNodes         int         `json:"total_nodes"`
	CompletedNodes     int         `json:"completed_nodes"`
	ProgressPercentage float64     `json:"progress_percentage"`
	CompletedNodeIDs   []uuid.UUID `json:"completed_node_ids"`
	IsCompleted        bool        `json:"is_completed"`
}

// CompletionToggle is the result of the manual node-completion flip.
type CompletionToggle struct {
	Completed bool `json:"completed"`
	Score     int  `json:"score"`
}

type ProgressService interface {
	MarkCompleted(dbc dbctx.Context, userID, nodeID uuid.UUID) error
	MarkIncomplete(dbc dbctx.Context, userID, nodeID uuid.UUID) error
	RoadmapProgress(dbc dbctx.Context, userID, roadmapID uuid.UUID) (*RoadmapProgress, error)
	CompletedNodeIDs(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// CompletedRoadmaps returns roadmaps with at least one node whose
	// member nodes are all completed by the user.
	CompletedRoadmaps(dbc dbctx.Context, userID uuid.UUID) ([]*domain.Roadmap, error)
	// ToggleNodeCompletion flips the completion flag directly, without
	// touching reactions, and returns the recalculated score.
	ToggleNodeCompletion(dbc dbctx.Context, userID, nodeID uuid.UUID) (*CompletionToggle, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	progressRepo repos.NodeProgressRepo
	roadmapRepo  repos.RoadmapRepo
	rnRepo       repos.RoadmapNodeRepo
	nodeRepo     repos.NodeRepo
	userRepo     repos.UserRepo
	scoreService ScoreService
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	progressRepo repos.NodeProgressRepo,
	roadmapRepo repos.RoadmapRepo,
	rnRepo repos.RoadmapNodeRepo,
	nodeRepo repos.NodeRepo,
	userRepo repos.UserRepo,
	scoreService ScoreService,
) ProgressService {
	serviceLog := log.With("service", "ProgressService")
	return &progressService{
		db:           db,
		log:          serviceLog,
		progressRepo: progressRepo,
		roadmapRepo:  roadmapRepo,
		rnRepo:       rnRepo,
		nodeRepo:     nodeRepo,
		userRepo:     userRepo,
		scoreService: scoreService,
	}
}

func (ps *progressService) MarkCompleted(dbc dbctx.Context, userID, nodeID uuid.UUID) error {
	return ps.progressRepo.SetCompleted(dbc.Ctx, dbc.Tx, userID, nodeID, true)
}

func (ps *progressService) MarkIncomplete(dbc dbctx.Context, userID, nodeID uuid.UUID) error {
	return ps.progressRepo.SetCompleted(dbc.Ctx, dbc.Tx, userID, nodeID, false)
}

func (ps *progressService) RoadmapProgress(dbc dbctx.Context, userID, roadmapID uuid.UUID) (*RoadmapProgress, error) {
	exists, err := ps.roadmapRepo.Exists(dbc.Ctx, dbc.Tx, roadmapID)
	if err != nil {
		return nil, fmt.Errorf("check roadmap: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: roadmap %s", pkgerrors.ErrNotFound, roadmapID)
	}

	nodeIDs, err := ps.rnRepo.NodeIDsForRoadmap(dbc.Ctx, dbc.Tx, roadmapID)
	if err != nil {
		return nil, fmt.Errorf("load member nodes: %w", err)
	}

	out := &RoadmapProgress{
		TotalNodes:       len(nodeIDs),
		CompletedNodeIDs: []uuid.UUID{},
	}
	if len(nodeIDs) == 0 {
		return out, nil
	}

	rows, err := ps.progressRepo.GetByUserAndNodeIDs(dbc.Ctx, dbc.Tx, userID, nodeIDs)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	completed := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		if row.Completed {
			completed[row.NodeID] = true
		}
	}
	// Preserve roadmap order in the completed ID list.
	for _, id := range nodeIDs {
		if completed[id] {
			out.CompletedNodeIDs = append(out.CompletedNodeIDs, id)
		}
	}
	out.CompletedNodes = len(out.CompletedNodeIDs)
	out.ProgressPercentage = roundPercent(float64(out.CompletedNodes) / float64(out.TotalNodes) * 100)
	out.IsCompleted = out.ProgressPercentage >= 100
	return out, nil
}

func (ps *progressService) CompletedNodeIDs(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return ps.progressRepo.CompletedNodeIDsForUser(dbc.Ctx, dbc.Tx, userID)
}

func (ps *progressService) CompletedRoadmaps(dbc dbctx.Context, userID uuid.UUID) ([]*domain.Roadmap, error) {
	completedIDs, err := ps.progressRepo.CompletedNodeIDsForUser(dbc.Ctx, dbc.Tx, userID)
	if err != nil {
		return nil, fmt.Errorf("load completed nodes: %w", err)
	}
	completed := make(map[uuid.UUID]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	roadmaps, err := ps.roadmapRepo.ListByTagSubstring(dbc.Ctx, dbc.Tx, "")
	if err != nil {
		return nil, fmt.Errorf("load roadmaps: %w", err)
	}

	var out []*domain.Roadmap
	for _, rm := range roadmaps {
		nodeIDs, err := ps.rnRepo.NodeIDsForRoadmap(dbc.Ctx, dbc.Tx, rm.ID)
		if err != nil {
			return nil, fmt.Errorf("load member nodes: %w", err)
		}
		// A roadmap with no nodes never counts as completed.
		if len(nodeIDs) == 0 {
			continue
		}
		all := true
		for _, id := range nodeIDs {
			if !completed[id] {
				all = false
				break
			}
		}
		if all {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (ps *progressService) ToggleNodeCompletion(dbc dbctx.Context, userID, nodeID uuid.UUID) (*CompletionToggle, error) {
	var result *CompletionToggle
	err := runInTx(ps.db, dbc, func(dbc dbctx.Context) error {
		userExists, err := ps.userRepo.Exists(dbc.Ctx, dbc.Tx, userID)
		if err != nil {
			return fmt.Errorf("check user: %w", err)
		}
		if !userExists {
			return fmt.Errorf("%w: user %s", pkgerrors.ErrNotFound, userID)
		}
		nodeExists, err := ps.nodeRepo.Exists(dbc.Ctx, dbc.Tx, nodeID)
		if err != nil {
			return fmt.Errorf("check node: %w", err)
		}
		if !nodeExists {
			return fmt.Errorf("%w: node %s", pkgerrors.ErrNotFound, nodeID)
		}

		rows, err := ps.progressRepo.GetByUserAndNodeIDs(dbc.Ctx, dbc.Tx, userID, []uuid.UUID{nodeID})
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		current := len(rows) > 0 && rows[0].Completed
		next := !current

		if err := ps.progressRepo.SetCompleted(dbc.Ctx, dbc.Tx, userID, nodeID, next); err != nil {
			return fmt.Errorf("set completion: %w", err)
		}

		score, err := ps.scoreService.Recalculate(dbc, userID)
		if err != nil {
			return fmt.Errorf("recalculate score: %w", err)
		}

		result = &CompletionToggle{Completed: next, Score: score.NewScore}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
