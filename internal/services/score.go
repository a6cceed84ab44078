package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/data/repos"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/roadmaphub-backend/internal/pkg/errors"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
)

// PointsPerCompletedNode is the current scoring rule: one point per
// completed node. Flagged with product as possibly needing weighting by
// roadmap difficulty; until that lands, the flat rule stands.
const PointsPerCompletedNode = 1

const batchScoreWorkers = 8

type ScoreResult struct {
	OldScore int `json:"old_score"`
	NewScore int `json:"new_score"`
}

type BatchScoreResult struct {
	TotalUsers      int `json:"total_users"`
	UpdatedCount    int `json:"updated_count"`
	TotalScoreDelta int `json:"total_score_delta"`
}

// ScoreService derives User.score from completion state. The score is
// recomputed from scratch on every call rather than incrementally
// maintained, so it cannot drift; the scheduler re-runs the batch pass
// periodically as a reconciliation backstop.
type ScoreService interface {
	Recalculate(dbc dbctx.Context, userID uuid.UUID) (*ScoreResult, error)
	RecalculateAll(ctx context.Context) (*BatchScoreResult, error)
	CurrentScore(dbc dbctx.Context, userID uuid.UUID) (int, error)
}

type scoreService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	progressRepo repos.NodeProgressRepo
}

func NewScoreService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, progressRepo repos.NodeProgressRepo) ScoreService {
	serviceLog := log.With("service", "ScoreService")
	return &scoreService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		progressRepo: progressRepo,
	}
}

func (ss *scoreService) Recalculate(dbc dbctx.Context, userID uuid.UUID) (*ScoreResult, error) {
	var result *ScoreResult
	err := runInTx(ss.db, dbc, func(dbc dbctx.Context) error {
		users, err := ss.userRepo.GetByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 || users[0] == nil {
			return fmt.Errorf("%w: user %s", pkgerrors.ErrNotFound, userID)
		}
		u := users[0]

		completed, err := ss.progressRepo.CountCompletedForUser(dbc.Ctx, dbc.Tx, userID)
		if err != nil {
			return fmt.Errorf("count completed nodes: %w", err)
		}
		newScore := int(completed) * PointsPerCompletedNode

		if newScore != u.Score {
			if err := ss.userRepo.UpdateScore(dbc.Ctx, dbc.Tx, userID, newScore); err != nil {
				return fmt.Errorf("write score: %w", err)
			}
		}

		result = &ScoreResult{OldScore: u.Score, NewScore: newScore}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ss *scoreService) RecalculateAll(ctx context.Context) (*BatchScoreResult, error) {
	userIDs, err := ss.userRepo.AllIDs(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	summary := &BatchScoreResult{TotalUsers: len(userIDs)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchScoreWorkers)
	for _, id := range userIDs {
		g.Go(func() error {
			res, err := ss.Recalculate(dbctx.Context{Ctx: gctx}, id)
			if err != nil {
				return fmt.Errorf("user %s: %w", id, err)
			}
			if res.NewScore == res.OldScore {
				return nil
			}
			mu.Lock()
			summary.UpdatedCount++
			summary.TotalScoreDelta += res.NewScore - res.OldScore
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ss.log.Info("batch score recalculation finished",
		"total_users", summary.TotalUsers,
		"updated", summary.UpdatedCount,
		"delta", summary.TotalScoreDelta)
	return summary, nil
}

func (ss *scoreService) CurrentScore(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	users, err := ss.userRepo.GetByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{userID})
	if err != nil {
		return 0, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return 0, fmt.Errorf("%w: user %s", pkgerrors.ErrNotFound, userID)
	}
	return users[0].Score, nil
}
