package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/data/repos"
	"github.com/yungbote/roadmaphub-backend/internal/domain"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
	"github.com/yungbote/roadmaphub-backend/internal/scoring"
)

const (
	defaultRecommendLimit = 10
	recommendCacheTTL     = 5 * time.Minute
)

// RecommendationCache is the minimal cache surface the recommender
// needs; satisfied by the redis client. A nil cache disables caching.
type RecommendationCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
}

type RecommendedRoadmap struct {
	RoadmapID       uuid.UUID `json:"roadmap_id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	CompositeScore  float64   `json:"composite_score"`
	CompletionRate  float64   `json:"completion_rate"`
	DropoutRate     float64   `json:"dropout_rate"`
	EfficiencyRate  float64   `json:"efficiency_rate"`
	EngagementScore float64   `json:"engagement_score"`
	UsefulnessScore float64   `json:"usefulness_score"`
	BookmarkCount   int       `json:"bookmark_count"`
}

// RecommendationService ranks roadmaps by composite score. Pure reads;
// roadmaps without a statistics row are excluded rather than defaulted.
type RecommendationService interface {
	Recommend(ctx context.Context, topic string, limit int) ([]*RecommendedRoadmap, error)
}

type recommendationService struct {
	db          *gorm.DB
	log         *logger.Logger
	roadmapRepo repos.RoadmapRepo
	statsRepo   repos.RoadmapStatisticsRepo
	cache       RecommendationCache
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	roadmapRepo repos.RoadmapRepo,
	statsRepo repos.RoadmapStatisticsRepo,
	cache RecommendationCache,
) RecommendationService {
	serviceLog := log.With("service", "RecommendationService")
	return &recommendationService{
		db:          db,
		log:         serviceLog,
		roadmapRepo: roadmapRepo,
		statsRepo:   statsRepo,
		cache:       cache,
	}
}

func (rs *recommendationService) Recommend(ctx context.Context, topic string, limit int) ([]*RecommendedRoadmap, error) {
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	cacheKey := fmt.Sprintf("recommend:%s:%d", topic, limit)
	if rs.cache != nil {
		var cached []*RecommendedRoadmap
		hit, err := rs.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			rs.log.Warn("recommendation cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	// Topic match is a case-sensitive substring over the raw tag string,
	// not a tokenized search.
	roadmaps, err := rs.roadmapRepo.ListByTagSubstring(ctx, nil, topic)
	if err != nil {
		return nil, fmt.Errorf("list roadmaps: %w", err)
	}
	if len(roadmaps) == 0 {
		return []*RecommendedRoadmap{}, nil
	}

	ids := make([]uuid.UUID, 0, len(roadmaps))
	for _, rm := range roadmaps {
		ids = append(ids, rm.ID)
	}
	stats, err := rs.statsRepo.GetByRoadmapIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}
	statsByRoadmap := make(map[uuid.UUID]*domain.RoadmapStatistics, len(stats))
	for _, st := range stats {
		statsByRoadmap[st.RoadmapID] = st
	}

	scored := make([]*RecommendedRoadmap, 0, len(roadmaps))
	for _, rm := range roadmaps {
		st, ok := statsByRoadmap[rm.ID]
		if !ok {
			continue
		}
		scored = append(scored, &RecommendedRoadmap{
			RoadmapID:       rm.ID,
			Name:            rm.Name,
			Slug:            rm.Slug,
			CompositeScore:  scoring.CompositeScore(st),
			CompletionRate:  scoring.CompletionRate(st),
			DropoutRate:     scoring.DropoutRate(st),
			EfficiencyRate:  scoring.EfficiencyRate(st),
			EngagementScore: scoring.EngagementScore(st),
			UsefulnessScore: st.UsefulnessScore,
			BookmarkCount:   st.BookmarkCount,
		})
	}

	// Stable sort so equal scores keep the original query order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CompositeScore > scored[j].CompositeScore
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	if rs.cache != nil {
		if err := rs.cache.SetJSON(ctx, cacheKey, scored, recommendCacheTTL); err != nil {
			rs.log.Warn("recommendation cache write failed", "error", err)
		}
	}
	return scored, nil
}
