package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/data/repos/analytics"
	"github.com/yungbote/roadmaphub-backend/internal/data/repos/catalog"
	"github.com/yungbote/roadmaphub-backend/internal/data/repos/engagement"
	"github.com/yungbote/roadmaphub-backend/internal/data/repos/user"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo

type RoadmapRepo = catalog.RoadmapRepo
type NodeRepo = catalog.NodeRepo
type RoadmapNodeRepo = catalog.RoadmapNodeRepo

type ReactionRepo = engagement.ReactionRepo
type NodeProgressRepo = engagement.NodeProgressRepo

type RoadmapStatisticsRepo = analytics.RoadmapStatisticsRepo

// Set bundles every repo so wiring in main stays one call.
type Set struct {
	User              UserRepo
	Roadmap           RoadmapRepo
	Node              NodeRepo
	RoadmapNode       RoadmapNodeRepo
	Reaction          ReactionRepo
	NodeProgress      NodeProgressRepo
	RoadmapStatistics RoadmapStatisticsRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		User:              user.NewUserRepo(db, log),
		Roadmap:           catalog.NewRoadmapRepo(db, log),
		Node:              catalog.NewNodeRepo(db, log),
		RoadmapNode:       catalog.NewRoadmapNodeRepo(db, log),
		Reaction:          engagement.NewReactionRepo(db, log),
		NodeProgress:      engagement.NewNodeProgressRepo(db, log),
		RoadmapStatistics: analytics.NewRoadmapStatisticsRepo(db, log),
	}
}
