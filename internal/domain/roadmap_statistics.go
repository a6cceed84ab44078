package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoadmapStatistics is the precomputed per-roadmap aggregate consumed by
// the recommendation scorer. Seeded/refreshed outside this core; read-only
// input here.
type RoadmapStatistics struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoadmapID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"roadmap_id"`
	Roadmap           *Roadmap  `gorm:"constraint:OnDelete:CASCADE;foreignKey:RoadmapID;references:ID" json:"roadmap,omitempty"`
	CompletionCount   int       `gorm:"column:completion_count;not null;default:0" json:"completion_count"`
	DropoutCount      int       `gorm:"column:dropout_count;not null;default:0" json:"dropout_count"`
	AvgHoursSpent     float64   `gorm:"column:avg_hours_spent;not null;default:0" json:"avg_hours_spent"`
	AvgNodesCompleted float64   `gorm:"column:avg_nodes_completed;not null;default:0" json:"avg_nodes_completed"`
	BookmarkCount     int       `gorm:"column:bookmark_count;not null;default:0" json:"bookmark_count"`
	// UsefulnessScore is a 0..5 rating.
	UsefulnessScore float64   `gorm:"column:usefulness_score;not null;default:0" json:"usefulness_score"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (RoadmapStatistics) TableName() string { return "roadmap_statistics" }
