package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoadmapNode is the ordered many-to-many membership between roadmaps and
// nodes, optionally tree-shaped via ParentNodeID. Membership is defined by
// the catalog side of the platform and is read-only for the cascade engine.
type RoadmapNode struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoadmapID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_roadmap_node,unique,priority:1" json:"roadmap_id"`
	Roadmap      *Roadmap   `gorm:"constraint:OnDelete:CASCADE;foreignKey:RoadmapID;references:ID" json:"roadmap,omitempty"`
	NodeID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_roadmap_node,unique,priority:2" json:"node_id"`
	Node         *Node      `gorm:"constraint:OnDelete:CASCADE;foreignKey:NodeID;references:ID" json:"node,omitempty"`
	Position     int        `gorm:"column:position;not null;default:0" json:"position"`
	ParentNodeID *uuid.UUID `gorm:"type:uuid;column:parent_node_id;index" json:"parent_node_id,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (RoadmapNode) TableName() string { return "roadmap_node" }
