package domain

import (
	"time"

	"github.com/google/uuid"
)

// NodeProgress is the per-user, per-node completion flag. One row per
// (user, node) pair, upserted; flipped only by the cascade engine or the
// manual completion toggle.
type NodeProgress struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_node,unique,priority:1" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	NodeID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_node,unique,priority:2" json:"node_id"`
	Node        *Node      `gorm:"constraint:OnDelete:CASCADE;foreignKey:NodeID;references:ID" json:"node,omitempty"`
	Completed   bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (NodeProgress) TableName() string { return "node_progress" }
