package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/yungbote/roadmaphub-backend/internal/pkg/errors"
)

// EntityType is the closed set of reactable entities. Kept as a tagged
// enum rather than a free-form string so cascade behavior can be resolved
// by switching on the variant.
type EntityType string

const (
	EntityTypeNode    EntityType = "node"
	EntityTypeRoadmap EntityType = "roadmap"
)

func ParseEntityType(raw string) (EntityType, error) {
	switch EntityType(raw) {
	case EntityTypeNode:
		return EntityTypeNode, nil
	case EntityTypeRoadmap:
		return EntityTypeRoadmap, nil
	default:
		return "", fmt.Errorf("%w: entity_type %q", pkgerrors.ErrInvalidArgument, raw)
	}
}

// EntityRef points a reaction at a concrete node or roadmap.
type EntityRef struct {
	Type EntityType
	ID   uuid.UUID
}

type ReactionKind string

const (
	ReactionLike       ReactionKind = "like"
	ReactionDislike    ReactionKind = "dislike"
	ReactionLove       ReactionKind = "love"
	ReactionCelebrate  ReactionKind = "celebrate"
	ReactionInsightful ReactionKind = "insightful"
	ReactionCurious    ReactionKind = "curious"
)

var reactionKinds = map[ReactionKind]struct{}{
	ReactionLike:       {},
	ReactionDislike:    {},
	ReactionLove:       {},
	ReactionCelebrate:  {},
	ReactionInsightful: {},
	ReactionCurious:    {},
}

func ParseReactionKind(raw string) (ReactionKind, error) {
	k := ReactionKind(raw)
	if _, ok := reactionKinds[k]; !ok {
		return "", fmt.Errorf("%w: reaction kind %q", pkgerrors.ErrInvalidArgument, raw)
	}
	return k, nil
}

// Reaction is one (user, entity, kind) tuple. At most one row per tuple:
// a user may hold a like and a love on the same entity at once, but never
// two likes. Rows are created on toggle-in and hard-deleted on toggle-out;
// no soft delete, since a tombstone would collide with the unique index on
// the next toggle-in.
type Reaction struct {
	ID         uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID    `gorm:"type:uuid;not null;index:idx_reaction_tuple,unique,priority:1" json:"user_id"`
	User       *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	EntityType EntityType   `gorm:"column:entity_type;not null;index:idx_reaction_tuple,unique,priority:2;index:idx_reaction_entity" json:"entity_type"`
	EntityID   uuid.UUID    `gorm:"type:uuid;column:entity_id;not null;index:idx_reaction_tuple,unique,priority:3;index:idx_reaction_entity" json:"entity_id"`
	Kind       ReactionKind `gorm:"column:kind;not null;index:idx_reaction_tuple,unique,priority:4" json:"kind"`
	CreatedAt  time.Time    `gorm:"not null;default:now()" json:"created_at"`
}

func (Reaction) TableName() string { return "reaction" }
