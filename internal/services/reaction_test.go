package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
	pkgerrors "github.com/yungbote/roadmaphub-backend/internal/pkg/errors"
)

func TestStoreReaction(t *testing.T) {
	e := newEnv(t)
	u := e.users.add(&domain.User{Email: "a@example.com"})
	node := e.nodes.add(&domain.Node{Title: "goroutines"})
	ref := domain.EntityRef{Type: domain.EntityTypeNode, ID: node.ID}

	created, err := e.reaction.Store(testDBC(), u.ID, ref, domain.ReactionInsightful)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if created.Kind != domain.ReactionInsightful || created.UserID != u.ID {
		t.Fatalf("created = %+v", created)
	}

	// Same tuple again is a conflict, not a toggle.
	_, err = e.reaction.Store(testDBC(), u.ID, ref, domain.ReactionInsightful)
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	// A different kind on the same entity coexists.
	if _, err := e.reaction.Store(testDBC(), u.ID, ref, domain.ReactionLove); err != nil {
		t.Fatalf("store second kind: %v", err)
	}
}

func TestStoreReactionNeverCascades(t *testing.T) {
	e := newEnv(t)
	u := e.users.add(&domain.User{Email: "a@example.com"})
	_, nodes := seedRoadmapWithNodes(e, 2)
	node := nodes[0]
	ref := domain.EntityRef{Type: domain.EntityTypeNode, ID: node.ID}

	if _, err := e.reaction.Store(testDBC(), u.ID, ref, domain.ReactionLike); err != nil {
		t.Fatalf("store: %v", err)
	}
	if e.progress.completed(u.ID, node.ID) {
		t.Fatal("plain store must not touch completion state")
	}
}

func TestListForEntity(t *testing.T) {
	e := newEnv(t)
	u := e.users.add(&domain.User{Email: "a@example.com"})
	node := e.nodes.add(&domain.Node{Title: "errors"})
	ref := domain.EntityRef{Type: domain.EntityTypeNode, ID: node.ID}

	for _, kind := range []domain.ReactionKind{domain.ReactionLike, domain.ReactionCurious} {
		if _, err := e.reaction.Store(testDBC(), u.ID, ref, kind); err != nil {
			t.Fatalf("store %s: %v", kind, err)
		}
	}

	rows, err := e.reaction.ListForEntity(testDBC(), u.ID, ref)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
}

func TestCountsForEntity(t *testing.T) {
	e := newEnv(t)
	a := e.users.add(&domain.User{Email: "a@example.com"})
	b := e.users.add(&domain.User{Email: "b@example.com"})
	node := e.nodes.add(&domain.Node{Title: "context"})
	ref := domain.EntityRef{Type: domain.EntityTypeNode, ID: node.ID}

	if _, err := e.reaction.Store(testDBC(), a.ID, ref, domain.ReactionLike); err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := e.reaction.Store(testDBC(), b.ID, ref, domain.ReactionLike); err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := e.reaction.Store(testDBC(), b.ID, ref, domain.ReactionCelebrate); err != nil {
		t.Fatalf("store: %v", err)
	}

	counts, err := e.reaction.CountsForEntity(testDBC(), ref)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[domain.ReactionLike] != 2 || counts[domain.ReactionCelebrate] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

// racingReactionRepo simulates a concurrent writer landing the tuple
// between this toggle's delete miss and its insert.
type racingReactionRepo struct {
	*fakeReactionRepo
}

func (r *racingReactionRepo) DeleteByTuple(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (bool, error) {
	if _, err := r.fakeReactionRepo.DeleteByTuple(ctx, tx, userID, ref, kind); err != nil {
		return false, err
	}
	// Racing writer re-inserts immediately; report the delete as a miss.
	if err := r.fakeReactionRepo.EnsureExists(ctx, tx, userID, ref, kind); err != nil {
		return false, err
	}
	return false, nil
}

func TestToggleInsertRaceResolvesToAdded(t *testing.T) {
	e := newEnv(t)
	u := e.users.add(&domain.User{Email: "a@example.com"})
	node := e.nodes.add(&domain.Node{Title: "sync"})
	ref := domain.EntityRef{Type: domain.EntityTypeNode, ID: node.ID}

	racing := &racingReactionRepo{fakeReactionRepo: e.reacts}
	svc := NewReactionService(nil, testLogger(t), racing, e.users, e.nodes, e.roadmaps)

	res, err := svc.Toggle(testDBC(), u.ID, ref, domain.ReactionLike)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	// The tuple exists after the race, which is the added end state.
	if res.Action != ActionAdded {
		t.Fatalf("action = %q, want %q", res.Action, ActionAdded)
	}
	if !e.reacts.has(u.ID, ref, domain.ReactionLike) {
		t.Fatal("tuple missing after race")
	}
}
