package services

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
	pkgerrors "github.com/yungbote/roadmaphub-backend/internal/pkg/errors"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
)

// In-memory repo fakes. Services constructed with a nil *gorm.DB run
// their transactional closures directly, so these fakes ignore the tx
// argument entirely.

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	return log
}

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
	order []uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
	f.order = append(f.order, u.ID)
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, users []*domain.User) ([]*domain.User, error) {
	for _, u := range users {
		f.add(u)
	}
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, _ *gorm.DB, userIDs []uuid.UUID) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Exists(_ context.Context, _ *gorm.DB, userID uuid.UUID) (bool, error) {
	_, ok := f.users[userID]
	return ok, nil
}

func (f *fakeUserRepo) AllIDs(_ context.Context, _ *gorm.DB) ([]uuid.UUID, error) {
	return append([]uuid.UUID(nil), f.order...), nil
}

func (f *fakeUserRepo) UpdateScore(_ context.Context, _ *gorm.DB, userID uuid.UUID, score int) error {
	if u, ok := f.users[userID]; ok {
		u.Score = score
	}
	return nil
}

type fakeRoadmapRepo struct {
	roadmaps []*domain.Roadmap
}

func (f *fakeRoadmapRepo) add(r *domain.Roadmap) *domain.Roadmap {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.roadmaps = append(f.roadmaps, r)
	return r
}

func (f *fakeRoadmapRepo) Create(_ context.Context, _ *gorm.DB, roadmaps []*domain.Roadmap) ([]*domain.Roadmap, error) {
	for _, r := range roadmaps {
		f.add(r)
	}
	return roadmaps, nil
}

func (f *fakeRoadmapRepo) GetByIDs(_ context.Context, _ *gorm.DB, roadmapIDs []uuid.UUID) ([]*domain.Roadmap, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range roadmapIDs {
		want[id] = true
	}
	var out []*domain.Roadmap
	for _, r := range f.roadmaps {
		if want[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRoadmapRepo) GetBySlug(_ context.Context, _ *gorm.DB, slug string) (*domain.Roadmap, error) {
	for _, r := range f.roadmaps {
		if r.Slug == slug {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRoadmapRepo) Exists(_ context.Context, _ *gorm.DB, roadmapID uuid.UUID) (bool, error) {
	for _, r := range f.roadmaps {
		if r.ID == roadmapID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRoadmapRepo) ListByTagSubstring(_ context.Context, _ *gorm.DB, topic string) ([]*domain.Roadmap, error) {
	var out []*domain.Roadmap
	for _, r := range f.roadmaps {
		if topic == "" || strings.Contains(r.Tags, topic) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeNodeRepo struct {
	nodes map[uuid.UUID]*domain.Node
}

func newFakeNodeRepo() *fakeNodeRepo {
	return &fakeNodeRepo{nodes: map[uuid.UUID]*domain.Node{}}
}

func (f *fakeNodeRepo) add(n *domain.Node) *domain.Node {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	f.nodes[n.ID] = n
	return n
}

func (f *fakeNodeRepo) Create(_ context.Context, _ *gorm.DB, nodes []*domain.Node) ([]*domain.Node, error) {
	for _, n := range nodes {
		f.add(n)
	}
	return nodes, nil
}

func (f *fakeNodeRepo) GetByIDs(_ context.Context, _ *gorm.DB, nodeIDs []uuid.UUID) ([]*domain.Node, error) {
	var out []*domain.Node
	for _, id := range nodeIDs {
		if n, ok := f.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNodeRepo) Exists(_ context.Context, _ *gorm.DB, nodeID uuid.UUID) (bool, error) {
	_, ok := f.nodes[nodeID]
	return ok, nil
}

type fakeRoadmapNodeRepo struct {
	rows []*domain.RoadmapNode
}

func (f *fakeRoadmapNodeRepo) attach(roadmapID, nodeID uuid.UUID, position int) {
	f.rows = append(f.rows, &domain.RoadmapNode{
		ID:        uuid.New(),
		RoadmapID: roadmapID,
		NodeID:    nodeID,
		Position:  position,
	})
}

func (f *fakeRoadmapNodeRepo) Create(_ context.Context, _ *gorm.DB, rows []*domain.RoadmapNode) ([]*domain.RoadmapNode, error) {
	f.rows = append(f.rows, rows...)
	return rows, nil
}

func (f *fakeRoadmapNodeRepo) GetByRoadmapID(_ context.Context, _ *gorm.DB, roadmapID uuid.UUID) ([]*domain.RoadmapNode, error) {
	var out []*domain.RoadmapNode
	for _, rn := range f.rows {
		if rn.RoadmapID == roadmapID {
			out = append(out, rn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeRoadmapNodeRepo) NodeIDsForRoadmap(ctx context.Context, tx *gorm.DB, roadmapID uuid.UUID) ([]uuid.UUID, error) {
	rows, _ := f.GetByRoadmapID(ctx, tx, roadmapID)
	var ids []uuid.UUID
	for _, rn := range rows {
		ids = append(ids, rn.NodeID)
	}
	return ids, nil
}

func (f *fakeRoadmapNodeRepo) RoadmapIDsForNode(_ context.Context, _ *gorm.DB, nodeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, rn := range f.rows {
		if rn.NodeID == nodeID {
			ids = append(ids, rn.RoadmapID)
		}
	}
	return ids, nil
}

type reactionKey struct {
	userID     uuid.UUID
	entityType domain.EntityType
	entityID   uuid.UUID
	kind       domain.ReactionKind
}

type fakeReactionRepo struct {
	rows map[reactionKey]*domain.Reaction
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{rows: map[reactionKey]*domain.Reaction{}}
}

func key(userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) reactionKey {
	return reactionKey{userID: userID, entityType: ref.Type, entityID: ref.ID, kind: kind}
}

func (f *fakeReactionRepo) GetByTuple(_ context.Context, _ *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (*domain.Reaction, error) {
	return f.rows[key(userID, ref, kind)], nil
}

func (f *fakeReactionRepo) Insert(_ context.Context, _ *gorm.DB, row *domain.Reaction) error {
	k := key(row.UserID, domain.EntityRef{Type: row.EntityType, ID: row.EntityID}, row.Kind)
	if _, ok := f.rows[k]; ok {
		return pkgerrors.ErrConflict
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.CreatedAt = time.Now().UTC()
	f.rows[k] = row
	return nil
}

func (f *fakeReactionRepo) EnsureExists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) error {
	err := f.Insert(ctx, tx, &domain.Reaction{
		UserID:     userID,
		EntityType: ref.Type,
		EntityID:   ref.ID,
		Kind:       kind,
	})
	if err == pkgerrors.ErrConflict {
		return nil
	}
	return err
}

func (f *fakeReactionRepo) DeleteByTuple(_ context.Context, _ *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (bool, error) {
	k := key(userID, ref, kind)
	if _, ok := f.rows[k]; !ok {
		return false, nil
	}
	delete(f.rows, k)
	return true, nil
}

func (f *fakeReactionRepo) CountByTuple(_ context.Context, _ *gorm.DB, userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) (int64, error) {
	if _, ok := f.rows[key(userID, ref, kind)]; ok {
		return 1, nil
	}
	return 0, nil
}

func (f *fakeReactionRepo) ListByUserAndEntity(_ context.Context, _ *gorm.DB, userID uuid.UUID, ref domain.EntityRef) ([]*domain.Reaction, error) {
	var out []*domain.Reaction
	for k, row := range f.rows {
		if k.userID == userID && k.entityType == ref.Type && k.entityID == ref.ID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeReactionRepo) CountsForEntity(_ context.Context, _ *gorm.DB, ref domain.EntityRef) (map[domain.ReactionKind]int64, error) {
	counts := map[domain.ReactionKind]int64{}
	for k := range f.rows {
		if k.entityType == ref.Type && k.entityID == ref.ID {
			counts[k.kind]++
		}
	}
	return counts, nil
}

func (f *fakeReactionRepo) has(userID uuid.UUID, ref domain.EntityRef, kind domain.ReactionKind) bool {
	_, ok := f.rows[key(userID, ref, kind)]
	return ok
}

type progressKey struct {
	userID uuid.UUID
	nodeID uuid.UUID
}

type fakeNodeProgressRepo struct {
	rows map[progressKey]*domain.NodeProgress
}

func newFakeNodeProgressRepo() *fakeNodeProgressRepo {
	return &fakeNodeProgressRepo{rows: map[progressKey]*domain.NodeProgress{}}
}

func (f *fakeNodeProgressRepo) SetCompleted(_ context.Context, _ *gorm.DB, userID, nodeID uuid.UUID, completed bool) error {
	k := progressKey{userID: userID, nodeID: nodeID}
	row, ok := f.rows[k]
	if !ok {
		row = &domain.NodeProgress{ID: uuid.New(), UserID: userID, NodeID: nodeID}
		f.rows[k] = row
	}
	row.Completed = completed
	if completed {
		now := time.Now().UTC()
		row.CompletedAt = &now
	} else {
		row.CompletedAt = nil
	}
	return nil
}

func (f *fakeNodeProgressRepo) GetByUserAndNodeIDs(_ context.Context, _ *gorm.DB, userID uuid.UUID, nodeIDs []uuid.UUID) ([]*domain.NodeProgress, error) {
	var out []*domain.NodeProgress
	for _, id := range nodeIDs {
		if row, ok := f.rows[progressKey{userID: userID, nodeID: id}]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeNodeProgressRepo) CompletedNodeIDsForUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for k, row := range f.rows {
		if k.userID == userID && row.Completed {
			ids = append(ids, k.nodeID)
		}
	}
	return ids, nil
}

func (f *fakeNodeProgressRepo) CountCompletedForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	ids, _ := f.CompletedNodeIDsForUser(ctx, tx, userID)
	return int64(len(ids)), nil
}

func (f *fakeNodeProgressRepo) completed(userID, nodeID uuid.UUID) bool {
	row, ok := f.rows[progressKey{userID: userID, nodeID: nodeID}]
	return ok && row.Completed
}

type fakeStatsRepo struct {
	rows map[uuid.UUID]*domain.RoadmapStatistics
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{rows: map[uuid.UUID]*domain.RoadmapStatistics{}}
}

func (f *fakeStatsRepo) Upsert(_ context.Context, _ *gorm.DB, row *domain.RoadmapStatistics) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.rows[row.RoadmapID] = row
	return nil
}

func (f *fakeStatsRepo) GetByRoadmapIDs(_ context.Context, _ *gorm.DB, roadmapIDs []uuid.UUID) ([]*domain.RoadmapStatistics, error) {
	var out []*domain.RoadmapStatistics
	for _, id := range roadmapIDs {
		if st, ok := f.rows[id]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *fakeStatsRepo) ListAll(_ context.Context, _ *gorm.DB) ([]*domain.RoadmapStatistics, error) {
	var out []*domain.RoadmapStatistics
	for _, st := range f.rows {
		out = append(out, st)
	}
	return out, nil
}

// env bundles the fakes and fully wired services for a test.
type env struct {
	users    *fakeUserRepo
	roadmaps *fakeRoadmapRepo
	nodes    *fakeNodeRepo
	rn       *fakeRoadmapNodeRepo
	reacts   *fakeReactionRepo
	progress *fakeNodeProgressRepo
	stats    *fakeStatsRepo

	score    ScoreService
	prog     ProgressService
	reaction ReactionService
	cascade  CascadeService
}

func newEnv(tb testing.TB) *env {
	tb.Helper()
	log := testLogger(tb)

	e := &env{
		users:    newFakeUserRepo(),
		roadmaps: &fakeRoadmapRepo{},
		nodes:    newFakeNodeRepo(),
		rn:       &fakeRoadmapNodeRepo{},
		reacts:   newFakeReactionRepo(),
		progress: newFakeNodeProgressRepo(),
		stats:    newFakeStatsRepo(),
	}
	e.score = NewScoreService(nil, log, e.users, e.progress)
	e.prog = NewProgressService(nil, log, e.progress, e.roadmaps, e.rn, e.nodes, e.users, e.score)
	e.reaction = NewReactionService(nil, log, e.reacts, e.users, e.nodes, e.roadmaps)
	e.cascade = NewCascadeService(nil, log, e.reaction, e.prog, e.users, e.nodes, e.roadmaps, e.rn)
	return e
}
