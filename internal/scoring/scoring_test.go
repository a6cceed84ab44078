package scoring

import (
	"math"
	"testing"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
)

func approx(tb testing.TB, got, want float64) {
	tb.Helper()
	if math.Abs(got-want) > 1e-9 {
		tb.Fatalf("got %v, want %v", got, want)
	}
}

func TestCompletionRate(t *testing.T) {
	st := &domain.RoadmapStatistics{CompletionCount: 100, DropoutCount: 50}
	approx(t, CompletionRate(st), 100.0/150.0)
	approx(t, DropoutRate(st), 50.0/150.0)
}

func TestCompletionRateEmptyDenominator(t *testing.T) {
	st := &domain.RoadmapStatistics{}
	approx(t, CompletionRate(st), 0)
	approx(t, DropoutRate(st), 1)
}

func TestEfficiencyRateZeroHours(t *testing.T) {
	st := &domain.RoadmapStatistics{AvgNodesCompleted: 5}
	// Zero hours must not blow up; the guard divides by 1 instead.
	approx(t, EfficiencyRate(st), 5)
}

func TestEngagementScore(t *testing.T) {
	st := &domain.RoadmapStatistics{BookmarkCount: 80, UsefulnessScore: 4.0}
	approx(t, EngagementScore(st), 320)
}

func TestCompositeScore(t *testing.T) {
	st := &domain.RoadmapStatistics{
		CompletionCount:   100,
		DropoutCount:      50,
		AvgHoursSpent:     10,
		AvgNodesCompleted: 5,
		BookmarkCount:     80,
		UsefulnessScore:   4.0,
	}
	// 0.666667*0.4 + 0.8*0.3 + 0.05*0.2 + 0.4*0.1
	want := (100.0/150.0)*CompletionWeight +
		(4.0/UsefulnessScale)*UsefulnessWeight +
		(5.0/10.0/EfficiencyNormalizer)*EfficiencyWeight +
		(80.0/BookmarkNormalizer)*BookmarkWeight
	approx(t, CompositeScore(st), want)
	approx(t, CompositeScore(st), 0.5566666666666666)
}

func TestCompositeScoreTermCaps(t *testing.T) {
	st := &domain.RoadmapStatistics{
		CompletionCount:   10,
		AvgHoursSpent:     1,
		AvgNodesCompleted: 500,
		BookmarkCount:     100000,
		UsefulnessScore:   5,
	}
	// Efficiency and bookmark terms cap at 1.0 each.
	want := 1.0*CompletionWeight + 1.0*UsefulnessWeight + TermCap*EfficiencyWeight + TermCap*BookmarkWeight
	approx(t, CompositeScore(st), want)
}

func TestCompositeScoreDeterministic(t *testing.T) {
	st := &domain.RoadmapStatistics{
		CompletionCount:   7,
		DropoutCount:      3,
		AvgHoursSpent:     4.5,
		AvgNodesCompleted: 12,
		BookmarkCount:     33,
		UsefulnessScore:   3.7,
	}
	first := CompositeScore(st)
	for i := 0; i < 100; i++ {
		approx(t, CompositeScore(st), first)
	}
}
