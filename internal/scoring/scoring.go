// Package scoring holds the pure recommendation-score formulas. It is
// deliberately free of persistence concerns so the numbers stay
// deterministic and trivially testable.
package scoring

import (
	"github.com/yungbote/roadmaphub-backend/internal/domain"
)

// Composite-score weights and normalizers. The /10 and /200 normalizers
// were calibrated against the observed data distribution; changing them
// changes every published score, so treat them as frozen pending a
// product-side rescale.
const (
	CompletionWeight = 0.4
	UsefulnessWeight = 0.3
	EfficiencyWeight = 0.2
	BookmarkWeight   = 0.1

	UsefulnessScale      = 5.0
	EfficiencyNormalizer = 10.0
	BookmarkNormalizer   = 200.0

	// Each normalized term caps at 1.0; the composite itself is not
	// clamped, so outliers can score above 1.0.
	TermCap = 1.0
)

// CompletionRate is completions over total outcomes, guarded against an
// empty denominator.
func CompletionRate(st *domain.RoadmapStatistics) float64 {
	total := st.CompletionCount + st.DropoutCount
	return float64(st.CompletionCount) / maxFloat(1, float64(total))
}

func DropoutRate(st *domain.RoadmapStatistics) float64 {
	return 1 - CompletionRate(st)
}

// EfficiencyRate is average nodes completed per hour spent. avg_hours_spent
// of zero must not divide by zero, hence the max(1, …) guard.
func EfficiencyRate(st *domain.RoadmapStatistics) float64 {
	return st.AvgNodesCompleted / maxFloat(1, st.AvgHoursSpent)
}

func EngagementScore(st *domain.RoadmapStatistics) float64 {
	return float64(st.BookmarkCount) * st.UsefulnessScore
}

// CompositeScore is the weighted blend used to rank roadmaps:
// completion 40%, usefulness 30%, efficiency 20%, bookmarks 10%.
func CompositeScore(st *domain.RoadmapStatistics) float64 {
	completion := CompletionRate(st)
	usefulness := st.UsefulnessScore / UsefulnessScale
	efficiency := minFloat(EfficiencyRate(st)/EfficiencyNormalizer, TermCap)
	bookmarks := minFloat(float64(st.BookmarkCount)/BookmarkNormalizer, TermCap)

	return completion*CompletionWeight +
		usefulness*UsefulnessWeight +
		efficiency*EfficiencyWeight +
		bookmarks*BookmarkWeight
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
