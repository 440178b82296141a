package orientation

import (
	"math"
	"sort"

	"github.com/alzheon/backend/internal/models"
)

// ComputeStatistics aggregates a history window (newest first, as the
// store returns it) into trend data for clinicians. Only completed
// tests contribute to score statistics.
func ComputeStatistics(history []models.DailyTest) models.OrientationStats {
	stats := models.OrientationStats{
		TotalTests:         len(history),
		CommonProblemAreas: []models.ProblemAreaCount{},
		Trend:              models.TrendNoData,
	}

	if len(history) == 0 {
		return stats
	}

	// Completed scores in chronological order (input is newest first).
	var scores []int
	areaCounts := map[models.ProblemArea]int{}
	for i := len(history) - 1; i >= 0; i-- {
		t := history[i]
		if !t.Completed {
			continue
		}
		scores = append(scores, t.Score)
		for _, area := range t.ProblemAreas {
			areaCounts[area]++
		}
	}

	stats.CompletedTests = len(scores)
	stats.Trend = models.TrendStable

	if len(scores) > 0 {
		stats.AverageScore = roundedMean(scores)
		stats.MinScore = scores[0]
		stats.MaxScore = scores[0]
		for _, s := range scores[1:] {
			if s < stats.MinScore {
				stats.MinScore = s
			}
			if s > stats.MaxScore {
				stats.MaxScore = s
			}
		}
	}

	for area, count := range areaCounts {
		stats.CommonProblemAreas = append(stats.CommonProblemAreas, models.ProblemAreaCount{
			Area:      area,
			Frequency: count,
		})
	}
	sort.SliceStable(stats.CommonProblemAreas, func(i, j int) bool {
		a, b := stats.CommonProblemAreas[i], stats.CommonProblemAreas[j]
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		return a.Area < b.Area
	})

	// Trend: compare the mean of the older half against the newer half.
	// Needs at least two completed tests to move off stable.
	if len(scores) >= 2 {
		half := len(scores) / 2
		older := mean(scores[:half])
		newer := mean(scores[half:])
		switch {
		case newer > older+5:
			stats.Trend = models.TrendImproved
		case newer < older-5:
			stats.Trend = models.TrendDeclined
		}
	}

	return stats
}

func roundedMean(values []int) int {
	return int(math.Round(mean(values)))
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
