package orientation

import (
	"math"

	"github.com/alzheon/backend/internal/models"
)

// ScoreTest recomputes the derived score fields from the current
// question map. Called once, when the test completes.
func ScoreTest(t *models.DailyTest) {
	total := len(t.Questions)
	correct := 0
	for _, q := range t.Questions {
		if q.Correctness.IsCorrect() {
			correct++
		}
	}

	t.TotalCount = total
	t.CorrectCount = correct
	t.IncorrectCount = total - correct
	if total == 0 {
		t.Score = 0
	} else {
		t.Score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	t.ProblemAreas = classifyProblemAreas(t.Questions)
}

// classifyProblemAreas tags the test with "temporal" and/or "spatial"
// when any question in the group is not correct. The hour question
// contributes to neither group.
func classifyProblemAreas(questions map[models.QuestionKey]*models.Question) []models.ProblemArea {
	areas := []models.ProblemArea{}
	if groupHasFailure(questions, models.TemporalKeys) {
		areas = append(areas, models.AreaTemporal)
	}
	if groupHasFailure(questions, models.SpatialKeys) {
		areas = append(areas, models.AreaSpatial)
	}
	return areas
}

func groupHasFailure(questions map[models.QuestionKey]*models.Question, keys []models.QuestionKey) bool {
	for _, key := range keys {
		q, ok := questions[key]
		if !ok || !q.Correctness.IsCorrect() {
			return true
		}
	}
	return false
}
