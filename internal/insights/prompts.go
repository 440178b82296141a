package insights

import (
	"fmt"
	"strings"

	"github.com/alzheon/backend/internal/models"
)

func SummarySystemPrompt() string {
	return `You are a clinical assistant summarizing daily cognitive-orientation test results for the treating clinician.

The patient answers eight questions each day about time (day of week, date, month, year, hour) and place (city, country, specific location). Each completed test yields a 0-100 score and problem-area tags: "temporal" when any time question was missed, "spatial" when any place question was missed.

Write a short progress note (3-5 sentences) in plain clinical language:
- Describe the overall score level and the trend across the window.
- Name the problem areas that recur, if any.
- Do not diagnose. Do not recommend medication. Observations only.
- Respond with the note text only, no headers and no markdown.`
}

func BuildSummaryPrompt(days int, stats models.OrientationStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Window: last %d days\n", days)
	fmt.Fprintf(&b, "Tests recorded: %d (completed: %d)\n", stats.TotalTests, stats.CompletedTests)
	fmt.Fprintf(&b, "Average score: %d\n", stats.AverageScore)
	fmt.Fprintf(&b, "Score range: %d-%d\n", stats.MinScore, stats.MaxScore)
	fmt.Fprintf(&b, "Trend: %s\n", stats.Trend)

	if len(stats.CommonProblemAreas) == 0 {
		b.WriteString("Problem areas: none\n")
	} else {
		b.WriteString("Problem areas:\n")
		for _, area := range stats.CommonProblemAreas {
			fmt.Fprintf(&b, "- %s: %d of %d completed tests\n", area.Area, area.Frequency, stats.CompletedTests)
		}
	}

	b.WriteString("\nWrite the progress note.")
	return b.String()
}
