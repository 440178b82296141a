package orientation

import (
	"regexp"
	"strconv"

	"github.com/alzheon/backend/internal/models"
)

var digitRuns = regexp.MustCompile(`[0-9]+`)

// CheckAnswer compares a submitted answer against the stored correct
// answer using the tolerance rule for the question key. Both sides are
// normalized first.
func CheckAnswer(key models.QuestionKey, submitted, correct string) bool {
	sub := Normalize(submitted)
	corr := Normalize(correct)

	switch key {
	case models.KeyHour:
		// Adjacent hours count as correct; anything non-numeric does not.
		subHour, ok1 := parseLeadingInt(sub)
		corrHour, ok2 := parseLeadingInt(corr)
		if !ok1 || !ok2 {
			return false
		}
		diff := subHour - corrHour
		if diff < 0 {
			diff = -diff
		}
		return diff <= 1

	case models.KeyFullDate:
		// Digit-run comparison tolerates rephrasings of the stored
		// answer: "el 14 de marzo del 2025" and "marzo 14, 2025" both
		// reduce to "142025". A textual heuristic, not date parsing.
		return concatDigits(sub) == concatDigits(corr)

	default:
		return sub == corr
	}
}

// parseLeadingInt reads the leading digit run of s, so "14:30" parses
// as 14.
func parseLeadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func concatDigits(s string) string {
	joined := ""
	for _, run := range digitRuns.FindAllString(s, -1) {
		joined += run
	}
	return joined
}

// Apply records a graded submission on the question. Correctness is
// monotone: once correct it stays correct; incorrect is only recorded
// while still undetermined.
func Apply(q *models.Question, rawAnswer string, correctNow bool) {
	answer := rawAnswer
	q.UserAnswer = &answer
	q.Attempts++

	if correctNow && q.Correctness != models.CorrectnessCorrect {
		q.Correctness = models.CorrectnessCorrect
	} else if !correctNow && q.Correctness == models.CorrectnessUndetermined {
		q.Correctness = models.CorrectnessIncorrect
	}
}
