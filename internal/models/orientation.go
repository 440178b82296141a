package models

import "time"

// ── Question Keys ───────────────────────────────────────

type QuestionKey string

const (
	KeyDayOfWeek     QuestionKey = "day_of_week"
	KeyFullDate      QuestionKey = "full_date"
	KeyMonth         QuestionKey = "month"
	KeyYear          QuestionKey = "year"
	KeyHour          QuestionKey = "hour"
	KeyCity          QuestionKey = "city"
	KeyCountry       QuestionKey = "country"
	KeySpecificPlace QuestionKey = "specific_place"
)

// AllQuestionKeys lists the fixed question set in display order.
var AllQuestionKeys = []QuestionKey{
	KeyDayOfWeek,
	KeyFullDate,
	KeyMonth,
	KeyYear,
	KeyHour,
	KeyCity,
	KeyCountry,
	KeySpecificPlace,
}

var ValidQuestionKeys = map[QuestionKey]bool{
	KeyDayOfWeek:     true,
	KeyFullDate:      true,
	KeyMonth:         true,
	KeyYear:          true,
	KeyHour:          true,
	KeyCity:          true,
	KeyCountry:       true,
	KeySpecificPlace: true,
}

// TemporalKeys and SpatialKeys partition the keys used for problem-area
// classification. The hour question belongs to neither group.
var TemporalKeys = []QuestionKey{KeyDayOfWeek, KeyFullDate, KeyMonth, KeyYear}

var SpatialKeys = []QuestionKey{KeyCity, KeyCountry, KeySpecificPlace}

// ── Correctness ─────────────────────────────────────────

// Correctness is tri-state: a question starts undetermined, becomes
// correct permanently on the first correct answer, and is incorrect
// only while no correct answer has ever been seen.
type Correctness string

const (
	CorrectnessUndetermined Correctness = "undetermined"
	CorrectnessCorrect      Correctness = "correct"
	CorrectnessIncorrect    Correctness = "incorrect"
)

func (c Correctness) IsCorrect() bool {
	return c == CorrectnessCorrect
}

type ProblemArea string

const (
	AreaTemporal ProblemArea = "temporal"
	AreaSpatial  ProblemArea = "spatial"
)

type Trend string

const (
	TrendImproved Trend = "improved"
	TrendDeclined Trend = "declined"
	TrendStable   Trend = "stable"
	TrendNoData   Trend = "no data"
)

// ── Core Structs ────────────────────────────────────────

type Question struct {
	Prompt        string      `json:"prompt"`
	CorrectAnswer string      `json:"correct_answer"`
	UserAnswer    *string     `json:"user_answer"`
	Correctness   Correctness `json:"correctness"`
	Attempts      int         `json:"attempts"`
}

// DailyTest is one patient's orientation test for one calendar day.
// (patient_id, test_date) is the natural key.
type DailyTest struct {
	ID              int64                     `json:"id"`
	PatientID       int64                     `json:"patient_id"`
	TestDate        time.Time                 `json:"test_date"`
	Questions       map[QuestionKey]*Question `json:"questions"`
	Completed       bool                      `json:"completed"`
	StartedAt       time.Time                 `json:"started_at"`
	FinishedAt      *time.Time                `json:"finished_at,omitempty"`
	DurationMinutes *int                      `json:"duration_minutes,omitempty"`
	Score           int                       `json:"score"`
	CorrectCount    int                       `json:"correct_count"`
	IncorrectCount  int                       `json:"incorrect_count"`
	TotalCount      int                       `json:"total_count"`
	ProblemAreas    []ProblemArea             `json:"problem_areas"`
	Notes           string                    `json:"notes,omitempty"`
}

// LocationConfig supplies the correct answers for the spatial questions.
type LocationConfig struct {
	City          string
	Country       string
	SpecificPlace string
}

// ── Patient-Facing Views ────────────────────────────────
//
// Patients taking the test must never see correct answers, and
// per-question correctness and score fields are only served once the
// test is completed.

type QuestionView struct {
	Prompt      string       `json:"prompt"`
	UserAnswer  *string      `json:"user_answer"`
	Correctness *Correctness `json:"correctness,omitempty"`
	Attempts    int          `json:"attempts"`
}

type PatientTestView struct {
	ID           int64                        `json:"id"`
	TestDate     time.Time                    `json:"test_date"`
	Questions    map[QuestionKey]QuestionView `json:"questions"`
	Completed    bool                         `json:"completed"`
	Score        *int                         `json:"score,omitempty"`
	CorrectCount *int                         `json:"correct_count,omitempty"`
	ProblemAreas []ProblemArea                `json:"problem_areas,omitempty"`
}

// PatientView strips correct answers and, until completion, the
// derived score fields.
func (t *DailyTest) PatientView() PatientTestView {
	view := PatientTestView{
		ID:        t.ID,
		TestDate:  t.TestDate,
		Questions: make(map[QuestionKey]QuestionView, len(t.Questions)),
		Completed: t.Completed,
	}

	for key, q := range t.Questions {
		view.Questions[key] = q.View(t.Completed)
	}

	if t.Completed {
		score := t.Score
		correct := t.CorrectCount
		view.Score = &score
		view.CorrectCount = &correct
		view.ProblemAreas = t.ProblemAreas
	}

	return view
}

func (q *Question) View(completed bool) QuestionView {
	view := QuestionView{
		Prompt:     q.Prompt,
		UserAnswer: q.UserAnswer,
		Attempts:   q.Attempts,
	}
	if completed {
		c := q.Correctness
		view.Correctness = &c
	}
	return view
}

// ── Request Types ───────────────────────────────────────

type SubmitAnswerRequest struct {
	QuestionKey QuestionKey `json:"question_key"`
	Answer      string      `json:"answer"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// ── Response Types ──────────────────────────────────────

type SubmitAnswerResponse struct {
	Correct      bool          `json:"correct"`
	Question     QuestionView  `json:"question"`
	Completed    bool          `json:"completed"`
	Score        *int          `json:"score,omitempty"`
	ProblemAreas []ProblemArea `json:"problem_areas,omitempty"`
}

type HistoryEntry struct {
	ID              int64         `json:"id"`
	TestDate        time.Time     `json:"test_date"`
	Score           int           `json:"score"`
	CorrectCount    int           `json:"correct_count"`
	IncorrectCount  int           `json:"incorrect_count"`
	TotalCount      int           `json:"total_count"`
	Completed       bool          `json:"completed"`
	DurationMinutes *int          `json:"duration_minutes,omitempty"`
	ProblemAreas    []ProblemArea `json:"problem_areas"`
}

// HistoryEntry reduces a test to the summary row served in history
// listings (no per-question detail, no correct answers).
func (t *DailyTest) HistoryEntry() HistoryEntry {
	return HistoryEntry{
		ID:              t.ID,
		TestDate:        t.TestDate,
		Score:           t.Score,
		CorrectCount:    t.CorrectCount,
		IncorrectCount:  t.IncorrectCount,
		TotalCount:      t.TotalCount,
		Completed:       t.Completed,
		DurationMinutes: t.DurationMinutes,
		ProblemAreas:    t.ProblemAreas,
	}
}

type ProblemAreaCount struct {
	Area      ProblemArea `json:"area"`
	Frequency int         `json:"frequency"`
}

type OrientationStats struct {
	TotalTests         int                `json:"total_tests"`
	CompletedTests     int                `json:"completed_tests"`
	AverageScore       int                `json:"average_score"`
	MinScore           int                `json:"min_score"`
	MaxScore           int                `json:"max_score"`
	CommonProblemAreas []ProblemAreaCount `json:"common_problem_areas"`
	Trend              Trend              `json:"trend"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
	Model   string `json:"model"`
}
