package orientation

import (
	"errors"
	"testing"
	"time"

	"github.com/alzheon/backend/internal/models"
)

// ── Fakes ───────────────────────────────────────────────

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fakeStore struct {
	tests  map[int64]*models.DailyTest
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{tests: map[int64]*models.DailyTest{}, nextID: 1}
}

func (s *fakeStore) FindTestByDate(patientID int64, day time.Time) (*models.DailyTest, error) {
	for _, t := range s.tests {
		if t.PatientID == patientID && t.TestDate.Equal(day) {
			return t, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) SaveTest(t *models.DailyTest) error {
	if t.ID == 0 {
		t.ID = s.nextID
		s.nextID++
	}
	s.tests[t.ID] = t
	return nil
}

func (s *fakeStore) DeleteTestByDate(patientID int64, day time.Time) error {
	for id, t := range s.tests {
		if t.PatientID == patientID && t.TestDate.Equal(day) {
			delete(s.tests, id)
		}
	}
	return nil
}

func (s *fakeStore) FindHistory(patientID int64, since time.Time) ([]models.DailyTest, error) {
	var history []models.DailyTest
	for _, t := range s.tests {
		if t.PatientID == patientID && !t.TestDate.Before(since) {
			history = append(history, *t)
		}
	}
	return history, nil
}

func (s *fakeStore) FindCompletedTest(patientID, testID int64) (*models.DailyTest, error) {
	t, ok := s.tests[testID]
	if !ok || t.PatientID != patientID || !t.Completed {
		return nil, nil
	}
	return t, nil
}

func (s *fakeStore) UpdateNotes(testID int64, notes string) error {
	if t, ok := s.tests[testID]; ok {
		t.Notes = notes
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeClock) {
	t.Helper()
	t.Setenv("DEFAULT_CITY", "desconocida")
	t.Setenv("DEFAULT_COUNTRY", "colombia")
	t.Setenv("DEFAULT_PLACE", "hogar")
	store := newFakeStore()
	clock := &fakeClock{now: time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)}
	return NewService(store, clock), store, clock
}

// ── Tests ───────────────────────────────────────────────

func TestGetTodayTest_LazyCreate(t *testing.T) {
	service, store, _ := newTestService(t)

	test, err := service.GetTodayTest(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(test.Questions) != 8 {
		t.Errorf("got %d questions, want 8", len(test.Questions))
	}
	if test.Completed {
		t.Error("new test should not be completed")
	}
	if len(store.tests) != 1 {
		t.Errorf("store has %d tests, want 1", len(store.tests))
	}

	// Second access returns the same test, not a new one.
	again, err := service.GetTodayTest(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != test.ID {
		t.Errorf("second access created a new test: %d != %d", again.ID, test.ID)
	}
	if len(store.tests) != 1 {
		t.Errorf("store has %d tests, want 1", len(store.tests))
	}
}

func TestSubmitAnswer_NoActiveTest(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.SubmitAnswer(1, models.KeyYear, "2025")
	if !errors.Is(err, ErrNoActiveTest) {
		t.Errorf("error = %v, want ErrNoActiveTest", err)
	}
}

func TestSubmitAnswer_InvalidKey(t *testing.T) {
	service, _, _ := newTestService(t)
	if _, err := service.GetTodayTest(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := service.SubmitAnswer(1, models.QuestionKey("favorite_color"), "azul")
	if !errors.Is(err, ErrInvalidQuestionKey) {
		t.Errorf("error = %v, want ErrInvalidQuestionKey", err)
	}
}

func TestSubmitAnswer_GradesAgainstStoredAnswer(t *testing.T) {
	service, _, _ := newTestService(t)
	if _, err := service.GetTodayTest(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Generated at 2025-03-14 (Friday), 10:00.
	resp, err := service.SubmitAnswer(1, models.KeyDayOfWeek, "Viernes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Correct {
		t.Error("expected viernes to be correct")
	}
	if resp.Completed {
		t.Error("one answer should not complete the test")
	}
	if resp.Question.Correctness != nil {
		t.Error("correctness must not be served before completion")
	}

	resp, err = service.SubmitAnswer(1, models.KeyHour, "11")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Correct {
		t.Error("expected hour 11 to be within tolerance of 10")
	}
}

func TestSubmitAnswer_CompletionTrigger(t *testing.T) {
	service, store, clock := newTestService(t)
	test, err := service.GetTodayTest(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answers := map[models.QuestionKey]string{
		models.KeyDayOfWeek:     "viernes",
		models.KeyFullDate:      "14 de marzo de 2025",
		models.KeyMonth:         "marzo",
		models.KeyYear:          "2025",
		models.KeyHour:          "10",
		models.KeyCity:          "desconocida",
		models.KeyCountry:       "colombia",
		// last answer is wrong on purpose
		models.KeySpecificPlace: "oficina",
	}

	clock.Advance(7 * time.Minute)

	var last *models.SubmitAnswerResponse
	answered := 0
	for _, key := range models.AllQuestionKeys {
		resp, err := service.SubmitAnswer(1, key, answers[key])
		if err != nil {
			t.Fatalf("submit %s: %v", key, err)
		}
		answered++
		if answered < len(models.AllQuestionKeys) && resp.Completed {
			t.Fatalf("completed after %d answers", answered)
		}
		last = resp
	}

	if !last.Completed {
		t.Fatal("test should be completed after the final answer")
	}
	if last.Score == nil {
		t.Fatal("score should be served on completion")
	}
	// 7 of 8 correct: round(7/8*100) = 88.
	if *last.Score != 88 {
		t.Errorf("score = %d, want 88", *last.Score)
	}
	if len(last.ProblemAreas) != 1 || last.ProblemAreas[0] != models.AreaSpatial {
		t.Errorf("problem areas = %v, want [spatial]", last.ProblemAreas)
	}

	saved := store.tests[test.ID]
	if saved.FinishedAt == nil {
		t.Fatal("finished_at not set")
	}
	if !saved.FinishedAt.Equal(clock.now) {
		t.Errorf("finished_at = %v, want %v", saved.FinishedAt, clock.now)
	}
	if saved.DurationMinutes == nil || *saved.DurationMinutes != 7 {
		t.Errorf("duration = %v, want 7", saved.DurationMinutes)
	}
}

func TestSubmitAnswer_CompletionFixedOnce(t *testing.T) {
	service, store, clock := newTestService(t)
	test, err := service.GetTodayTest(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range models.AllQuestionKeys {
		if _, err := service.SubmitAnswer(1, key, "cualquier cosa"); err != nil {
			t.Fatalf("submit %s: %v", key, err)
		}
	}

	saved := store.tests[test.ID]
	finishedAt := *saved.FinishedAt
	score := saved.Score

	// A resubmission after completion must not move the finish time
	// or resurrect the score pipeline.
	clock.Advance(30 * time.Minute)
	resp, err := service.SubmitAnswer(1, models.KeyYear, "2025")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Completed {
		t.Error("test should stay completed")
	}
	if !saved.FinishedAt.Equal(finishedAt) {
		t.Errorf("finished_at moved: %v -> %v", finishedAt, saved.FinishedAt)
	}
	if saved.Score != score {
		// The stored score is frozen at the completion transition.
		t.Errorf("score changed after completion: %d -> %d", score, saved.Score)
	}
}

func TestResetTodayTest(t *testing.T) {
	service, store, _ := newTestService(t)
	original, err := service.GetTodayTest(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.SubmitAnswer(1, models.KeyYear, "1999"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fresh, err := service.ResetTodayTest(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.ID == original.ID {
		t.Error("reset should create a new test")
	}
	if q := fresh.Questions[models.KeyYear]; q.UserAnswer != nil || q.Attempts != 0 {
		t.Errorf("reset test not fresh: %+v", q)
	}
	if len(store.tests) != 1 {
		t.Errorf("store has %d tests, want 1", len(store.tests))
	}
}

func TestGetCompletedTest(t *testing.T) {
	service, _, _ := newTestService(t)
	test, err := service.GetTodayTest(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Not completed yet.
	if _, err := service.GetCompletedTest(1, test.ID); !errors.Is(err, ErrTestNotFound) {
		t.Errorf("error = %v, want ErrTestNotFound", err)
	}

	for _, key := range models.AllQuestionKeys {
		if _, err := service.SubmitAnswer(1, key, "x"); err != nil {
			t.Fatalf("submit %s: %v", key, err)
		}
	}

	got, err := service.GetCompletedTest(1, test.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Completed {
		t.Error("expected a completed test")
	}

	// Another patient cannot read it.
	if _, err := service.GetCompletedTest(2, test.ID); !errors.Is(err, ErrTestNotFound) {
		t.Errorf("error = %v, want ErrTestNotFound", err)
	}
}

func TestUpdateNotes(t *testing.T) {
	service, store, _ := newTestService(t)
	test, err := service.GetTodayTest(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := service.UpdateNotes(1, test.ID, "revisar"); !errors.Is(err, ErrTestNotFound) {
		t.Errorf("notes on incomplete test: error = %v, want ErrTestNotFound", err)
	}

	for _, key := range models.AllQuestionKeys {
		if _, err := service.SubmitAnswer(1, key, "x"); err != nil {
			t.Fatalf("submit %s: %v", key, err)
		}
	}

	if err := service.UpdateNotes(1, test.ID, "repite errores temporales"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.tests[test.ID].Notes != "repite errores temporales" {
		t.Errorf("notes = %q", store.tests[test.ID].Notes)
	}
}

func TestPatientView_HidesCorrectAnswers(t *testing.T) {
	service, _, _ := newTestService(t)
	test, err := service.GetTodayTest(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view := test.PatientView()
	if view.Score != nil || view.CorrectCount != nil {
		t.Error("score fields must not be served before completion")
	}
	for key, q := range view.Questions {
		if q.Correctness != nil {
			t.Errorf("question %s: correctness served before completion", key)
		}
		if q.Prompt == "" {
			t.Errorf("question %s: missing prompt", key)
		}
	}
}
