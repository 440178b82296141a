package orientation

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/alzheon/backend/internal/models"
)

var (
	// ErrInvalidQuestionKey means the submitted key is not one of the
	// eight fixed questions.
	ErrInvalidQuestionKey = errors.New("invalid question key")

	// ErrNoActiveTest means no test exists for today.
	ErrNoActiveTest = errors.New("no active test for today")

	// ErrTestNotFound means the requested test does not exist or is
	// not yet completed.
	ErrTestNotFound = errors.New("test not found")
)

// Store is the persistence collaborator. FindTestByDate and
// FindCompletedTest return (nil, nil) when nothing matches.
type Store interface {
	FindTestByDate(patientID int64, day time.Time) (*models.DailyTest, error)
	SaveTest(t *models.DailyTest) error
	DeleteTestByDate(patientID int64, day time.Time) error
	FindHistory(patientID int64, since time.Time) ([]models.DailyTest, error)
	FindCompletedTest(patientID, testID int64) (*models.DailyTest, error)
	UpdateNotes(testID int64, notes string) error
}

type Service struct {
	store    Store
	clock    Clock
	location models.LocationConfig
}

func NewService(store Store, clock Clock) *Service {
	location := models.LocationConfig{
		City:          getEnv("DEFAULT_CITY", "desconocida"),
		Country:       getEnv("DEFAULT_COUNTRY", "colombia"),
		SpecificPlace: getEnv("DEFAULT_PLACE", "hogar"),
	}
	log.Printf("[orientation] location config: city=%q country=%q place=%q",
		location.City, location.Country, location.SpecificPlace)
	return &Service{store: store, clock: clock, location: location}
}

// GetTodayTest returns today's test for the patient, creating it
// lazily on first access.
func (s *Service) GetTodayTest(patientID int64) (*models.DailyTest, error) {
	now := s.clock.Now()
	test, err := s.store.FindTestByDate(patientID, DayStart(now))
	if err != nil {
		return nil, fmt.Errorf("find today's test: %w", err)
	}
	if test != nil {
		return test, nil
	}

	test = &models.DailyTest{
		PatientID:    patientID,
		TestDate:     DayStart(now),
		Questions:    GenerateQuestions(now, s.location),
		StartedAt:    now,
		ProblemAreas: []models.ProblemArea{},
	}
	if err := s.store.SaveTest(test); err != nil {
		return nil, fmt.Errorf("create today's test: %w", err)
	}
	return test, nil
}

// SubmitAnswer grades one answer against today's test and persists the
// updated document. Completing the last unanswered question fixes
// FinishedAt and DurationMinutes and runs the scorer, exactly once.
func (s *Service) SubmitAnswer(patientID int64, key models.QuestionKey, rawAnswer string) (*models.SubmitAnswerResponse, error) {
	if !models.ValidQuestionKeys[key] {
		return nil, ErrInvalidQuestionKey
	}

	now := s.clock.Now()
	test, err := s.store.FindTestByDate(patientID, DayStart(now))
	if err != nil {
		return nil, fmt.Errorf("find today's test: %w", err)
	}
	if test == nil {
		return nil, ErrNoActiveTest
	}

	question, ok := test.Questions[key]
	if !ok {
		return nil, ErrInvalidQuestionKey
	}

	correctNow := CheckAnswer(key, rawAnswer, question.CorrectAnswer)
	Apply(question, rawAnswer, correctNow)

	if !test.Completed && allAnswered(test) {
		test.Completed = true
		finished := now
		test.FinishedAt = &finished
		duration := int(math.Round(finished.Sub(test.StartedAt).Minutes()))
		test.DurationMinutes = &duration
		ScoreTest(test)
	}

	if err := s.store.SaveTest(test); err != nil {
		return nil, fmt.Errorf("save test: %w", err)
	}

	resp := &models.SubmitAnswerResponse{
		Correct:   correctNow,
		Question:  question.View(test.Completed),
		Completed: test.Completed,
	}
	if test.Completed {
		score := test.Score
		resp.Score = &score
		resp.ProblemAreas = test.ProblemAreas
	}
	return resp, nil
}

func allAnswered(test *models.DailyTest) bool {
	for _, q := range test.Questions {
		if q.UserAnswer == nil {
			return false
		}
	}
	return true
}

// GetHistory returns the patient's tests over the last `days` days,
// newest first.
func (s *Service) GetHistory(patientID int64, days int) ([]models.DailyTest, error) {
	if days <= 0 {
		days = 30
	}
	since := DayStart(s.clock.Now()).AddDate(0, 0, -days)
	history, err := s.store.FindHistory(patientID, since)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}
	return history, nil
}

// GetStatistics aggregates the history window into trend data.
func (s *Service) GetStatistics(patientID int64, days int) (*models.OrientationStats, error) {
	history, err := s.GetHistory(patientID, days)
	if err != nil {
		return nil, err
	}
	stats := ComputeStatistics(history)
	return &stats, nil
}

// GetCompletedTest returns one completed test for review.
func (s *Service) GetCompletedTest(patientID, testID int64) (*models.DailyTest, error) {
	test, err := s.store.FindCompletedTest(patientID, testID)
	if err != nil {
		return nil, fmt.Errorf("find completed test: %w", err)
	}
	if test == nil {
		return nil, ErrTestNotFound
	}
	return test, nil
}

// ResetTodayTest deletes today's test and materializes a fresh one.
// Only today's test can ever be reset.
func (s *Service) ResetTodayTest(patientID int64) (*models.DailyTest, error) {
	if err := s.store.DeleteTestByDate(patientID, DayStart(s.clock.Now())); err != nil {
		return nil, fmt.Errorf("delete today's test: %w", err)
	}
	return s.GetTodayTest(patientID)
}

// UpdateNotes stores a clinician's free-text annotation on a completed
// test.
func (s *Service) UpdateNotes(patientID, testID int64, notes string) error {
	test, err := s.store.FindCompletedTest(patientID, testID)
	if err != nil {
		return fmt.Errorf("find completed test: %w", err)
	}
	if test == nil {
		return ErrTestNotFound
	}
	if err := s.store.UpdateNotes(testID, notes); err != nil {
		return fmt.Errorf("update notes: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
