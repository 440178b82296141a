package orientation

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/alzheon/backend/internal/models"
)

// SQLStore persists each daily test as one row with the question map
// as a JSONB document. Submissions are whole-document writes, so two
// near-simultaneous answers for the same test are last-writer-wins.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const testColumns = `id, patient_id, test_date, questions, completed, started_at,
	finished_at, duration_minutes, score, correct_count, incorrect_count,
	total_count, problem_areas, notes`

func (s *SQLStore) FindTestByDate(patientID int64, day time.Time) (*models.DailyTest, error) {
	row := s.db.QueryRow(
		fmt.Sprintf(`SELECT %s FROM orientation_tests WHERE patient_id = $1 AND test_date = $2`, testColumns),
		patientID, day.Format("2006-01-02"),
	)
	test, err := scanTest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find test by date: %w", err)
	}
	return test, nil
}

func (s *SQLStore) SaveTest(t *models.DailyTest) error {
	questions, err := json.Marshal(t.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	areas := make([]string, len(t.ProblemAreas))
	for i, a := range t.ProblemAreas {
		areas[i] = string(a)
	}

	if t.ID == 0 {
		err = s.db.QueryRow(
			`INSERT INTO orientation_tests
			 (patient_id, test_date, questions, completed, started_at, finished_at,
			  duration_minutes, score, correct_count, incorrect_count, total_count,
			  problem_areas, notes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 RETURNING id`,
			t.PatientID, t.TestDate.Format("2006-01-02"), questions, t.Completed,
			t.StartedAt, t.FinishedAt, t.DurationMinutes, t.Score, t.CorrectCount,
			t.IncorrectCount, t.TotalCount, pq.Array(areas), t.Notes,
		).Scan(&t.ID)
		if err != nil {
			return fmt.Errorf("insert test: %w", err)
		}
		return nil
	}

	_, err = s.db.Exec(
		`UPDATE orientation_tests
		 SET questions = $1, completed = $2, finished_at = $3, duration_minutes = $4,
		     score = $5, correct_count = $6, incorrect_count = $7, total_count = $8,
		     problem_areas = $9, updated_at = NOW()
		 WHERE id = $10`,
		questions, t.Completed, t.FinishedAt, t.DurationMinutes, t.Score,
		t.CorrectCount, t.IncorrectCount, t.TotalCount, pq.Array(areas), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update test: %w", err)
	}
	return nil
}

func (s *SQLStore) DeleteTestByDate(patientID int64, day time.Time) error {
	_, err := s.db.Exec(
		`DELETE FROM orientation_tests WHERE patient_id = $1 AND test_date = $2`,
		patientID, day.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("delete test: %w", err)
	}
	return nil
}

func (s *SQLStore) FindHistory(patientID int64, since time.Time) ([]models.DailyTest, error) {
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT %s FROM orientation_tests
		 WHERE patient_id = $1 AND test_date >= $2
		 ORDER BY test_date DESC`, testColumns),
		patientID, since.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}
	defer rows.Close()

	var history []models.DailyTest
	for rows.Next() {
		test, err := scanTest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		history = append(history, *test)
	}
	return history, rows.Err()
}

func (s *SQLStore) FindCompletedTest(patientID, testID int64) (*models.DailyTest, error) {
	row := s.db.QueryRow(
		fmt.Sprintf(`SELECT %s FROM orientation_tests
		 WHERE id = $1 AND patient_id = $2 AND completed = TRUE`, testColumns),
		testID, patientID,
	)
	test, err := scanTest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find completed test: %w", err)
	}
	return test, nil
}

func (s *SQLStore) UpdateNotes(testID int64, notes string) error {
	_, err := s.db.Exec(
		`UPDATE orientation_tests SET notes = $1, updated_at = NOW() WHERE id = $2`,
		notes, testID,
	)
	if err != nil {
		return fmt.Errorf("update notes: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTest(row rowScanner) (*models.DailyTest, error) {
	var t models.DailyTest
	var questions []byte
	var areas pq.StringArray

	err := row.Scan(&t.ID, &t.PatientID, &t.TestDate, &questions, &t.Completed,
		&t.StartedAt, &t.FinishedAt, &t.DurationMinutes, &t.Score, &t.CorrectCount,
		&t.IncorrectCount, &t.TotalCount, &areas, &t.Notes)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(questions, &t.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}

	t.ProblemAreas = make([]models.ProblemArea, len(areas))
	for i, a := range areas {
		t.ProblemAreas[i] = models.ProblemArea(a)
	}
	return &t, nil
}
