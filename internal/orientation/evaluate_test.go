package orientation

import (
	"testing"

	"github.com/alzheon/backend/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Bogotá", "bogota"},
		{"bogota", "bogota"},
		{"  BOGOTA ", "bogota"},
		{"Miércoles", "miercoles"},
		{"SÁBADO", "sabado"},
		{"año", "ano"},
		{"", ""},
		{"   ", ""},
		{"14 de Marzo de 2025", "14 de marzo de 2025"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Bogotá", "  Miércoles  ", "HOGAR", "14 de marzo de 2025", "¿qué?"}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestCheckAnswer_HourTolerance(t *testing.T) {
	tests := []struct {
		submitted string
		want      bool
	}{
		{"13", true},
		{"14", true},
		{"15", true},
		{"12", false},
		{"16", false},
		{"14:30", true}, // leading digits parse
		{"las tres", false},
		{"", false},
	}

	for _, tt := range tests {
		got := CheckAnswer(models.KeyHour, tt.submitted, "14")
		if got != tt.want {
			t.Errorf("CheckAnswer(hour, %q, 14) = %v, want %v", tt.submitted, got, tt.want)
		}
	}
}

func TestCheckAnswer_FullDate(t *testing.T) {
	correct := "14 de marzo de 2025"

	// The correct answer's digit runs concatenate to "142025"; the
	// month is a word, so it contributes no digits.
	tests := []struct {
		submitted string
		want      bool
	}{
		{"14 de marzo de 2025", true},
		{"el 14 de marzo del 2025", true},
		{"marzo 14, 2025", true},
		{"14 2025", true},
		{"15 de marzo de 2025", false},
		{"2025-03-14", false}, // numeric month changes the digit sequence
		{"14 03 2025", false},
		{"14 de abril de 2025", true}, // month word ignored by the heuristic
	}

	for _, tt := range tests {
		got := CheckAnswer(models.KeyFullDate, tt.submitted, correct)
		if got != tt.want {
			t.Errorf("CheckAnswer(full_date, %q) = %v, want %v", tt.submitted, got, tt.want)
		}
	}
}

func TestCheckAnswer_ExactKeys(t *testing.T) {
	tests := []struct {
		key       models.QuestionKey
		submitted string
		correct   string
		want      bool
	}{
		{models.KeyCity, "Bogotá", "bogota", true},
		{models.KeyCity, "  BOGOTA ", "bogota", true},
		{models.KeyCity, "medellin", "bogota", false},
		{models.KeyCountry, "Colombia", "colombia", true},
		{models.KeyDayOfWeek, "Miércoles", "miercoles", true},
		{models.KeyYear, "2025", "2025", true},
		{models.KeyYear, "2024", "2025", false},
		{models.KeySpecificPlace, "Hogar", "hogar", true},
	}

	for _, tt := range tests {
		got := CheckAnswer(tt.key, tt.submitted, tt.correct)
		if got != tt.want {
			t.Errorf("CheckAnswer(%s, %q, %q) = %v, want %v", tt.key, tt.submitted, tt.correct, got, tt.want)
		}
	}
}

func TestApply_CorrectnessMonotone(t *testing.T) {
	q := &models.Question{Correctness: models.CorrectnessUndetermined}

	Apply(q, "wrong", false)
	if q.Correctness != models.CorrectnessIncorrect {
		t.Fatalf("after wrong answer: correctness = %s, want incorrect", q.Correctness)
	}
	if q.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", q.Attempts)
	}

	Apply(q, "right", true)
	if q.Correctness != models.CorrectnessCorrect {
		t.Fatalf("after correct answer: correctness = %s, want correct", q.Correctness)
	}

	// A later wrong submission must not flip it back.
	Apply(q, "wrong again", false)
	if q.Correctness != models.CorrectnessCorrect {
		t.Errorf("after wrong resubmission: correctness = %s, want correct (sticky)", q.Correctness)
	}
	if q.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", q.Attempts)
	}
	if q.UserAnswer == nil || *q.UserAnswer != "wrong again" {
		t.Errorf("user answer not overwritten: %v", q.UserAnswer)
	}
}

func TestApply_RepeatedWrongAnswers(t *testing.T) {
	q := &models.Question{Correctness: models.CorrectnessUndetermined}

	Apply(q, "wrong 1", false)
	Apply(q, "wrong 2", false)

	if q.Correctness != models.CorrectnessIncorrect {
		t.Errorf("correctness = %s, want incorrect", q.Correctness)
	}
	if q.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", q.Attempts)
	}
}
