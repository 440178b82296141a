package orientation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alzheon/backend/internal/models"
)

// Question templates use the Spanish locale of the deployment; Go's
// time package has no localized names, so the tables live here.

var weekdayNames = [7]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

var monthNames = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var questionPrompts = map[models.QuestionKey]string{
	models.KeyDayOfWeek:     "¿Qué día de la semana es hoy?",
	models.KeyFullDate:      "¿Cuál es la fecha de hoy? (día, mes, año)",
	models.KeyMonth:         "¿En qué mes estamos?",
	models.KeyYear:          "¿En qué año estamos?",
	models.KeyHour:          "¿Qué hora es aproximadamente?",
	models.KeyCity:          "¿En qué ciudad estamos?",
	models.KeyCountry:       "¿En qué país estamos?",
	models.KeySpecificPlace: "¿En qué lugar específico estamos? (por ejemplo: hogar, hospital, oficina)",
}

// GenerateQuestions builds the eight daily questions with their correct
// answers fixed at the instant of generation. A test generated at 23:59
// keeps that hour as correct even when answered after midnight.
func GenerateQuestions(now time.Time, loc models.LocationConfig) map[models.QuestionKey]*models.Question {
	weekday := weekdayNames[int(now.Weekday())]
	month := monthNames[int(now.Month())-1]
	fullDate := fmt.Sprintf("%d de %s de %d", now.Day(), month, now.Year())

	answers := map[models.QuestionKey]string{
		models.KeyDayOfWeek:     Normalize(weekday),
		models.KeyFullDate:      Normalize(fullDate),
		models.KeyMonth:         Normalize(month),
		models.KeyYear:          strconv.Itoa(now.Year()),
		models.KeyHour:          strconv.Itoa(now.Hour()),
		models.KeyCity:          Normalize(loc.City),
		models.KeyCountry:       Normalize(loc.Country),
		models.KeySpecificPlace: Normalize(loc.SpecificPlace),
	}

	questions := make(map[models.QuestionKey]*models.Question, len(models.AllQuestionKeys))
	for _, key := range models.AllQuestionKeys {
		questions[key] = &models.Question{
			Prompt:        questionPrompts[key],
			CorrectAnswer: answers[key],
			Correctness:   models.CorrectnessUndetermined,
		}
	}
	return questions
}
