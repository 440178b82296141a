package orientation

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/alzheon/backend/internal/insights"
	"github.com/alzheon/backend/internal/models"
)

type Handler struct {
	service  *Service
	insights *insights.Generator
}

func NewHandler(service *Service, ins *insights.Generator) *Handler {
	return &Handler{service: service, insights: ins}
}

// RegisterRoutes registers the patient-facing endpoints on the
// protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/orientation/today", h.GetTodayTest).Methods("GET")
	protected.HandleFunc("/orientation/answers", h.SubmitAnswer).Methods("POST")
	protected.HandleFunc("/orientation/history", h.GetHistory).Methods("GET")
	protected.HandleFunc("/orientation/stats", h.GetStatistics).Methods("GET")
	protected.HandleFunc("/orientation/reset", h.ResetTodayTest).Methods("POST")
	protected.HandleFunc("/orientation/tests/{testID}", h.GetCompletedTest).Methods("GET")
}

// RegisterClinicianRoutes registers the clinician endpoints. The
// caller is expected to guard the subrouter with the clinician-role
// middleware.
func (h *Handler) RegisterClinicianRoutes(clinician *mux.Router) {
	clinician.HandleFunc("/patients/{patientID}/orientation/history", h.GetPatientHistory).Methods("GET")
	clinician.HandleFunc("/patients/{patientID}/orientation/stats", h.GetPatientStatistics).Methods("GET")
	clinician.HandleFunc("/patients/{patientID}/orientation/summary", h.GetPatientSummary).Methods("GET")
	clinician.HandleFunc("/patients/{patientID}/orientation/reset", h.ResetPatientTest).Methods("POST")
	clinician.HandleFunc("/patients/{patientID}/orientation/tests/{testID}/notes", h.UpdateNotes).Methods("PUT")
}

// getUserID extracts the authenticated user ID from the request context.
func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) GetTodayTest(w http.ResponseWriter, r *http.Request) {
	patientID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	test, err := h.service.GetTodayTest(patientID)
	if err != nil {
		log.Printf("[handler] GetTodayTest error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get today's test"})
		return
	}

	writeJSON(w, http.StatusOK, test.PatientView())
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	patientID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.QuestionKey == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question_key is required"})
		return
	}

	resp, err := h.service.SubmitAnswer(patientID, req.QuestionKey, req.Answer)
	if errors.Is(err, ErrInvalidQuestionKey) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question key"})
		return
	}
	if errors.Is(err, ErrNoActiveTest) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No test available for today"})
		return
	}
	if err != nil {
		log.Printf("[handler] SubmitAnswer error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to submit answer"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	patientID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	days := intQueryParam(r.URL.Query(), "days", 30)

	history, err := h.service.GetHistory(patientID, days)
	if err != nil {
		log.Printf("[handler] GetHistory error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get history"})
		return
	}

	entries := make([]models.HistoryEntry, 0, len(history))
	for _, t := range history {
		entries = append(entries, t.HistoryEntry())
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	patientID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	days := intQueryParam(r.URL.Query(), "days", 30)

	stats, err := h.service.GetStatistics(patientID, days)
	if err != nil {
		log.Printf("[handler] GetStatistics error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get statistics"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) ResetTodayTest(w http.ResponseWriter, r *http.Request) {
	patientID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	test, err := h.service.ResetTodayTest(patientID)
	if err != nil {
		log.Printf("[handler] ResetTodayTest error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to reset test"})
		return
	}

	writeJSON(w, http.StatusOK, test.PatientView())
}

func (h *Handler) GetCompletedTest(w http.ResponseWriter, r *http.Request) {
	patientID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	testID, err := strconv.ParseInt(mux.Vars(r)["testID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid test ID"})
		return
	}

	test, err := h.service.GetCompletedTest(patientID, testID)
	if errors.Is(err, ErrTestNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Test not found or not completed"})
		return
	}
	if err != nil {
		log.Printf("[handler] GetCompletedTest error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get test"})
		return
	}

	writeJSON(w, http.StatusOK, test)
}

// ── Clinician Handlers ──────────────────────────────────

func (h *Handler) GetPatientHistory(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.ParseInt(mux.Vars(r)["patientID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid patient ID"})
		return
	}

	days := intQueryParam(r.URL.Query(), "days", 30)

	history, err := h.service.GetHistory(patientID, days)
	if err != nil {
		log.Printf("[handler] GetPatientHistory error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get history"})
		return
	}

	if history == nil {
		history = []models.DailyTest{}
	}
	// Clinicians see full detail, correct answers included.
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) GetPatientStatistics(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.ParseInt(mux.Vars(r)["patientID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid patient ID"})
		return
	}

	days := intQueryParam(r.URL.Query(), "days", 30)

	stats, err := h.service.GetStatistics(patientID, days)
	if err != nil {
		log.Printf("[handler] GetPatientStatistics error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get statistics"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetPatientSummary(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.ParseInt(mux.Vars(r)["patientID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid patient ID"})
		return
	}

	days := intQueryParam(r.URL.Query(), "days", 30)

	stats, err := h.service.GetStatistics(patientID, days)
	if err != nil {
		log.Printf("[handler] GetPatientSummary error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get statistics"})
		return
	}

	summary, err := h.insights.SummarizeProgress(r.Context(), days, *stats)
	if err != nil {
		log.Printf("[handler] GetPatientSummary generation error: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Failed to generate summary"})
		return
	}

	writeJSON(w, http.StatusOK, models.SummaryResponse{
		Summary: summary,
		Model:   h.insights.ModelName(),
	})
}

func (h *Handler) ResetPatientTest(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.ParseInt(mux.Vars(r)["patientID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid patient ID"})
		return
	}

	if _, err := h.service.ResetTodayTest(patientID); err != nil {
		log.Printf("[handler] ResetPatientTest error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to reset test"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "test reset"})
}

func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := strconv.ParseInt(vars["patientID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid patient ID"})
		return
	}
	testID, err := strconv.ParseInt(vars["testID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid test ID"})
		return
	}

	var req models.UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	err = h.service.UpdateNotes(patientID, testID, req.Notes)
	if errors.Is(err, ErrTestNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Test not found or not completed"})
		return
	}
	if err != nil {
		log.Printf("[handler] UpdateNotes error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update notes"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "notes updated"})
}

// ── Helpers ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}
