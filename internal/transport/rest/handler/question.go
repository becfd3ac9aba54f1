package handler

import (
	"certprep/internal/model"
	"certprep/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// QuestionHandler handles the question bank and flashcard endpoints
type QuestionHandler struct {
	questionSvc *service.QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionSvc *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionSvc: questionSvc}
}

// List handles GET /v1/questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionSvc.List(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if questions == nil {
		questions = []model.QuestionSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

// Create handles POST /v1/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Question
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.questionSvc.Create(r.Context(), &req)
	if err != nil {
		h.writeQuestionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

// Get handles GET /v1/questions/{id}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	q, err := h.questionSvc.Get(r.Context(), id)
	if err != nil {
		h.writeQuestionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Update handles PUT /v1/questions/{id}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	var req model.Question
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.questionSvc.Update(r.Context(), id, &req)
	if err != nil {
		h.writeQuestionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Delete handles DELETE /v1/questions/{id}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	if err := h.questionSvc.Delete(r.Context(), id); err != nil {
		h.writeQuestionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Flashcard handles GET /v1/flashcard
func (h *QuestionHandler) Flashcard(w http.ResponseWriter, r *http.Request) {
	q, err := h.questionSvc.Flashcard(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if q == nil {
		writeError(w, http.StatusNotFound, "the question bank is empty")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Domains handles GET /v1/domains
func (h *QuestionHandler) Domains(w http.ResponseWriter, r *http.Request) {
	domains, err := h.questionSvc.Domains(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if domains == nil {
		domains = []model.DomainCount{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"domains": domains})
}

func (h *QuestionHandler) writeQuestionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuestion):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeInternal(w, r, err)
	}
}

func questionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return 0, false
	}
	return id, true
}
