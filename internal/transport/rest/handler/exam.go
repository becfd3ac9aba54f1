package handler

import (
	"certprep/internal/model"
	"certprep/internal/service"
	"certprep/internal/session"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Flash messages
const (
	flashNoExam        = "There is no exam in progress. Please start a new one."
	flashEmptyDomain   = "No questions are available for the selected domains."
	flashEmptyPrompt   = "Please describe the topic for the AI exam."
	flashAIDisabled    = "AI exams are not available: no AI API key is configured."
	flashAIFailed      = "The AI could not generate an exam. Please try again."
	flashOtherExamMode = "Another exam is in progress."
	flashTooLarge      = "This exam is too large to keep in your browser session. Choose fewer questions, or ask the administrator to enable SESSION_BACKEND=redis."
)

// ExamHandler drives one exam mode (stored questions or AI generated) over
// the session store
type ExamHandler struct {
	examSvc     *service.ExamService
	questionSvc *service.QuestionService
	store       session.Store
	mode        model.ExamMode
	base        string
}

// NewExamHandler creates the handler for stored-question exams under /v1/exams
func NewExamHandler(examSvc *service.ExamService, questionSvc *service.QuestionService, store session.Store) *ExamHandler {
	return &ExamHandler{
		examSvc:     examSvc,
		questionSvc: questionSvc,
		store:       store,
		mode:        model.ModeStored,
		base:        examsPath,
	}
}

// NewAIExamHandler creates the handler for generated exams under /v1/ai-exams
func NewAIExamHandler(examSvc *service.ExamService, store session.Store) *ExamHandler {
	return &ExamHandler{
		examSvc: examSvc,
		store:   store,
		mode:    model.ModeAI,
		base:    aiExamsPath,
	}
}

// SelectionResponse describes the exam selection screen
type SelectionResponse struct {
	Domains     []model.DomainCount `json:"domains"`
	DefaultSize int                 `json:"defaultSize"`
	AIEnabled   bool                `json:"aiEnabled"`
	Active      *ActiveExam         `json:"active,omitempty"`
}

// ActiveExam points to an exam still in progress
type ActiveExam struct {
	Mode     model.ExamMode `json:"mode"`
	Answered int            `json:"answered"`
	Total    int            `json:"total"`
	Resume   string         `json:"resume"`
}

// Selection handles GET /v1/exams
func (h *ExamHandler) Selection(w http.ResponseWriter, r *http.Request) {
	domains, err := h.questionSvc.Domains(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if domains == nil {
		domains = []model.DomainCount{}
	}

	resp := SelectionResponse{
		Domains:     domains,
		DefaultSize: h.examSvc.DefaultSize(),
		AIEnabled:   h.examSvc.AIEnabled(),
	}

	state, err := h.store.Load(r)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if state.Active() {
		resp.Active = &ActiveExam{
			Mode:     state.Mode,
			Answered: state.Current,
			Total:    state.Total,
			Resume:   basePath(state.Mode) + "/current",
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// StartRequest is the request body for starting a stored-question exam
type StartRequest struct {
	Domains []string `json:"domains"`
	Count   int      `json:"count"`
}

// StartResponse is returned when an exam starts
type StartResponse struct {
	Mode    model.ExamMode `json:"mode"`
	Total   int            `json:"total"`
	Warning string         `json:"warning,omitempty"`
	Next    string         `json:"next"`
}

// Start handles POST /v1/exams
func (h *ExamHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, outcome, err := h.examSvc.Start(r.Context(), req.Domains, req.Count)
	if err != nil {
		h.writeExamError(w, r, err)
		return
	}
	if err := h.store.Save(w, r, state); err != nil {
		h.writeExamError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, StartResponse{
		Mode:    state.Mode,
		Total:   state.Total,
		Warning: outcome.Warning(),
		Next:    h.base + "/current",
	})
}

// StartAIRequest is the request body for starting an AI exam
type StartAIRequest struct {
	Prompt string `json:"prompt"`
	Count  int    `json:"count"`
}

// StartAI handles POST /v1/ai-exams
func (h *ExamHandler) StartAI(w http.ResponseWriter, r *http.Request) {
	var req StartAIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.examSvc.StartAI(r.Context(), req.Prompt, req.Count)
	if err != nil {
		h.writeExamError(w, r, err)
		return
	}
	if err := h.store.Save(w, r, state); err != nil {
		h.writeExamError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, StartResponse{
		Mode:  state.Mode,
		Total: state.Total,
		Next:  h.base + "/current",
	})
}

// Current handles GET {base}/current
func (h *ExamHandler) Current(w http.ResponseWriter, r *http.Request) {
	state, ok := h.load(w, r)
	if !ok {
		return
	}

	current, err := h.examSvc.Current(r.Context(), state)
	if err != nil {
		h.writeExamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

// AnswerRequest is the request body for answering the current question.
// A missing or null answer counts as no selection.
type AnswerRequest struct {
	Answer *string `json:"answer"`
}

// AnswerResponse reports the outcome and where to go next
type AnswerResponse struct {
	*service.AnswerOutcome
	Next string `json:"next"`
}

// Answer handles POST {base}/answer
func (h *ExamHandler) Answer(w http.ResponseWriter, r *http.Request) {
	selection, present, err := readAnswer(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, ok := h.load(w, r)
	if !ok {
		return
	}

	outcome, err := h.examSvc.Answer(r.Context(), state, selection, present)
	if err != nil {
		h.writeExamError(w, r, err)
		return
	}
	if err := h.store.Save(w, r, state); err != nil {
		h.writeExamError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AnswerResponse{AnswerOutcome: outcome, Next: h.base + "/review"})
}

// ReviewResponse is the review screen with the next step
type ReviewResponse struct {
	*model.Review
	Next string `json:"next"`
}

// Review handles GET {base}/review
func (h *ExamHandler) Review(w http.ResponseWriter, r *http.Request) {
	state, ok := h.load(w, r)
	if !ok {
		return
	}

	review, err := h.examSvc.Review(r.Context(), state)
	if err != nil {
		h.writeExamError(w, r, err)
		return
	}

	next := h.base + "/current"
	if review.Final {
		next = h.base + "/summary"
	}
	writeJSON(w, http.StatusOK, ReviewResponse{Review: review, Next: next})
}

// Summary handles GET {base}/summary. It ends the exam.
func (h *ExamHandler) Summary(w http.ResponseWriter, r *http.Request) {
	state, ok := h.load(w, r)
	if !ok {
		return
	}

	summary, err := h.examSvc.Finish(state)
	if err != nil {
		h.writeExamError(w, r, err)
		return
	}
	if err := h.store.Clear(w, r); err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// load reads the session's exam. An exam of the other mode redirects to its
// own screens.
func (h *ExamHandler) load(w http.ResponseWriter, r *http.Request) (*model.ExamState, bool) {
	state, err := h.store.Load(r)
	if err != nil {
		writeInternal(w, r, err)
		return nil, false
	}
	if state.Active() && state.Mode != h.mode {
		writeRedirect(w, basePath(state.Mode)+"/current", flashOtherExamMode)
		return nil, false
	}
	return state, true
}

func (h *ExamHandler) writeExamError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrRestartRequired):
		writeRedirect(w, examsPath, flashNoExam)
	case errors.Is(err, service.ErrExamComplete):
		writeRedirect(w, h.base+"/summary", "")
	case errors.Is(err, service.ErrEmptyDomain):
		writeRedirect(w, examsPath, flashEmptyDomain)
	case errors.Is(err, service.ErrEmptyPrompt):
		writeRedirect(w, examsPath, flashEmptyPrompt)
	case errors.Is(err, service.ErrAIDisabled):
		writeRedirect(w, examsPath, flashAIDisabled)
	case errors.Is(err, service.ErrGenerationFailed):
		writeRedirect(w, examsPath, flashAIFailed)
	case errors.Is(err, session.ErrSessionTooLarge):
		writeRedirect(w, examsPath, flashTooLarge)
	default:
		writeInternal(w, r, err)
	}
}

// readAnswer accepts either a JSON body or a form post
func readAnswer(r *http.Request) (string, bool, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req AnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", false, err
		}
		if req.Answer == nil {
			return "", false, nil
		}
		return *req.Answer, true, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", false, err
	}
	values, ok := r.PostForm["answer"]
	if !ok || len(values) == 0 {
		return "", false, nil
	}
	return values[0], true, nil
}

func basePath(mode model.ExamMode) string {
	if mode == model.ModeAI {
		return aiExamsPath
	}
	return examsPath
}
