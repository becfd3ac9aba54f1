package rest

import (
	"certprep/internal/service"
	"certprep/internal/session"
	"certprep/internal/transport/rest/handler"
	"certprep/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	QuestionService *service.QuestionService
	ExamService     *service.ExamService
	ResultService   *service.ResultService
	Signer          *session.Signer
	Store           session.Store
	CORSOrigins     string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	questionHandler := handler.NewQuestionHandler(c.QuestionService)
	resultHandler := handler.NewResultHandler(c.ResultService)
	examHandler := handler.NewExamHandler(c.ExamService, c.QuestionService, c.Store)
	aiExamHandler := handler.NewAIExamHandler(c.ExamService, c.Store)

	// Logging first so CORS preflights are logged too
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORS(c.CORSOrigins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Question bank
	v1.HandleFunc("/flashcard", questionHandler.Flashcard).Methods("GET", "OPTIONS")
	v1.HandleFunc("/domains", questionHandler.Domains).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions", questionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questions/{id:[0-9]+}", questionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions/{id:[0-9]+}", questionHandler.Update).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/questions/{id:[0-9]+}", questionHandler.Delete).Methods("DELETE", "OPTIONS")

	// Results
	v1.HandleFunc("/results", resultHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/results/stats", resultHandler.Stats).Methods("GET", "OPTIONS")

	// Exam routes (require a session)
	examRoutes := v1.NewRoute().Subrouter()
	examRoutes.Use(session.Middleware(c.Signer))

	examRoutes.HandleFunc("/exams", examHandler.Selection).Methods("GET", "OPTIONS")
	examRoutes.HandleFunc("/exams", examHandler.Start).Methods("POST", "OPTIONS")
	examRoutes.HandleFunc("/exams/current", examHandler.Current).Methods("GET", "OPTIONS")
	examRoutes.HandleFunc("/exams/answer", examHandler.Answer).Methods("POST", "OPTIONS")
	examRoutes.HandleFunc("/exams/review", examHandler.Review).Methods("GET", "OPTIONS")
	examRoutes.HandleFunc("/exams/summary", examHandler.Summary).Methods("GET", "OPTIONS")

	examRoutes.HandleFunc("/ai-exams", aiExamHandler.StartAI).Methods("POST", "OPTIONS")
	examRoutes.HandleFunc("/ai-exams/current", aiExamHandler.Current).Methods("GET", "OPTIONS")
	examRoutes.HandleFunc("/ai-exams/answer", aiExamHandler.Answer).Methods("POST", "OPTIONS")
	examRoutes.HandleFunc("/ai-exams/review", aiExamHandler.Review).Methods("GET", "OPTIONS")
	examRoutes.HandleFunc("/ai-exams/summary", aiExamHandler.Summary).Methods("GET", "OPTIONS")

	return r
}
