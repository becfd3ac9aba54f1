package main

import (
	"certprep/config"
	"certprep/internal/app"
	internalconfig "certprep/internal/config"
	"certprep/internal/service"
	"certprep/internal/transport/rest"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Load AI config and log model settings
	aiConfig := internalconfig.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Provider:  %s", aiConfig.Provider)
	log.Printf("  Model:     %s", aiConfig.Model)
	log.Printf("  Timeout:   %dms", aiConfig.TimeoutMS)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:   configured")
	} else {
		log.Println("  API Key:   NOT SET (AI exams disabled)")
	}

	a, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close(context.Background())

	if err := a.OpenSessions(ctx, cfg); err != nil {
		log.Fatal(err)
	}
	log.Printf("Store backend: %s, session backend: %s", cfg.StoreBackend, cfg.SessionBackend)
	if cfg.CORSOrigins == "*" {
		log.Println("CORS: any origin without credentials; list CORS_ALLOWED_ORIGINS for a cross-origin front end")
	}

	// Initialize services
	generator := service.NewGeneratorService(aiConfig)
	questionSvc := service.NewQuestionService(a.QuestionRepo)
	resultSvc := service.NewResultService(a.ResultRepo)
	examSvc := service.NewExamService(a.QuestionRepo, a.ResultRepo, generator, cfg.DefaultExamSize)

	// Create router with container
	container := &rest.Container{
		QuestionService: questionSvc,
		ExamService:     examSvc,
		ResultService:   resultSvc,
		Signer:          a.Signer,
		Store:           a.SessionStore,
		CORSOrigins:     cfg.CORSOrigins,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  GET  /v1/flashcard, /v1/domains")
		log.Println("  CRUD /v1/questions")
		log.Println("  GET/POST /v1/exams, /v1/exams/{current,answer,review,summary}")
		log.Println("  POST /v1/ai-exams, /v1/ai-exams/{current,answer,review,summary}")
		log.Println("  GET  /v1/results, /v1/results/stats")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
