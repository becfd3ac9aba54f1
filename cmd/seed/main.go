package main

import (
	"certprep/config"
	"certprep/internal/app"
	"certprep/internal/importer"
	"certprep/internal/model"
	"certprep/internal/service"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"
)

func main() {
	file := flag.String("file", "", "question bank to import (.json, .csv or .xlsx)")
	sheet := flag.String("sheet", "", "XLSX sheet name (default: first sheet)")
	export := flag.String("export", "", "write the question bank to this .xlsx file instead of importing")
	flag.Parse()

	if *file == "" && *export == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer a.Close(context.Background())

	questionSvc := service.NewQuestionService(a.QuestionRepo)

	if *export != "" {
		if err := exportBank(ctx, questionSvc, *export); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		return
	}

	result, err := importer.Import(ctx, questionSvc, importer.Config{FilePath: *file, SheetName: *sheet})
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	for _, e := range result.Errors {
		log.Printf("Skipped %s", e)
	}
	fmt.Printf("Processed %d rows: %d imported, %d skipped\n", result.TotalProcessed, result.Imported, result.Skipped)
}

func exportBank(ctx context.Context, questionSvc *service.QuestionService, path string) error {
	summaries, err := questionSvc.List(ctx)
	if err != nil {
		return err
	}

	questions := make([]model.Question, 0, len(summaries))
	for _, s := range summaries {
		q, err := questionSvc.Get(ctx, s.ID)
		if err != nil {
			return err
		}
		questions = append(questions, *q)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := importer.WriteXLSX(f, questions); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Exported %d questions to %s\n", len(questions), path)
	return nil
}
