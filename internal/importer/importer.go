package importer

import (
	"certprep/internal/model"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Creator stores one validated question
type Creator interface {
	Create(ctx context.Context, q *model.Question) (*model.Question, error)
}

// Config defines the import configuration
type Config struct {
	FilePath  string // JSON, XLSX or CSV file
	SheetName string // XLSX sheet, the first sheet when empty
}

// Result holds the result of an import operation
type Result struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// Column order for spreadsheet rows
var columns = []string{"domain", "question", "option_a", "option_b", "option_c", "option_d", "correct_option", "explanation"}

// Import reads every question in the file and stores it through dst.
// Rows that fail validation are skipped and reported, not fatal.
func Import(ctx context.Context, dst Creator, cfg Config) (*Result, error) {
	questions, err := ReadFile(cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: make([]string, 0)}
	for i := range questions {
		result.TotalProcessed++
		if _, err := dst.Create(ctx, &questions[i]); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ReadFile parses the file by its extension
func ReadFile(cfg Config) ([]model.Question, error) {
	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".json":
		f, err := os.Open(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open JSON file: %w", err)
		}
		defer f.Close()
		return ReadJSON(f)
	case ".csv":
		f, err := os.Open(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		f, err := excelize.OpenFile(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
		defer f.Close()
		return readWorkbook(f, cfg.SheetName)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .json, .csv or .xlsx)", filepath.Ext(cfg.FilePath))
	}
}

// ReadJSON accepts either an array of questions or {"questions": [...]}
func ReadJSON(r io.Reader) ([]model.Question, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		var wrapped struct {
			Questions []model.Question `json:"questions"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("failed to decode questions: %w", err)
		}
		questions = wrapped.Questions
	}
	return questions, nil
}

// ReadCSV reads rows in column order, skipping a header row
func ReadCSV(r io.Reader) ([]model.Question, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return fromRows(rows), nil
}

// ReadXLSX reads a workbook from r
func ReadXLSX(r io.Reader, sheet string) ([]model.Question, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

func readWorkbook(f *excelize.File, sheet string) ([]model.Question, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return fromRows(rows), nil
}

func fromRows(rows [][]string) []model.Question {
	questions := make([]model.Question, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		if isBlank(row) {
			continue
		}
		questions = append(questions, model.Question{
			Domain:        cell(row, 0),
			Question:      cell(row, 1),
			OptionA:       cell(row, 2),
			OptionB:       cell(row, 3),
			OptionC:       cell(row, 4),
			OptionD:       cell(row, 5),
			CorrectOption: cell(row, 6),
			Explanation:   cell(row, 7),
		})
	}
	return questions
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isHeader(row []string) bool {
	return strings.EqualFold(cell(row, 0), columns[0]) && strings.EqualFold(cell(row, 1), columns[1])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteXLSX writes questions as a workbook with a header row, the layout
// ReadXLSX expects
func WriteXLSX(w io.Writer, questions []model.Question) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for c, name := range columns {
		if err := setCell(f, sheet, c, 1, name); err != nil {
			return err
		}
	}
	for i, q := range questions {
		values := []string{q.Domain, q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption, q.Explanation}
		for c, v := range values {
			if err := setCell(f, sheet, c, i+2, v); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	name, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, name, value)
}
