package importer

import (
	"bytes"
	"certprep/internal/model"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// recorder keeps whatever passes its validation
type recorder struct {
	saved []model.Question
}

func (r *recorder) Create(ctx context.Context, q *model.Question) (*model.Question, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.ID = int64(len(r.saved) + 1)
	r.saved = append(r.saved, *q)
	return q, nil
}

var sampleQuestions = []model.Question{
	{Domain: "Networking", Question: "HTTPS port?", OptionA: "80", OptionB: "443", OptionC: "21", OptionD: "25", CorrectOption: "option_b", Explanation: "TLS"},
	{Domain: "Networking", Question: "IP layer?", OptionA: "2", OptionB: "3", OptionC: "4", OptionD: "7", CorrectOption: "B"},
}

func TestReadJSON(t *testing.T) {
	for name, input := range map[string]string{
		"array":   `[{"domain":"D","question":"Q","option_a":"1","option_b":"2","option_c":"3","option_d":"4","correct_option":"a"}]`,
		"wrapped": `{"questions":[{"domain":"D","question":"Q","option_a":"1","option_b":"2","option_c":"3","option_d":"4","correct_option":"a"}]}`,
	} {
		questions, err := ReadJSON(strings.NewReader(input))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(questions) != 1 || questions[0].OptionD != "4" {
			t.Errorf("%s: got %+v", name, questions)
		}
	}

	if _, err := ReadJSON(strings.NewReader("not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestReadCSV(t *testing.T) {
	input := "domain,question,option_a,option_b,option_c,option_d,correct_option,explanation\n" +
		"Security,What is MFA?,One,Two,Three,Four,option_a,Because\n" +
		",,,,,,,\n" +
		"Security,Short row,One,Two\n"

	questions, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	if questions[0].Explanation != "Because" || questions[1].OptionC != "" {
		t.Errorf("unexpected rows %+v", questions)
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleQuestions); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	questions, err := ReadXLSX(&buf, "")
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(questions) != len(sampleQuestions) {
		t.Fatalf("got %d questions, want %d", len(questions), len(sampleQuestions))
	}
	for i := range questions {
		if questions[i] != sampleQuestions[i] {
			t.Errorf("row %d = %+v, want %+v", i, questions[i], sampleQuestions[i])
		}
	}
}

func TestImportSkipsInvalidRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.json")
	data := `[
		{"domain":"D","question":"Q1","option_a":"1","option_b":"2","option_c":"3","option_d":"4","correct_option":"Option_C"},
		{"domain":"D","question":"Q2","option_a":"1","option_b":"2","option_c":"3","option_d":"4","correct_option":"Z"},
		{"domain":"","question":"Q3","option_a":"1","option_b":"2","option_c":"3","option_d":"4","correct_option":"A"}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	result, err := Import(context.Background(), rec, Config{FilePath: path})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.TotalProcessed != 3 || result.Imported != 1 || result.Skipped != 2 || len(result.Errors) != 2 {
		t.Errorf("result = %+v", result)
	}
	if len(rec.saved) != 1 || rec.saved[0].CorrectOption != "C" {
		t.Errorf("saved = %+v", rec.saved)
	}
}

func TestImportXLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.xlsx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteXLSX(f, sampleQuestions); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f.Close()

	rec := &recorder{}
	result, err := Import(context.Background(), rec, Config{FilePath: path})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("imported %d, want 2 (errors %v)", result.Imported, result.Errors)
	}
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := ReadFile(Config{FilePath: "bank.txt"})
	if err == nil {
		t.Fatal("expected error")
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		t.Errorf("should fail on extension before opening the file: %v", err)
	}
}
