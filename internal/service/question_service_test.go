package service

import (
	"certprep/internal/model"
	"context"
	"errors"
	"testing"
)

func TestQuestionServiceCRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewQuestionService(newMemQuestions())

	created, err := svc.Create(ctx, &model.Question{
		Domain:        " Security ",
		Question:      "What does MFA add?",
		OptionA:       "A second factor",
		OptionB:       "Longer passwords",
		OptionC:       "Encryption",
		OptionD:       "Logging",
		CorrectOption: "option_a",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || created.Domain != "Security" || created.CorrectOption != "A" {
		t.Errorf("created = %+v", created)
	}

	created.CorrectOption = "c"
	updated, err := svc.Update(ctx, created.ID, created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, _ := svc.Get(ctx, created.ID); got.CorrectOption != "C" || updated.ID != created.ID {
		t.Errorf("update not applied: %+v", got)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("Get after delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("second Delete: %v", err)
	}
	if _, err := svc.Update(ctx, created.ID, created); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("Update missing: %v", err)
	}
}

func TestQuestionServiceRejectsInvalid(t *testing.T) {
	svc := NewQuestionService(newMemQuestions())
	_, err := svc.Create(context.Background(), &model.Question{
		Domain: "D", Question: "Q", OptionA: "1", OptionB: "2", OptionC: "3", OptionD: "4", CorrectOption: "E",
	})
	if !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("err = %v, want ErrInvalidQuestion", err)
	}
}

func TestFlashcard(t *testing.T) {
	ctx := context.Background()
	qs := newMemQuestions()
	svc := NewQuestionService(qs)

	card, err := svc.Flashcard(ctx)
	if err != nil || card != nil {
		t.Fatalf("empty bank: card = %v err = %v", card, err)
	}

	qs.add("D1", "option_d")
	card, err = svc.Flashcard(ctx)
	if err != nil {
		t.Fatalf("Flashcard: %v", err)
	}
	if card == nil || card.CorrectOption != "D" {
		t.Errorf("card = %+v", card)
	}
}
