package service

import "errors"

var (
	// ErrRestartRequired means the session holds no usable exam; the caller
	// should send the user back to exam selection
	ErrRestartRequired = errors.New("no active exam, please start a new one")
	// ErrExamComplete means every question is answered and only the summary remains
	ErrExamComplete = errors.New("exam complete")
	// ErrEmptyDomain means the domain filter matched no questions
	ErrEmptyDomain = errors.New("no questions available for the selected domains")
	// ErrEmptyPrompt means an AI exam was requested without a topic
	ErrEmptyPrompt = errors.New("a topic prompt is required")
	// ErrAIDisabled means no AI credential is configured
	ErrAIDisabled = errors.New("AI exams are not configured")
	// ErrGenerationFailed wraps any failure of the AI generator
	ErrGenerationFailed = errors.New("failed to generate questions")
	// ErrInvalidQuestion wraps a question validation failure
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrQuestionNotFound is returned for an unknown question id
	ErrQuestionNotFound = errors.New("question not found")
)
