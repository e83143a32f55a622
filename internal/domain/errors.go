package domain

import "errors"

var (
	// ErrQuestionsNotReady is returned when a quiz is started before the question bank has loaded.
	ErrQuestionsNotReady = errors.New("questions are still loading")
	// ErrInvalidQuestionCount indicates a quiz was requested with fewer than one question.
	ErrInvalidQuestionCount = errors.New("question count must be at least 1")
	// ErrQuizNotActive is returned when answering outside of an active quiz.
	ErrQuizNotActive = errors.New("quiz is not active")
	// ErrQuizNotFinished is returned when submitting a score before the quiz is complete.
	ErrQuizNotFinished = errors.New("quiz is not finished")
	// ErrProductNotFound indicates a product id is not in the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidRecord marks a loaded product or question that breaks the data rules.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrKeyNotFound is returned by key-value stores for absent keys.
	ErrKeyNotFound = errors.New("key not found")
)
