package render

import (
	"fmt"

	"storefront-quiz-service/internal/domain"
)

// Screen is the quiz screen a client should show.
type Screen string

const (
	ScreenSetup  Screen = "setup"
	ScreenQuiz   Screen = "quiz"
	ScreenResult Screen = "result"
)

// QuizView is everything a client needs to draw the quiz app.
type QuizView struct {
	Screen      Screen        `json:"screen"`
	Question    *QuestionView `json:"question,omitempty"`
	Result      *ResultView   `json:"result,omitempty"`
	Leaderboard []string      `json:"leaderboard"`
	Ready       bool          `json:"ready"`
	Notice      string        `json:"notice,omitempty"`
}

// QuestionView is the current question with one choice button per choice.
type QuestionView struct {
	Text     string   `json:"text"`
	Choices  []string `json:"choices"`
	Progress string   `json:"progress"`
}

// ResultView is the final score shown before submitting a name.
type ResultView struct {
	Score   int    `json:"score"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// QuizState is the input to Quiz.
type QuizState struct {
	State       domain.QuizState
	Question    domain.Question
	Number      int
	Score       int
	Total       int
	Leaderboard []domain.LeaderboardEntry
	Ready       bool
	Notice      string
}

// Quiz picks the screen for the session state and renders it with the leaderboard.
func Quiz(st QuizState) QuizView {
	view := QuizView{
		Screen:      ScreenFor(st.State),
		Leaderboard: Leaderboard(st.Leaderboard),
		Ready:       st.Ready,
		Notice:      st.Notice,
	}

	switch view.Screen {
	case ScreenQuiz:
		choices := make([]string, len(st.Question.Choices))
		copy(choices, st.Question.Choices)
		view.Question = &QuestionView{
			Text:     st.Question.Question,
			Choices:  choices,
			Progress: fmt.Sprintf("Question %d of %d", st.Number, st.Total),
		}
	case ScreenResult:
		view.Result = &ResultView{
			Score:   st.Score,
			Total:   st.Total,
			Message: fmt.Sprintf("You scored %d out of %d", st.Score, st.Total),
		}
	}
	return view
}

// ScreenFor maps a quiz state to the screen that shows it.
func ScreenFor(state domain.QuizState) Screen {
	switch state {
	case domain.QuizActive:
		return ScreenQuiz
	case domain.QuizFinished:
		return ScreenResult
	default:
		return ScreenSetup
	}
}

// Leaderboard renders one "name - score/total" line per entry.
func Leaderboard(entries []domain.LeaderboardEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s - %d/%d", e.Name, e.Score, e.Total))
	}
	return lines
}
