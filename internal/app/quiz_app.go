package app

import (
	"context"
	"errors"
	"fmt"

	"storefront-quiz-service/internal/domain"
	"storefront-quiz-service/internal/metrics"
	"storefront-quiz-service/internal/render"
)

// NotReadyNotice is shown when a quiz is started before the questions load.
const NotReadyNotice = "Questions are still loading. Please wait a moment and try again."

// QuizApp is the per-client quiz app: one session plus the leaderboard.
// Dispatch must be called from a single goroutine.
type QuizApp struct {
	bank    *QuestionBank
	session *QuizSession
	board   *Leaderboard
	entries []domain.LeaderboardEntry
}

// NewQuizApp loads the leaderboard and starts on the setup screen.
func NewQuizApp(ctx context.Context, bank *QuestionBank, session *QuizSession, board *Leaderboard) *QuizApp {
	return &QuizApp{
		bank:    bank,
		session: session,
		board:   board,
		entries: board.Load(ctx),
	}
}

// Dispatch applies cmd and returns the re-rendered view. Precondition failures
// become a notice; only persistence failures are returned as errors.
func (a *QuizApp) Dispatch(ctx context.Context, cmd Command) (render.QuizView, error) {
	metrics.CommandsTotal.WithLabelValues("quiz", cmd.CommandName()).Inc()

	var err error
	notice := ""
	switch c := cmd.(type) {
	case StartQuiz:
		if startErr := a.session.Start(c.Count); startErr != nil {
			notice = startNotice(startErr)
		}
	case AnswerQuestion:
		_, _ = a.session.Answer(c.Choice)
	case SubmitScore:
		var entries []domain.LeaderboardEntry
		entries, err = a.session.SubmitScore(ctx, c.Name)
		switch {
		case errors.Is(err, domain.ErrQuizNotFinished):
			err = nil
		case err != nil:
			notice = "Your score could not be saved. Please try again."
		default:
			a.entries = entries
		}
	case ResetLeaderboard:
		if err = a.board.Reset(ctx); err != nil {
			notice = "The leaderboard could not be reset. Please try again."
		} else {
			a.entries = []domain.LeaderboardEntry{}
		}
	case Refresh:
	default:
		notice = fmt.Sprintf("Unsupported action %q.", cmd.CommandName())
	}
	return a.View(notice), err
}

// View renders the current screen.
func (a *QuizApp) View(notice string) render.QuizView {
	question, number, _ := a.session.Current()
	return render.Quiz(render.QuizState{
		State:       a.session.State(),
		Question:    question,
		Number:      number,
		Score:       a.session.Score(),
		Total:       a.session.Total(),
		Leaderboard: a.entries,
		Ready:       a.bank.Ready(),
		Notice:      notice,
	})
}

func startNotice(err error) string {
	switch {
	case errors.Is(err, domain.ErrQuestionsNotReady):
		return NotReadyNotice
	case errors.Is(err, domain.ErrInvalidQuestionCount):
		return "Choose at least one question."
	default:
		return err.Error()
	}
}
