package app

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"storefront-quiz-service/internal/domain"
)

// AnonymousName is recorded for results submitted without a name.
const AnonymousName = "Anonymous"

// QuestionBank holds the question set loaded once at startup. It is shared by
// every quiz session and becomes ready after a successful non-empty load.
type QuestionBank struct {
	mu        sync.RWMutex
	questions []domain.Question
}

func NewQuestionBank() *QuestionBank {
	return &QuestionBank{}
}

// Set publishes the loaded questions.
func (b *QuestionBank) Set(questions []domain.Question) {
	cp := make([]domain.Question, len(questions))
	copy(cp, questions)

	b.mu.Lock()
	b.questions = cp
	b.mu.Unlock()
}

// Ready reports whether any questions are available.
func (b *QuestionBank) Ready() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.questions) > 0
}

// Questions returns a copy of the bank.
func (b *QuestionBank) Questions() []domain.Question {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// QuizSession is one client's run through a random subset of the bank:
// setup -> active -> finished -> setup. It is never persisted.
type QuizSession struct {
	bank  *QuestionBank
	board *Leaderboard
	rnd   *rand.Rand

	state     domain.QuizState
	questions []domain.Question
	index     int
	score     int
}

func NewQuizSession(bank *QuestionBank, board *Leaderboard) *QuizSession {
	return NewQuizSessionWithRand(bank, board, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewQuizSessionWithRand allows deterministic question draws in tests.
func NewQuizSessionWithRand(bank *QuestionBank, board *Leaderboard, rnd *rand.Rand) *QuizSession {
	return &QuizSession{
		bank:  bank,
		board: board,
		rnd:   rnd,
		state: domain.QuizSetup,
	}
}

// Start draws count questions uniformly without replacement and begins the run.
// It fails without changing state while the bank is still loading.
func (s *QuizSession) Start(count int) error {
	if !s.bank.Ready() {
		return domain.ErrQuestionsNotReady
	}
	if count < 1 {
		return domain.ErrInvalidQuestionCount
	}

	pool := s.bank.Questions()
	s.rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if count > len(pool) {
		count = len(pool)
	}

	s.questions = pool[:count]
	s.index = 0
	s.score = 0
	s.state = domain.QuizActive
	return nil
}

// Answer scores the current question and advances, finishing the run after
// the last one. It reports whether the choice was correct.
func (s *QuizSession) Answer(choice string) (bool, error) {
	if s.state != domain.QuizActive {
		return false, domain.ErrQuizNotActive
	}

	correct := choice == s.questions[s.index].Answer
	if correct {
		s.score++
	}
	s.index++
	if s.index >= len(s.questions) {
		s.state = domain.QuizFinished
	}
	return correct, nil
}

// SubmitScore records the finished run on the leaderboard and returns to setup.
func (s *QuizSession) SubmitScore(ctx context.Context, name string) ([]domain.LeaderboardEntry, error) {
	if s.state != domain.QuizFinished {
		return nil, domain.ErrQuizNotFinished
	}

	entries, err := s.board.Submit(ctx, s.Result(name))
	if err != nil {
		return nil, err
	}
	s.Reset()
	return entries, nil
}

// Reset abandons any run in progress.
func (s *QuizSession) Reset() {
	s.state = domain.QuizSetup
	s.questions = nil
	s.index = 0
	s.score = 0
}

// Result is the outcome of the current run under the given player name.
func (s *QuizSession) Result(name string) domain.QuizResult {
	name = strings.TrimSpace(name)
	if name == "" {
		name = AnonymousName
	}
	return domain.QuizResult{Name: name, Score: s.score, Total: len(s.questions)}
}

func (s *QuizSession) State() domain.QuizState {
	return s.state
}

// Current returns the question being asked and its 1-based position.
func (s *QuizSession) Current() (domain.Question, int, bool) {
	if s.state != domain.QuizActive {
		return domain.Question{}, 0, false
	}
	return s.questions[s.index], s.index + 1, true
}

func (s *QuizSession) Score() int {
	return s.score
}

// Total is the number of questions in the current run.
func (s *QuizSession) Total() int {
	return len(s.questions)
}
