package app

import "storefront-quiz-service/internal/domain"

// Command is a discrete user action dispatched to an app controller.
type Command interface {
	CommandName() string
}

// Storefront commands.
type (
	Search         struct{ Text string }
	SetSort        struct{ Mode domain.SortMode }
	GoToPage       struct{ Page int }
	PrevPage       struct{}
	NextPage       struct{}
	AddToCart      struct{ ProductID, Quantity int }
	ChangeQuantity struct{ ProductID, Delta int }
	RemoveFromCart struct{ ProductID int }
	ClearCart      struct{}
	OpenCart       struct{}
	CloseCart      struct{}
)

// Quiz commands.
type (
	StartQuiz        struct{ Count int }
	AnswerQuestion   struct{ Choice string }
	SubmitScore      struct{ Name string }
	ResetLeaderboard struct{}
)

// Refresh re-renders without changing state. Both apps accept it.
type Refresh struct{}

func (Search) CommandName() string         { return "search" }
func (SetSort) CommandName() string        { return "setSort" }
func (GoToPage) CommandName() string       { return "goToPage" }
func (PrevPage) CommandName() string       { return "prevPage" }
func (NextPage) CommandName() string       { return "nextPage" }
func (AddToCart) CommandName() string      { return "addToCart" }
func (ChangeQuantity) CommandName() string { return "changeQuantity" }
func (RemoveFromCart) CommandName() string { return "removeFromCart" }
func (ClearCart) CommandName() string      { return "clearCart" }
func (OpenCart) CommandName() string       { return "openCart" }
func (CloseCart) CommandName() string      { return "closeCart" }

func (StartQuiz) CommandName() string        { return "startQuiz" }
func (AnswerQuestion) CommandName() string   { return "answer" }
func (SubmitScore) CommandName() string      { return "submitScore" }
func (ResetLeaderboard) CommandName() string { return "resetLeaderboard" }

func (Refresh) CommandName() string { return "refresh" }
