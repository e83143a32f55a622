package domain

// Product is a purchasable catalog item. Products are never mutated after load.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
}

// CartLine is one product in the cart. Product fields are copied in at add time
// and flattened into the stored JSON alongside the quantity.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// CartTotals summarizes the cart for display.
type CartTotals struct {
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Total     float64 `json:"total"`
}

// SortMode orders the filtered catalog.
type SortMode string

const (
	SortNone      SortMode = ""
	SortPriceAsc  SortMode = "low-high"
	SortPriceDesc SortMode = "high-low"
)

// Page is one bounded window of the filtered, sorted catalog.
type Page struct {
	Items         []Product `json:"items"`
	Page          int       `json:"page"`
	TotalPages    int       `json:"totalPages"`
	FilteredCount int       `json:"filteredCount"`
}

// Question models a multiple-choice question; Answer equals one of Choices.
type Question struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   string   `json:"answer"`
}

// QuizResult is the outcome of one completed quiz run.
type QuizResult struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Total int    `json:"total"`
}

// LeaderboardEntry is a persisted quiz result.
type LeaderboardEntry = QuizResult

// QuizState is the phase of a quiz session.
type QuizState string

const (
	QuizSetup    QuizState = "setup"
	QuizActive   QuizState = "active"
	QuizFinished QuizState = "finished"
)
