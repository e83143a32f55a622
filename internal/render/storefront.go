// Package render projects app state into the views sent to clients. Nothing
// here performs I/O or mutates its inputs.
package render

import (
	"fmt"

	"storefront-quiz-service/internal/domain"
)

// BlankImage is shown for products without an image.
const BlankImage = "product-imgs/blank.png"

// StorefrontView is everything a client needs to draw the storefront.
type StorefrontView struct {
	Products   []ProductCard `json:"products"`
	Cart       CartView      `json:"cart"`
	Pagination Pagination    `json:"pagination"`
	Search     string        `json:"search"`
	Sort       string        `json:"sort"`
	CartOpen   bool          `json:"cartOpen"`
	Notice     string        `json:"notice,omitempty"`
}

// ProductCard is one product in the grid with its add-to-cart control.
type ProductCard struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	Image           string `json:"image"`
	DefaultQuantity int    `json:"defaultQuantity"`
}

// CartView is the cart panel.
type CartView struct {
	Lines     []CartLineView `json:"lines"`
	ItemCount int            `json:"itemCount"`
	Subtotal  string         `json:"subtotal"`
	Shipping  string         `json:"shipping"`
	Total     string         `json:"total"`
}

// CartLineView is one cart line with its -/+/remove controls.
type CartLineView struct {
	ProductID int       `json:"productId"`
	Label     string    `json:"label"`
	Quantity  int       `json:"quantity"`
	Controls  []Control `json:"controls"`
}

// Control is an actionable element. Command and Args describe what selecting
// it dispatches.
type Control struct {
	Label    string         `json:"label"`
	Command  string         `json:"command"`
	Args     map[string]int `json:"args,omitempty"`
	Disabled bool           `json:"disabled,omitempty"`
	Active   bool           `json:"active,omitempty"`
}

// Pagination holds the prev/next arrows and one control per page.
type Pagination struct {
	Prev  Control   `json:"prev"`
	Next  Control   `json:"next"`
	Pages []Control `json:"pages"`
}

// StorefrontState is the input to Storefront.
type StorefrontState struct {
	Page     domain.Page
	Lines    []domain.CartLine
	Totals   domain.CartTotals
	Search   string
	Sort     domain.SortMode
	CartOpen bool
	Notice   string
}

// Storefront builds the product grid, cart panel and pagination.
func Storefront(st StorefrontState) StorefrontView {
	cards := make([]ProductCard, 0, len(st.Page.Items))
	for _, p := range st.Page.Items {
		image := p.Image
		if image == "" {
			image = BlankImage
		}
		cards = append(cards, ProductCard{
			ID:              p.ID,
			Name:            p.Name,
			Description:     p.Description,
			Price:           money(p.Price),
			Image:           image,
			DefaultQuantity: 1,
		})
	}

	return StorefrontView{
		Products:   cards,
		Cart:       Cart(st.Lines, st.Totals),
		Pagination: Pages(st.Page.Page, st.Page.TotalPages),
		Search:     st.Search,
		Sort:       string(st.Sort),
		CartOpen:   st.CartOpen,
		Notice:     st.Notice,
	}
}

// Cart renders the cart panel.
func Cart(lines []domain.CartLine, totals domain.CartTotals) CartView {
	views := make([]CartLineView, 0, len(lines))
	for _, line := range lines {
		id := map[string]int{"productId": line.ID}
		views = append(views, CartLineView{
			ProductID: line.ID,
			Label:     fmt.Sprintf("%s x%d", line.Name, line.Quantity),
			Quantity:  line.Quantity,
			Controls: []Control{
				{Label: "−", Command: "changeQuantity", Args: map[string]int{"productId": line.ID, "delta": -1}},
				{Label: "+", Command: "changeQuantity", Args: map[string]int{"productId": line.ID, "delta": 1}},
				{Label: "Remove", Command: "removeFromCart", Args: id},
			},
		})
	}
	return CartView{
		Lines:     views,
		ItemCount: totals.ItemCount,
		Subtotal:  money(totals.Subtotal),
		Shipping:  money(totals.Shipping),
		Total:     money(totals.Total),
	}
}

// Pages renders pagination for the current page out of total.
func Pages(current, total int) Pagination {
	if total < 1 {
		total = 1
	}
	pages := make([]Control, 0, total)
	for i := 1; i <= total; i++ {
		pages = append(pages, Control{
			Label:   fmt.Sprint(i),
			Command: "goToPage",
			Args:    map[string]int{"page": i},
			Active:  i == current,
		})
	}
	return Pagination{
		Prev:  Control{Label: "←", Command: "prevPage", Disabled: current <= 1},
		Next:  Control{Label: "→", Command: "nextPage", Disabled: current >= total},
		Pages: pages,
	}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
