package app

import (
	"context"
	"fmt"

	"storefront-quiz-service/internal/catalog"
	"storefront-quiz-service/internal/domain"
	"storefront-quiz-service/internal/metrics"
	"storefront-quiz-service/internal/render"
)

// Storefront is the per-client catalog app: query state, cart and cart panel.
// Dispatch must be called from a single goroutine.
type Storefront struct {
	catalog  *catalog.Store
	cart     *CartStore
	search   string
	sort     domain.SortMode
	page     int
	cartOpen bool
}

func NewStorefront(store *catalog.Store, cart *CartStore) *Storefront {
	return &Storefront{catalog: store, cart: cart, page: 1}
}

// Dispatch applies cmd and returns the re-rendered view. Only persistence
// failures are returned as errors; the view is still valid in that case.
func (s *Storefront) Dispatch(ctx context.Context, cmd Command) (render.StorefrontView, error) {
	metrics.CommandsTotal.WithLabelValues("storefront", cmd.CommandName()).Inc()

	var err error
	notice := ""
	switch c := cmd.(type) {
	case Search:
		s.search = c.Text
		s.page = 1
	case SetSort:
		s.sort = normalizeSort(c.Mode)
		s.page = 1
	case GoToPage:
		s.page = c.Page
	case PrevPage:
		if s.page > 1 {
			s.page--
		}
	case NextPage:
		if s.page < s.currentPage().TotalPages {
			s.page++
		}
	case AddToCart:
		if _, ok := s.catalog.Product(c.ProductID); !ok {
			notice = fmt.Sprintf("%v: %d", domain.ErrProductNotFound, c.ProductID)
			break
		}
		err = s.cart.Add(ctx, c.ProductID, c.Quantity)
	case ChangeQuantity:
		err = s.cart.ChangeQuantity(ctx, c.ProductID, c.Delta)
	case RemoveFromCart:
		err = s.cart.Remove(ctx, c.ProductID)
	case ClearCart:
		err = s.cart.Clear(ctx)
	case OpenCart:
		s.cartOpen = true
	case CloseCart:
		s.cartOpen = false
	case Refresh:
	default:
		notice = fmt.Sprintf("Unsupported action %q.", cmd.CommandName())
	}
	if err != nil {
		notice = "Your cart could not be saved. Please try again."
	}
	return s.View(notice), err
}

// View renders the current state. The stored page is clamped so that a
// shrinking result set never leaves it out of range.
func (s *Storefront) View(notice string) render.StorefrontView {
	page := s.currentPage()
	s.page = page.Page
	return render.Storefront(render.StorefrontState{
		Page:     page,
		Lines:    s.cart.Lines(),
		Totals:   s.cart.Totals(),
		Search:   s.search,
		Sort:     s.sort,
		CartOpen: s.cartOpen,
		Notice:   notice,
	})
}

func (s *Storefront) currentPage() domain.Page {
	return s.catalog.Catalog().Query(catalog.Query{Search: s.search, Sort: s.sort, Page: s.page})
}

func normalizeSort(mode domain.SortMode) domain.SortMode {
	switch mode {
	case domain.SortPriceAsc, domain.SortPriceDesc:
		return mode
	default:
		return domain.SortNone
	}
}
