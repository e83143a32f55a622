package catalog

import (
	"sort"
	"strings"

	"storefront-quiz-service/internal/domain"
)

// PageSize is the number of products per catalog page.
const PageSize = 5

// Query selects a page of the catalog.
type Query struct {
	Search string
	Sort   domain.SortMode
	Page   int
}

// FilterSortPaginate filters products by a case-insensitive substring of name
// or description, sorts them stably by price, and returns the requested page
// clamped into range. With no matches it returns an empty page 1 of 1.
// The input slice is not modified.
func FilterSortPaginate(products []domain.Product, q Query, pageSize int) domain.Page {
	if pageSize < 1 {
		pageSize = PageSize
	}

	needle := strings.ToLower(q.Search)
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(p, needle) {
			filtered = append(filtered, p)
		}
	}

	switch q.Sort {
	case domain.SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case domain.SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	}

	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	page := ClampPage(q.Page, totalPages)

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return domain.Page{
		Items:         filtered[start:end:end],
		Page:          page,
		TotalPages:    totalPages,
		FilteredCount: len(filtered),
	}
}

// ClampPage bounds a 1-based page number into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func matches(p domain.Product, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}
