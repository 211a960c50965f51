package analytics

import (
	"sort"
	"strings"

	"fintrack/internal/core"
)

// PageSize is the fixed number of transactions per listing page.
const PageSize = 10

// Filter narrows a transaction listing. Zero-value fields match everything.
type Filter struct {
	Search   string
	Category string
	Type     core.TransactionType
}

// Page is one page of a transaction listing.
type Page struct {
	Items     []core.Transaction
	Page      int
	PageCount int
	Total     int
}

// ApplyFilter keeps the transactions matching every non-empty filter field.
// Search matches the description or category name case-insensitively.
func ApplyFilter(txs []core.Transaction, f Filter) []core.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	filtered := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if search != "" {
			desc := strings.ToLower(tx.Description)
			cat := strings.ToLower(tx.CategoryName(""))
			if !strings.Contains(desc, search) && !strings.Contains(cat, search) {
				continue
			}
		}
		if f.Category != "" && tx.CategoryName("") != f.Category {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		filtered = append(filtered, tx)
	}
	return filtered
}

// SortByDateDesc returns a copy of txs ordered newest first. Transactions
// on the same day keep their input order.
func SortByDateDesc(txs []core.Transaction) []core.Transaction {
	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})
	return sorted
}

// Paginate slices txs into the requested page. An out-of-range page is
// clamped into [1, pageCount]; an empty list yields a single empty page.
func Paginate(txs []core.Transaction, page int) Page {
	total := len(txs)
	pageCount := (total + PageSize - 1) / PageSize
	if pageCount < 1 {
		pageCount = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:     txs[start:end],
		Page:      page,
		PageCount: pageCount,
		Total:     total,
	}
}
