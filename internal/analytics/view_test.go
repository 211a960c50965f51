package analytics

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestApplyFilter(t *testing.T) {
	txs := []core.Transaction{
		expense(core.NewDate(2026, time.March, 1), 1, "Food"),
		expense(core.NewDate(2026, time.March, 2), 2, "Transport"),
		income(core.NewDate(2026, time.March, 3), 3, "Salary"),
	}
	txs[0].Description = "Grocery run"
	txs[1].Description = "Bus ticket"
	txs[2].Description = "March salary"

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"empty filter", Filter{}, 3},
		{"search description", Filter{Search: "grocery"}, 1},
		{"search category", Filter{Search: "transport"}, 1},
		{"search trims whitespace", Filter{Search: "  bus  "}, 1},
		{"category", Filter{Category: "Food"}, 1},
		{"type", Filter{Type: core.Income}, 1},
		{"type and search", Filter{Type: core.Expense, Search: "ticket"}, 1},
		{"no match", Filter{Search: "pizza"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyFilter(txs, tt.filter); len(got) != tt.want {
				t.Errorf("got %d transactions, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSortByDateDesc(t *testing.T) {
	txs := []core.Transaction{
		expense(core.NewDate(2026, time.March, 1), 1, "Food"),
		expense(core.NewDate(2026, time.March, 5), 2, "Food"),
		expense(core.NewDate(2026, time.March, 5), 3, "Food"),
	}

	sorted := SortByDateDesc(txs)
	if sorted[0].Amount.Cents != 2 || sorted[1].Amount.Cents != 3 {
		t.Errorf("same-day order not stable: %d then %d", sorted[0].Amount.Cents, sorted[1].Amount.Cents)
	}
	if sorted[2].Amount.Cents != 1 {
		t.Errorf("oldest last: got %d", sorted[2].Amount.Cents)
	}
	if txs[0].Amount.Cents != 1 {
		t.Error("input slice reordered")
	}
}

func TestPaginate(t *testing.T) {
	txs := make([]core.Transaction, 23)
	for i := range txs {
		txs[i] = expense(core.NewDate(2026, time.March, 1), int64(i+1), "Food")
	}

	tests := []struct {
		name      string
		page      int
		wantPage  int
		wantItems int
		wantFirst int64
	}{
		{"first page", 1, 1, 10, 1},
		{"middle page", 2, 2, 10, 11},
		{"last partial page", 3, 3, 3, 21},
		{"clamped low", 0, 1, 10, 1},
		{"clamped high", 99, 3, 3, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(txs, tt.page)
			if p.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.PageCount != 3 {
				t.Errorf("page count = %d, want 3", p.PageCount)
			}
			if p.Total != 23 {
				t.Errorf("total = %d, want 23", p.Total)
			}
			if len(p.Items) != tt.wantItems {
				t.Fatalf("got %d items, want %d", len(p.Items), tt.wantItems)
			}
			if p.Items[0].Amount.Cents != tt.wantFirst {
				t.Errorf("first item = %d, want %d", p.Items[0].Amount.Cents, tt.wantFirst)
			}
		})
	}

	t.Run("empty list", func(t *testing.T) {
		p := Paginate(nil, 5)
		if p.Page != 1 || p.PageCount != 1 || p.Total != 0 || len(p.Items) != 0 {
			t.Errorf("empty page = %+v", p)
		}
	})
}
