package http

import (
	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

// JSON views of the domain and analytics types. Amounts are decimal
// strings ("12.34"); dates are YYYY-MM-DD.

type categoryRefJSON struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon,omitempty"`
}

type transactionJSON struct {
	ID            string           `json:"id"`
	CategoryID    string           `json:"category_id,omitempty"`
	Amount        string           `json:"amount"`
	Description   string           `json:"description"`
	Date          string           `json:"date"`
	Type          string           `json:"type"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	IsRecurring   bool             `json:"is_recurring"`
	Category      *categoryRefJSON `json:"category,omitempty"`
}

type categoryJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Icon  string `json:"icon,omitempty"`
}

type budgetJSON struct {
	ID         string           `json:"id"`
	CategoryID string           `json:"category_id"`
	Amount     string           `json:"amount"`
	Period     string           `json:"period"`
	StartDate  string           `json:"start_date"`
	EndDate    string           `json:"end_date"`
	Category   *categoryRefJSON `json:"category,omitempty"`
}

type dayBucketJSON struct {
	Date    string `json:"date"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

type monthBucketJSON struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Net     string `json:"net"`
}

type categoryTotalJSON struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Total string `json:"total"`
}

type categoryShareJSON struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Total string  `json:"total"`
	Share float64 `json:"share"`
}

type dashboardJSON struct {
	TotalIncome       string              `json:"total_income"`
	TotalExpenses     string              `json:"total_expenses"`
	Balance           string              `json:"balance"`
	MonthlyBudget     string              `json:"monthly_budget"`
	BudgetUsed        float64             `json:"budget_used"`
	Recent            []transactionJSON   `json:"recent"`
	Daily             []dayBucketJSON     `json:"daily"`
	ExpenseByCategory []categoryTotalJSON `json:"expense_by_category"`
}

type incomeJSON struct {
	TotalIncome      string              `json:"total_income"`
	MonthlyIncome    string              `json:"monthly_income"`
	LastMonthIncome  string              `json:"last_month_income"`
	MonthlyGrowth    float64             `json:"monthly_growth"`
	AvgTransaction   string              `json:"avg_transaction"`
	TransactionCount int                 `json:"transaction_count"`
	Daily            []dayBucketJSON     `json:"daily"`
	ByCategory       []categoryTotalJSON `json:"by_category"`
	Transactions     []transactionJSON   `json:"transactions"`
}

type reportJSON struct {
	Start            string              `json:"start"`
	End              string              `json:"end"`
	TotalIncome      string              `json:"total_income"`
	TotalExpenses    string              `json:"total_expenses"`
	NetSavings       string              `json:"net_savings"`
	SavingsRate      float64             `json:"savings_rate"`
	AvgDailySpending string              `json:"avg_daily_spending"`
	TransactionCount int                 `json:"transaction_count"`
	MonthlyTrend     []monthBucketJSON   `json:"monthly_trend"`
	ByCategory       []categoryTotalJSON `json:"by_category"`
	IncomeVsExpense  []namedTotalJSON    `json:"income_vs_expense"`
	Daily            []dayBucketJSON     `json:"daily"`
	TopSpending      []categoryShareJSON `json:"top_spending"`
}

type namedTotalJSON struct {
	Name  string `json:"name"`
	Total string `json:"total"`
}

type pageJSON struct {
	Items     []transactionJSON `json:"items"`
	Page      int               `json:"page"`
	PageCount int               `json:"page_count"`
	Total     int               `json:"total"`
}

type budgetReportJSON struct {
	Budget     budgetJSON `json:"budget"`
	Spent      string     `json:"spent"`
	Percentage float64    `json:"percentage"`
	Status     string     `json:"status"`
}

type budgetSummaryJSON struct {
	TotalBudget       string             `json:"total_budget"`
	TotalSpent        string             `json:"total_spent"`
	OverallPercentage float64            `json:"overall_percentage"`
	Reports           []budgetReportJSON `json:"reports"`
}

func categoryRefView(ref *core.CategoryRef) *categoryRefJSON {
	if ref == nil {
		return nil
	}
	return &categoryRefJSON{Name: ref.Name, Color: ref.Color, Icon: ref.Icon}
}

func transactionView(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:            tx.ID,
		CategoryID:    tx.CategoryID,
		Amount:        tx.Amount.Decimal(),
		Description:   tx.Description,
		Date:          tx.Date.Format(dateLayout),
		Type:          string(tx.Type),
		PaymentMethod: tx.PaymentMethod,
		IsRecurring:   tx.IsRecurring,
		Category:      categoryRefView(tx.Category),
	}
}

func transactionViews(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionView(tx))
	}
	return out
}

func categoryView(c core.Category) categoryJSON {
	return categoryJSON{
		ID:    c.ID,
		Name:  c.Name,
		Type:  string(c.Type),
		Color: c.Color,
		Icon:  c.Icon,
	}
}

func budgetView(b core.Budget) budgetJSON {
	return budgetJSON{
		ID:         b.ID,
		CategoryID: b.CategoryID,
		Amount:     b.Amount.Decimal(),
		Period:     string(b.Period),
		StartDate:  b.StartDate.Format(dateLayout),
		EndDate:    b.EndDate.Format(dateLayout),
		Category:   categoryRefView(b.Category),
	}
}

func dayBucketViews(buckets []analytics.DayBucket) []dayBucketJSON {
	out := make([]dayBucketJSON, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dayBucketJSON{
			Date:    b.Date.Format(dateLayout),
			Income:  b.Income.Decimal(),
			Expense: b.Expense.Decimal(),
		})
	}
	return out
}

func monthBucketViews(buckets []analytics.MonthBucket) []monthBucketJSON {
	out := make([]monthBucketJSON, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, monthBucketJSON{
			Year:    b.Year,
			Month:   int(b.Month),
			Income:  b.Income.Decimal(),
			Expense: b.Expense.Decimal(),
			Net:     b.Net.Decimal(),
		})
	}
	return out
}

func categoryTotalViews(totals []analytics.CategoryTotal) []categoryTotalJSON {
	out := make([]categoryTotalJSON, 0, len(totals))
	for _, t := range totals {
		out = append(out, categoryTotalJSON{Name: t.Name, Color: t.Color, Total: t.Total.Decimal()})
	}
	return out
}

func categoryShareViews(shares []analytics.CategoryShare) []categoryShareJSON {
	out := make([]categoryShareJSON, 0, len(shares))
	for _, s := range shares {
		out = append(out, categoryShareJSON{Name: s.Name, Color: s.Color, Total: s.Total.Decimal(), Share: s.Share})
	}
	return out
}

func dashboardView(d analytics.Dashboard) dashboardJSON {
	return dashboardJSON{
		TotalIncome:       d.Stats.TotalIncome.Decimal(),
		TotalExpenses:     d.Stats.TotalExpenses.Decimal(),
		Balance:           d.Stats.Balance.Decimal(),
		MonthlyBudget:     d.Stats.MonthlyBudget.Decimal(),
		BudgetUsed:        d.Stats.BudgetUsed,
		Recent:            transactionViews(d.Recent),
		Daily:             dayBucketViews(d.Daily),
		ExpenseByCategory: categoryTotalViews(d.ExpenseByCategory),
	}
}

func incomeView(a analytics.IncomeAnalytics, txs []core.Transaction) incomeJSON {
	return incomeJSON{
		TotalIncome:      a.Stats.TotalIncome.Decimal(),
		MonthlyIncome:    a.Stats.MonthlyIncome.Decimal(),
		LastMonthIncome:  a.Stats.LastMonthIncome.Decimal(),
		MonthlyGrowth:    a.Stats.MonthlyGrowth,
		AvgTransaction:   a.Stats.AvgTransaction.Decimal(),
		TransactionCount: a.Stats.TransactionCount,
		Daily:            dayBucketViews(a.Daily),
		ByCategory:       categoryTotalViews(a.ByCategory),
		Transactions:     transactionViews(txs),
	}
}

func reportView(r analytics.Report) reportJSON {
	return reportJSON{
		Start:            r.Window.Start.Format(dateLayout),
		End:              r.Window.End.Format(dateLayout),
		TotalIncome:      r.Summary.TotalIncome.Decimal(),
		TotalExpenses:    r.Summary.TotalExpenses.Decimal(),
		NetSavings:       r.Summary.NetSavings.Decimal(),
		SavingsRate:      r.Summary.SavingsRate,
		AvgDailySpending: r.Summary.AvgDailySpending.Decimal(),
		TransactionCount: r.Summary.TransactionCount,
		MonthlyTrend:     monthBucketViews(r.MonthlyTrend),
		ByCategory:       categoryTotalViews(r.ByCategory),
		IncomeVsExpense:  namedTotalViews(r.IncomeVsExpense),
		Daily:            dayBucketViews(r.Daily),
		TopSpending:      categoryShareViews(r.TopSpending),
	}
}

func namedTotalViews(totals []analytics.NamedTotal) []namedTotalJSON {
	out := make([]namedTotalJSON, 0, len(totals))
	for _, t := range totals {
		out = append(out, namedTotalJSON{Name: t.Name, Total: t.Total.Decimal()})
	}
	return out
}

func pageView(p analytics.Page) pageJSON {
	return pageJSON{
		Items:     transactionViews(p.Items),
		Page:      p.Page,
		PageCount: p.PageCount,
		Total:     p.Total,
	}
}

func budgetSummaryView(s analytics.BudgetSummary) budgetSummaryJSON {
	reports := make([]budgetReportJSON, 0, len(s.Reports))
	for _, r := range s.Reports {
		reports = append(reports, budgetReportJSON{
			Budget:     budgetView(r.Budget),
			Spent:      r.Spent.Decimal(),
			Percentage: r.Percentage,
			Status:     string(r.Status),
		})
	}
	return budgetSummaryJSON{
		TotalBudget:       s.TotalBudget.Decimal(),
		TotalSpent:        s.TotalSpent.Decimal(),
		OverallPercentage: s.OverallPercentage,
		Reports:           reports,
	}
}
