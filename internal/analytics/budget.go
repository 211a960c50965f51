package analytics

import "fintrack/internal/core"

// BudgetStatus classifies spend against a budget ceiling.
type BudgetStatus string

const (
	StatusOnTrack    BudgetStatus = "on_track"
	StatusNearLimit  BudgetStatus = "near_limit"
	StatusOverBudget BudgetStatus = "over_budget"
)

// Threshold percentages for status classification. Exactly 80 is already
// near the limit and exactly 100 is already over it.
const (
	nearLimitThreshold  = 80
	overBudgetThreshold = 100
)

// StatusForPercentage maps a spend percentage to a status, first match wins.
func StatusForPercentage(pct float64) BudgetStatus {
	switch {
	case pct >= overBudgetThreshold:
		return StatusOverBudget
	case pct >= nearLimitThreshold:
		return StatusNearLimit
	default:
		return StatusOnTrack
	}
}

// BudgetReport is one budget joined with its actual spend.
type BudgetReport struct {
	Budget     core.Budget
	Spent      core.Money
	Percentage float64
	Status     BudgetStatus
}

// BudgetSummary aggregates all budget reports for a window.
type BudgetSummary struct {
	TotalBudget       core.Money
	TotalSpent        core.Money
	OverallPercentage float64
	Reports           []BudgetReport
}

// EvaluateBudget computes actual spend for one budget: expense transactions
// in the budget's category dated inside [StartDate, EndDate] inclusive.
// Retrieval of the records is the caller's concern; this never fails.
func EvaluateBudget(b core.Budget, txs []core.Transaction) BudgetReport {
	window := core.Window{Start: b.StartDate, End: b.EndDate}
	spent := Sum(txs, func(tx core.Transaction) bool {
		return tx.Type == core.Expense &&
			tx.CategoryID == b.CategoryID &&
			window.Contains(tx.Date)
	})
	pct := Percentage(spent.Cents, b.Amount.Cents)
	return BudgetReport{
		Budget:     b,
		Spent:      spent,
		Percentage: pct,
		Status:     StatusForPercentage(pct),
	}
}

// EvaluateBudgets evaluates every budget against the same transaction set
// and totals the result.
func EvaluateBudgets(budgets []core.Budget, txs []core.Transaction) BudgetSummary {
	summary := BudgetSummary{Reports: make([]BudgetReport, 0, len(budgets))}
	for _, b := range budgets {
		report := EvaluateBudget(b, txs)
		summary.Reports = append(summary.Reports, report)
		summary.TotalBudget = summary.TotalBudget.Add(b.Amount)
		summary.TotalSpent = summary.TotalSpent.Add(report.Spent)
	}
	summary.OverallPercentage = Percentage(summary.TotalSpent.Cents, summary.TotalBudget.Cents)
	return summary
}
