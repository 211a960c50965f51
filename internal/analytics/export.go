package analytics

import (
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"
)

// exportFallbackCategory is shown in CSV rows whose category was deleted.
const exportFallbackCategory = "N/A"

// ExportFilename builds a dated download name such as
// "transactions-2026-09-01.csv".
func ExportFilename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", prefix, now.Format("2006-01-02"))
}

// ExportCSV renders a transaction listing as CSV. Fields are joined
// verbatim, matching the export format clients already parse.
func ExportCSV(txs []core.Transaction) string {
	var b strings.Builder
	writeRow(&b, "Date", "Description", "Category", "Type", "Amount", "Payment Method")
	for _, tx := range txs {
		writeRow(&b,
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.CategoryName(exportFallbackCategory),
			string(tx.Type),
			tx.Amount.Decimal(),
			tx.PaymentMethod,
		)
	}
	return b.String()
}

// ExportIncomeCSV renders income transactions as CSV, flagging recurring
// entries.
func ExportIncomeCSV(txs []core.Transaction) string {
	var b strings.Builder
	writeRow(&b, "Date", "Description", "Category", "Amount", "Payment Method", "Recurring")
	for _, tx := range txs {
		recurring := "No"
		if tx.IsRecurring {
			recurring = "Yes"
		}
		writeRow(&b,
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.CategoryName(exportFallbackCategory),
			tx.Amount.Decimal(),
			tx.PaymentMethod,
			recurring,
		)
	}
	return b.String()
}

// ExportReportCSV renders a report's summary and top categories as CSV.
func ExportReportCSV(r Report) string {
	var b strings.Builder
	writeRow(&b, "Report Summary")
	writeRow(&b, "Period", fmt.Sprintf("%s to %s",
		r.Window.Start.Format("2006-01-02"), r.Window.End.Format("2006-01-02")))
	writeRow(&b, "Total Income", r.Summary.TotalIncome.Decimal())
	writeRow(&b, "Total Expenses", r.Summary.TotalExpenses.Decimal())
	writeRow(&b, "Net Income", r.Summary.NetSavings.Decimal())
	writeRow(&b, "Average Daily Spending", r.Summary.AvgDailySpending.Decimal())
	writeRow(&b, "Total Transactions", fmt.Sprintf("%d", r.Summary.TransactionCount))
	writeRow(&b)
	writeRow(&b, "Top Categories")
	writeRow(&b, "Category", "Amount")
	for _, cat := range r.TopSpending {
		writeRow(&b, cat.Name, cat.Total.Decimal())
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields ...string) {
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(strings.Join(fields, ","))
}
