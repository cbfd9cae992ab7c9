package tui

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andy/billfold/internal/domain"
	"github.com/andy/billfold/internal/money"
)

// displayDateLayout matches the original "18 Aug 2021" presentation
const displayDateLayout = "02 Jan 2006"

// formatMoney renders an amount for display
func formatMoney(amount decimal.Decimal) string {
	return money.Format(amount)
}

// formatDate renders a calendar date for display
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format(displayDateLayout)
}

// formatStatus capitalizes a status for display
func formatStatus(status domain.Status) string {
	switch status {
	case domain.StatusDraft:
		return "Draft"
	case domain.StatusPending:
		return "Pending"
	case domain.StatusPaid:
		return "Paid"
	default:
		return string(status)
	}
}

// statusBadge renders an invoice status with color
func statusBadge(status domain.Status) string {
	switch status {
	case domain.StatusDraft:
		return draftBadgeStyle.Render("DRAFT")
	case domain.StatusPending:
		return pendingBadgeStyle.Render("PENDING")
	case domain.StatusPaid:
		return paidBadgeStyle.Render("PAID")
	default:
		return string(status)
	}
}

// countLine renders the pluralized invoice count
func countLine(n int) string {
	if n == 1 {
		return "There is 1 total invoice."
	}
	return fmt.Sprintf("There are %d total invoices.", n)
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
