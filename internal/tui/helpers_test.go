package tui

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andy/billfold/internal/domain"
)

func TestCountLine(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "There are 0 total invoices."},
		{1, "There is 1 total invoice."},
		{7, "There are 7 total invoices."},
	}

	for _, tc := range cases {
		if got := countLine(tc.n); got != tc.want {
			t.Errorf("countLine(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2021, time.August, 19, 0, 0, 0, 0, time.UTC)
	if got := formatDate(d); got != "19 Aug 2021" {
		t.Errorf("formatDate = %q", got)
	}
	if got := formatDate(time.Time{}); got != "—" {
		t.Errorf("formatDate(zero) = %q", got)
	}
}

func TestFormatMoney(t *testing.T) {
	amount := decimal.RequireFromString("1800.9")
	if got := formatMoney(amount); got != "$1,800.90" {
		t.Errorf("formatMoney = %q", got)
	}
}

func TestFormatStatus(t *testing.T) {
	if got := formatStatus(domain.StatusPending); got != "Pending" {
		t.Errorf("formatStatus = %q", got)
	}
	if got := formatStatus(domain.Status("weird")); got != "weird" {
		t.Errorf("formatStatus fallback = %q", got)
	}
}

func TestTruncateStr(t *testing.T) {
	if got := truncateStr("short", 10); got != "short" {
		t.Errorf("truncateStr = %q", got)
	}
	if got := truncateStr("a very long client name", 10); got != "a very ..." {
		t.Errorf("truncateStr = %q", got)
	}
}
