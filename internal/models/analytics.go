package models

import "github.com/shopspring/decimal"

// MonthlyCollection represents fee collection totals for one month
type MonthlyCollection struct {
	Month     string          `json:"month"` // Format: YYYY-MM
	Collected decimal.Decimal `json:"collected"`
	Payments  int             `json:"payments"`
}

// OutstandingSummary represents dues across all non-terminal student fees
type OutstandingSummary struct {
	TotalBilled      decimal.Decimal `json:"total_billed"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	PendingFees      int             `json:"pending_fees"`
	PartiallyPaid    int             `json:"partially_paid"`
	OverdueFees      int             `json:"overdue_fees"`
	OverdueAmount    decimal.Decimal `json:"overdue_amount"`
}
