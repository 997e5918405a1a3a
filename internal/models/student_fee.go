package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeStatus is the lifecycle state of a StudentFee
type FeeStatus string

const (
	FeeStatusPending       FeeStatus = "Pending"
	FeeStatusPartiallyPaid FeeStatus = "PartiallyPaid"
	FeeStatusPaid          FeeStatus = "Paid"
	FeeStatusOverdue       FeeStatus = "Overdue"
	FeeStatusWaived        FeeStatus = "Waived"
	FeeStatusCancelled     FeeStatus = "Cancelled"
)

// IsTerminal reports whether no further payments are accepted in this state
func (s FeeStatus) IsTerminal() bool {
	return s == FeeStatusPaid || s == FeeStatusWaived || s == FeeStatusCancelled
}

// StudentFee is one owed-amount record for one student. The balance
// (final_amount - paid_amount) and the overdue state are always derived,
// never stored.
type StudentFee struct {
	ID                  int64           `json:"id"`
	StudentID           int64           `json:"student_id"`
	FeeStructureID      int64           `json:"fee_structure_id"`
	Amount              decimal.Decimal `json:"amount"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	DiscountReason      string          `json:"discount_reason"`
	FinalAmount         decimal.Decimal `json:"final_amount"`
	PaidAmount          decimal.Decimal `json:"paid_amount"`
	DueDate             time.Time       `json:"due_date"`
	Status              FeeStatus       `json:"status"`
	FeeCategory         FeeCategory     `json:"fee_category"`
	StartDate           *time.Time      `json:"start_date,omitempty"`
	EndDate             *time.Time      `json:"end_date,omitempty"`
	IsRecurring         bool            `json:"is_recurring"`
	RecurringDayOfMonth int             `json:"recurring_day_of_month"`
	ParentFeeID         *int64          `json:"parent_fee_id,omitempty"`
	LateFeePerDay       decimal.Decimal `json:"late_fee_per_day"`
	GracePeriodDays     int             `json:"grace_period_days"`
	Remarks             string          `json:"remarks"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Balance returns the amount still owed against the base charge
func (f *StudentFee) Balance() decimal.Decimal {
	return f.FinalAmount.Sub(f.PaidAmount)
}
