package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeCategory decides how a fee is billed and when it counts as overdue
type FeeCategory string

const (
	CategoryMonthly    FeeCategory = "Monthly"
	CategoryFullCourse FeeCategory = "FullCourse"
	CategoryAdditional FeeCategory = "Additional"
)

// FeeStructure is a catalog definition of a chargeable item. It is never
// hard-deleted while a StudentFee references it.
type FeeStructure struct {
	ID                    int64           `json:"id"`
	Name                  string          `json:"name"`
	Type                  string          `json:"type"` // Tuition, Admission, Exam, ...
	Category              FeeCategory     `json:"category"`
	Amount                decimal.Decimal `json:"amount"`
	Frequency             string          `json:"frequency"`
	ClassID               *int64          `json:"class_id,omitempty"`
	AcademicYear          string          `json:"academic_year"`
	DurationMonths        int             `json:"duration_months"`
	LateFeePerDay         decimal.Decimal `json:"late_fee_per_day"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	DiscountDaysBeforeDue int             `json:"discount_days_before_due"`
	IsRefundable          bool            `json:"is_refundable"`
	RefundPercentage      decimal.Decimal `json:"refund_percentage"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}
