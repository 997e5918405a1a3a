package fees

import (
	"fmt"
	"time"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
	"github.com/shopspring/decimal"
)

// OverdueInfo is the derived lateness state of a StudentFee at a point in
// time. TotalAmountDue = FinalAmount + LateFee; it ignores PaidAmount.
type OverdueInfo struct {
	IsOverdue      bool            `json:"is_overdue"`
	DaysOverdue    int             `json:"days_overdue"`
	LateFee        decimal.Decimal `json:"late_fee"`
	TotalAmountDue decimal.Decimal `json:"total_amount_due"`
}

// NewStudentFee creates a ledger entry for one assignment of a fee structure
// to a student. The entry starts Pending with nothing paid.
func NewStudentFee(structure *models.FeeStructure, studentID int64, dueDate time.Time, discount decimal.Decimal, discountReason string) (*models.StudentFee, error) {
	if structure == nil {
		return nil, fmt.Errorf("%w: fee structure is required", apperrors.ErrValidation)
	}
	if dueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", apperrors.ErrValidation)
	}
	if discount.IsNegative() {
		return nil, fmt.Errorf("%w: discount cannot be negative", apperrors.ErrValidation)
	}
	if discount.GreaterThan(structure.Amount) {
		return nil, fmt.Errorf("%w: discount %s exceeds fee amount %s",
			apperrors.ErrValidation, discount.StringFixed(2), structure.Amount.StringFixed(2))
	}

	return &models.StudentFee{
		StudentID:      studentID,
		FeeStructureID: structure.ID,
		Amount:         structure.Amount,
		DiscountAmount: discount,
		DiscountReason: discountReason,
		FinalAmount:    structure.Amount.Sub(discount),
		PaidAmount:     decimal.Zero,
		DueDate:        dueDate,
		Status:         models.FeeStatusPending,
		FeeCategory:    structure.Category,
		LateFeePerDay:  structure.LateFeePerDay,
	}, nil
}

// RecurringDay resolves the billing day of a recurring template. The daily
// job selects templates by an exact day match, so an unset day must be
// pinned at creation time or the template would never bill; it defaults to
// the due date's day.
func RecurringDay(dueDate time.Time, day int) int {
	if day <= 0 {
		return dueDate.Day()
	}
	return day
}

// OverdueState computes the lateness of a fee as of today. Monthly and
// Additional fees become overdue after their due date; FullCourse fees
// become overdue once the course has started and the fee is unpaid, whatever
// the due date says. Late fees accrue per day only beyond the grace period.
// Terminal fees always report a zeroed state.
func OverdueState(fee *models.StudentFee, today time.Time) OverdueInfo {
	info := OverdueInfo{LateFee: decimal.Zero, TotalAmountDue: decimal.Zero}
	if fee.Status.IsTerminal() {
		return info
	}

	anchor := fee.DueDate
	if fee.FeeCategory == models.CategoryFullCourse && fee.StartDate != nil {
		anchor = *fee.StartDate
	}

	info.TotalAmountDue = fee.FinalAmount
	days := daysBetween(anchor, today)
	if days <= 0 {
		return info
	}

	info.IsOverdue = true
	info.DaysOverdue = days
	if days > fee.GracePeriodDays && fee.LateFeePerDay.IsPositive() {
		info.LateFee = fee.LateFeePerDay.Mul(decimal.NewFromInt(int64(days - fee.GracePeriodDays)))
		info.TotalAmountDue = fee.FinalAmount.Add(info.LateFee)
	}
	return info
}

// ApplyPayment records money received against the fee and recomputes its
// status. The guard is strict: an amount that would push PaidAmount past
// FinalAmount plus the currently accrued late fee is rejected outright, and
// the caller must resubmit with the exact remainder.
func ApplyPayment(fee *models.StudentFee, amount decimal.Decimal, today time.Time) error {
	if fee.Status.IsTerminal() {
		return fmt.Errorf("%w: fee is %s and accepts no further payments", apperrors.ErrInvalidOperation, fee.Status)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	limit := fee.FinalAmount.Add(OverdueState(fee, today).LateFee)
	if fee.PaidAmount.Add(amount).GreaterThan(limit) {
		return fmt.Errorf("%w: payment %s exceeds outstanding amount %s",
			apperrors.ErrInvalidOperation, amount.StringFixed(2), limit.Sub(fee.PaidAmount).StringFixed(2))
	}

	fee.PaidAmount = fee.PaidAmount.Add(amount)
	switch {
	case fee.PaidAmount.GreaterThanOrEqual(fee.FinalAmount):
		fee.Status = models.FeeStatusPaid
	case fee.PaidAmount.IsPositive():
		fee.Status = models.FeeStatusPartiallyPaid
	}
	return nil
}

// Waive marks the fee as administratively waived regardless of balance.
// Irreversible: a waived fee accepts no further payments.
func Waive(fee *models.StudentFee, reason string) error {
	if fee.Status.IsTerminal() {
		return fmt.Errorf("%w: fee is already %s", apperrors.ErrInvalidOperation, fee.Status)
	}
	fee.Status = models.FeeStatusWaived
	if reason != "" {
		fee.Remarks = reason
	}
	return nil
}

// ApplyEarlyPaymentDiscount reduces an untouched fee by the structure's
// early-payment discount when payment arrives at least DiscountDaysBeforeDue
// days ahead of the due date. Eligibility is checked at payment time, never
// at generation time. Reports whether the discount was applied.
func ApplyEarlyPaymentDiscount(fee *models.StudentFee, structure *models.FeeStructure, today time.Time) bool {
	if structure == nil || !structure.DiscountAmount.IsPositive() || structure.DiscountDaysBeforeDue <= 0 {
		return false
	}
	if fee.Status.IsTerminal() || fee.PaidAmount.IsPositive() || fee.DiscountAmount.IsPositive() {
		return false
	}
	if daysBetween(today, fee.DueDate) < structure.DiscountDaysBeforeDue {
		return false
	}

	fee.DiscountAmount = structure.DiscountAmount
	fee.DiscountReason = "Early payment discount"
	fee.FinalAmount = fee.Amount.Sub(structure.DiscountAmount)
	return true
}

// daysBetween returns whole calendar days from one date to another,
// ignoring the time-of-day component.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f) / (24 * time.Hour))
}
