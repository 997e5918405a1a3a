package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleType selects how installments are generated
type ScheduleType string

const (
	ScheduleMonthly    ScheduleType = "Monthly"
	ScheduleFullCourse ScheduleType = "FullCourse"
)

// FeePaymentSchedule governs installment generation for one student and
// fee structure. PaidInstallments always equals the count of owned
// installments in status Paid.
type FeePaymentSchedule struct {
	ID                int64           `json:"id"`
	StudentID         int64           `json:"student_id"`
	FeeStructureID    int64           `json:"fee_structure_id"`
	ScheduleType      ScheduleType    `json:"schedule_type"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           *time.Time      `json:"end_date,omitempty"`
	MonthlyAmount     decimal.Decimal `json:"monthly_amount"`
	TotalInstallments int             `json:"total_installments"`
	PaidInstallments  int             `json:"paid_installments"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// FeeInstallment is one dated sub-payment of a schedule. Each installment is
// backed by its own StudentFee ledger entry; the installment row mirrors that
// entry's paid state for schedule-level reporting.
type FeeInstallment struct {
	ID                int64           `json:"id"`
	ScheduleID        int64           `json:"schedule_id"`
	StudentFeeID      int64           `json:"student_fee_id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           time.Time       `json:"due_date"`
	PaidDate          *time.Time      `json:"paid_date,omitempty"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	Status            FeeStatus       `json:"status"`
	LateFee           decimal.Decimal `json:"late_fee"`
	DiscountApplied   decimal.Decimal `json:"discount_applied"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
