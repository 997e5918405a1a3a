package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeReceipt is an immutable snapshot taken after a payment completes.
// Student and fee details are denormalized so the receipt stays valid even
// if the underlying records change later. Only the delivery flags are ever
// updated after creation.
type FeeReceipt struct {
	ID             int64           `json:"id"`
	ReceiptNumber  string          `json:"receipt_number"`
	PaymentID      int64           `json:"payment_id"`
	StudentID      int64           `json:"student_id"`
	StudentName    string          `json:"student_name"`
	ClassName      string          `json:"class_name"`
	ParentName     string          `json:"parent_name"`
	ParentContact  string          `json:"parent_contact"`
	FeeDescription string          `json:"fee_description"`
	FeePeriod      string          `json:"fee_period"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	BalanceAmount  decimal.Decimal `json:"balance_amount"`
	IssuedAt       time.Time       `json:"issued_at"`
	IsEmailSent    bool            `json:"is_email_sent"`
	EmailSentAt    *time.Time      `json:"email_sent_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// FeeReceiptItem is one line entry on a receipt
type FeeReceiptItem struct {
	ID           int64           `json:"id"`
	ReceiptID    int64           `json:"receipt_id"`
	StudentFeeID int64           `json:"student_fee_id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
}
