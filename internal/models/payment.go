package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the money was received
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "Cash"
	MethodCard   PaymentMethod = "Card"
	MethodUPI    PaymentMethod = "UPI"
	MethodBank   PaymentMethod = "BankTransfer"
	MethodCheque PaymentMethod = "Cheque"
)

// PaymentStatus is the lifecycle state of a payment record
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
	PaymentCancelled PaymentStatus = "Cancelled"
)

// Payment is a single money-received event against exactly one StudentFee.
// Immutable after creation except for status transitions.
type Payment struct {
	ID               int64           `json:"id"`
	StudentFeeID     int64           `json:"student_fee_id"`
	InstallmentID    *int64          `json:"installment_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentDate      time.Time       `json:"payment_date"`
	Method           PaymentMethod   `json:"method"`
	TransactionID    string          `json:"transaction_id"`
	ReceiptNumber    string          `json:"receipt_number"`
	Status           PaymentStatus   `json:"status"`
	ReceivedByUserID *int64          `json:"received_by_user_id,omitempty"`
	Remarks          string          `json:"remarks"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
