package email

import (
	"testing"

	"github.com/coachms/coaching-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReceiptBodyPartialPayment(t *testing.T) {
	// Second partial payment: the "received" line must show this payment's
	// amount, not the cumulative paid total.
	receipt := &models.FeeReceipt{
		ReceiptNumber:  "RCP-20240315-0002",
		StudentName:    "Asha Verma",
		ParentName:     "Ravi Verma",
		FeeDescription: "Tuition Fee (Tuition)",
		FeePeriod:      "March 2024",
		TotalAmount:    decimal.RequireFromString("1500.00"),
		PaidAmount:     decimal.RequireFromString("1000.00"),
		BalanceAmount:  decimal.RequireFromString("500.00"),
	}

	body := receiptBody(receipt, decimal.RequireFromString("600.00"))

	assert.Contains(t, body, "We have received a payment of 600.00 INR")
	assert.Contains(t, body, "Paid so far: 1000.00 INR")
	assert.Contains(t, body, "Balance: 500.00 INR")
	assert.NotContains(t, body, "payment of 1000.00 INR")
}
