package fees

import (
	"testing"
	"time"

	"github.com/coachms/coaching-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptNumber(t *testing.T) {
	assert.Equal(t, "RCP-20240115-0001", ReceiptNumber(date(2024, time.January, 15), 1))
	assert.Equal(t, "RCP-20240115-0042", ReceiptNumber(date(2024, time.January, 15), 42))
	assert.Equal(t, "RCP-20241231-12345", ReceiptNumber(date(2024, time.December, 31), 12345))
}

func TestBuildReceipt(t *testing.T) {
	structure := tuitionStructure("1000.00")
	fee, err := NewStudentFee(structure, 42, date(2024, time.March, 10), decimal.Zero, "")
	require.NoError(t, err)
	fee.ID = 9
	require.NoError(t, ApplyPayment(fee, dec("600.00"), date(2024, time.March, 1)))

	payment := &models.Payment{
		ID:           17,
		StudentFeeID: 9,
		Amount:       dec("600.00"),
		Status:       models.PaymentCompleted,
	}
	student := &models.Student{
		ID:          42,
		Name:        "Asha Verma",
		ParentName:  "Rohit Verma",
		ParentPhone: "+91-9800000000",
	}

	receipt, items := BuildReceipt(ReceiptContext{
		Payment:   payment,
		Fee:       fee,
		Structure: structure,
		Student:   student,
		ClassName: "Class X - Physics",
	}, "RCP-20240301-0007", date(2024, time.March, 1))

	assert.Equal(t, "RCP-20240301-0007", receipt.ReceiptNumber)
	assert.Equal(t, int64(17), receipt.PaymentID)
	assert.Equal(t, "Asha Verma", receipt.StudentName)
	assert.Equal(t, "Class X - Physics", receipt.ClassName)
	assert.Equal(t, "Rohit Verma", receipt.ParentName)
	assert.Equal(t, "Tuition Fee (Tuition)", receipt.FeeDescription)
	assert.Equal(t, "March 2024", receipt.FeePeriod)
	assert.True(t, receipt.TotalAmount.Equal(dec("1000.00")))
	assert.True(t, receipt.PaidAmount.Equal(dec("600.00")))
	assert.True(t, receipt.BalanceAmount.Equal(dec("400.00")))
	assert.False(t, receipt.IsEmailSent)

	require.Len(t, items, 1)
	assert.Equal(t, int64(9), items[0].StudentFeeID)
	assert.True(t, items[0].Amount.Equal(dec("600.00")))
}

func TestBuildReceiptFullCoursePeriod(t *testing.T) {
	start := date(2024, time.January, 1)
	end := date(2024, time.June, 1)
	fee := &models.StudentFee{
		ID:          3,
		FinalAmount: dec("30000"),
		PaidAmount:  dec("30000"),
		DueDate:     start,
		Status:      models.FeeStatusPaid,
		FeeCategory: models.CategoryFullCourse,
		StartDate:   &start,
		EndDate:     &end,
	}

	receipt, _ := BuildReceipt(ReceiptContext{
		Payment: &models.Payment{ID: 1, Amount: dec("30000")},
		Fee:     fee,
		Student: &models.Student{ID: 5, Name: "Dev Patel"},
	}, "RCP-20240101-0001", start)

	assert.Equal(t, "01 Jan 2024 - 01 Jun 2024", receipt.FeePeriod)
	assert.True(t, receipt.BalanceAmount.IsZero())
}
