package fees

import (
	"fmt"
	"time"

	"github.com/coachms/coaching-service/internal/models"
)

// ReceiptContext bundles the records a receipt snapshot is taken from.
type ReceiptContext struct {
	Payment   *models.Payment
	Fee       *models.StudentFee
	Structure *models.FeeStructure
	Student   *models.Student
	ClassName string
}

// ReceiptNumber formats the unique number for a receipt issued on the given
// day with that day's sequence value. Monotonic within a day, unique by
// construction of the sequence.
func ReceiptNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("RCP-%s-%04d", day.Format("20060102"), seq)
}

// BuildReceipt snapshots a completed payment into an immutable receipt with
// one line item per contributing fee. Student and fee details are copied so
// the receipt survives later edits to the underlying records.
func BuildReceipt(rc ReceiptContext, number string, issuedAt time.Time) (*models.FeeReceipt, []*models.FeeReceiptItem) {
	receipt := &models.FeeReceipt{
		ReceiptNumber:  number,
		PaymentID:      rc.Payment.ID,
		StudentID:      rc.Student.ID,
		StudentName:    rc.Student.Name,
		ClassName:      rc.ClassName,
		ParentName:     rc.Student.ParentName,
		ParentContact:  rc.Student.ParentPhone,
		FeeDescription: feeDescription(rc.Structure),
		FeePeriod:      feePeriod(rc.Fee),
		TotalAmount:    rc.Fee.FinalAmount,
		PaidAmount:     rc.Fee.PaidAmount,
		BalanceAmount:  rc.Fee.Balance(),
		IssuedAt:       issuedAt,
	}

	items := []*models.FeeReceiptItem{{
		StudentFeeID: rc.Fee.ID,
		Description:  feeDescription(rc.Structure),
		Amount:       rc.Payment.Amount,
	}}
	return receipt, items
}

func feeDescription(structure *models.FeeStructure) string {
	if structure == nil {
		return ""
	}
	if structure.Type == "" {
		return structure.Name
	}
	return fmt.Sprintf("%s (%s)", structure.Name, structure.Type)
}

func feePeriod(fee *models.StudentFee) string {
	if fee.FeeCategory == models.CategoryFullCourse && fee.StartDate != nil && fee.EndDate != nil {
		return fmt.Sprintf("%s - %s", fee.StartDate.Format("02 Jan 2006"), fee.EndDate.Format("02 Jan 2006"))
	}
	return fee.DueDate.Format("January 2006")
}
