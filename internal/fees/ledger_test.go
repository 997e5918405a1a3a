package fees

import (
	"testing"
	"time"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tuitionStructure(amount string) *models.FeeStructure {
	return &models.FeeStructure{
		ID:       1,
		Name:     "Tuition Fee",
		Type:     "Tuition",
		Category: models.CategoryMonthly,
		Amount:   dec(amount),
	}
}

func TestNewStudentFee(t *testing.T) {
	structure := tuitionStructure("1000.00")

	fee, err := NewStudentFee(structure, 42, date(2024, time.January, 10), dec("150.50"), "Sibling discount")
	require.NoError(t, err)

	assert.True(t, fee.FinalAmount.Equal(dec("849.50")), "final = amount - discount, got %s", fee.FinalAmount)
	assert.True(t, fee.PaidAmount.IsZero())
	assert.Equal(t, models.FeeStatusPending, fee.Status)
	assert.Equal(t, models.CategoryMonthly, fee.FeeCategory)
	assert.Equal(t, int64(42), fee.StudentID)
}

func TestNewStudentFeeValidation(t *testing.T) {
	structure := tuitionStructure("1000.00")

	_, err := NewStudentFee(structure, 1, time.Time{}, decimal.Zero, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = NewStudentFee(structure, 1, date(2024, time.January, 10), dec("1000.01"), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = NewStudentFee(structure, 1, date(2024, time.January, 10), dec("-1"), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = NewStudentFee(nil, 1, date(2024, time.January, 10), decimal.Zero, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestApplyPaymentExactSequence(t *testing.T) {
	fee, err := NewStudentFee(tuitionStructure("1000.00"), 1, date(2024, time.March, 10), decimal.Zero, "")
	require.NoError(t, err)
	today := date(2024, time.March, 1)

	require.NoError(t, ApplyPayment(fee, dec("400.00"), today))
	assert.Equal(t, models.FeeStatusPartiallyPaid, fee.Status)
	assert.True(t, fee.Balance().Equal(dec("600.00")))

	require.NoError(t, ApplyPayment(fee, dec("600.00"), today))
	assert.Equal(t, models.FeeStatusPaid, fee.Status)
	assert.True(t, fee.Balance().IsZero())
}

func TestApplyPaymentPartial(t *testing.T) {
	fee, err := NewStudentFee(tuitionStructure("1000.00"), 1, date(2024, time.March, 10), decimal.Zero, "")
	require.NoError(t, err)

	require.NoError(t, ApplyPayment(fee, dec("0.01"), date(2024, time.March, 1)))
	assert.Equal(t, models.FeeStatusPartiallyPaid, fee.Status)
	assert.True(t, fee.Balance().Equal(dec("999.99")))
}

func TestApplyPaymentOverpaymentRejected(t *testing.T) {
	fee, err := NewStudentFee(tuitionStructure("1000.00"), 1, date(2024, time.March, 10), decimal.Zero, "")
	require.NoError(t, err)
	today := date(2024, time.March, 1)

	require.NoError(t, ApplyPayment(fee, dec("900.00"), today))

	err = ApplyPayment(fee, dec("100.01"), today)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOperation)
	assert.True(t, fee.PaidAmount.Equal(dec("900.00")), "paid amount must be unchanged after rejection")
	assert.Equal(t, models.FeeStatusPartiallyPaid, fee.Status)
}

func TestApplyPaymentNonPositiveAmount(t *testing.T) {
	fee, err := NewStudentFee(tuitionStructure("1000.00"), 1, date(2024, time.March, 10), decimal.Zero, "")
	require.NoError(t, err)

	assert.ErrorIs(t, ApplyPayment(fee, decimal.Zero, date(2024, time.March, 1)), apperrors.ErrValidation)
	assert.ErrorIs(t, ApplyPayment(fee, dec("-10"), date(2024, time.March, 1)), apperrors.ErrValidation)
}

func TestApplyPaymentCoversAccruedLateFee(t *testing.T) {
	fee, err := NewStudentFee(tuitionStructure("1000.00"), 1, date(2024, time.January, 10), decimal.Zero, "")
	require.NoError(t, err)
	fee.LateFeePerDay = dec("50")
	fee.GracePeriodDays = 3

	// 5 days late, 2 chargeable => 100 late fee; full amount plus the late
	// fee is collectible in one payment.
	today := date(2024, time.January, 15)
	assert.ErrorIs(t, ApplyPayment(fee, dec("1100.01"), today), apperrors.ErrInvalidOperation)

	require.NoError(t, ApplyPayment(fee, dec("1100.00"), today))
	assert.Equal(t, models.FeeStatusPaid, fee.Status)
}

func TestOverdueStateMonthly(t *testing.T) {
	fee, err := NewStudentFee(tuitionStructure("1000.00"), 1, date(2024, time.January, 10), decimal.Zero, "")
	require.NoError(t, err)
	fee.LateFeePerDay = dec("50")
	fee.GracePeriodDays = 3

	info := OverdueState(fee, date(2024, time.January, 15))
	assert.True(t, info.IsOverdue)
	assert.Equal(t, 5, info.DaysOverdue)
	assert.True(t, info.LateFee.Equal(dec("100")), "late fee = (5-3)*50, got %s", info.LateFee)
	assert.True(t, info.TotalAmountDue.Equal(dec("1100")))
}

func TestOverdueStateWithinGracePeriod(t *testing.T) {
	fee, err := NewStudentFee(tuitionStructure("1000.00"), 1, date(2024, time.January, 10), decimal.Zero, "")
	require.NoError(t, err)
	fee.LateFeePerDay = dec("50")
	fee.GracePeriodDays = 3

	info := OverdueState(fee, date(2024, time.January, 13))
	assert.True(t, info.IsOverdue)
	assert.Equal(t, 3, info.DaysOverdue)
	assert.True(t, info.LateFee.IsZero())
	assert.True(t, info.TotalAmountDue.Equal(dec("1000")))
}

func TestOverdueStateNotDueYet(t *testing.T) {
	fee, err := NewStudentFee(tuitionStructure("1000.00"), 1, date(2024, time.January, 10), decimal.Zero, "")
	require.NoError(t, err)

	info := OverdueState(fee, date(2024, time.January, 10))
	assert.False(t, info.IsOverdue)
	assert.Equal(t, 0, info.DaysOverdue)
	assert.True(t, info.TotalAmountDue.Equal(dec("1000")))
}

func TestOverdueStateFullCourseAnchorsOnStartDate(t *testing.T) {
	start := date(2024, time.January, 1)
	fee := &models.StudentFee{
		Amount:      dec("30000"),
		FinalAmount: dec("30000"),
		PaidAmount:  decimal.Zero,
		// Due date far in the future must not matter for FullCourse.
		DueDate:     date(2024, time.June, 1),
		Status:      models.FeeStatusPending,
		FeeCategory: models.CategoryFullCourse,
		StartDate:   &start,
	}

	info := OverdueState(fee, date(2024, time.February, 1))
	assert.True(t, info.IsOverdue)
	assert.Equal(t, 31, info.DaysOverdue)
}

func TestOverdueStateTerminalZeroed(t *testing.T) {
	for _, status := range []models.FeeStatus{models.FeeStatusPaid, models.FeeStatusWaived, models.FeeStatusCancelled} {
		fee := &models.StudentFee{
			FinalAmount:   dec("1000"),
			DueDate:       date(2024, time.January, 10),
			Status:        status,
			FeeCategory:   models.CategoryMonthly,
			LateFeePerDay: dec("50"),
		}
		info := OverdueState(fee, date(2024, time.June, 1))
		assert.False(t, info.IsOverdue, "status %s", status)
		assert.True(t, info.LateFee.IsZero())
		assert.True(t, info.TotalAmountDue.IsZero())
	}
}

func TestWaiveBlocksFurtherPayments(t *testing.T) {
	fee, err := NewStudentFee(tuitionStructure("1000.00"), 1, date(2024, time.March, 10), decimal.Zero, "")
	require.NoError(t, err)
	today := date(2024, time.March, 1)
	require.NoError(t, ApplyPayment(fee, dec("300.00"), today))

	require.NoError(t, Waive(fee, "Scholarship granted"))
	assert.Equal(t, models.FeeStatusWaived, fee.Status)
	assert.Equal(t, "Scholarship granted", fee.Remarks)

	assert.ErrorIs(t, ApplyPayment(fee, dec("100.00"), today), apperrors.ErrInvalidOperation)
	assert.ErrorIs(t, Waive(fee, "again"), apperrors.ErrInvalidOperation)
}

func TestApplyEarlyPaymentDiscount(t *testing.T) {
	structure := tuitionStructure("1000.00")
	structure.DiscountAmount = dec("100.00")
	structure.DiscountDaysBeforeDue = 5

	fee, err := NewStudentFee(structure, 1, date(2024, time.March, 10), decimal.Zero, "")
	require.NoError(t, err)

	// Too close to the due date: no discount.
	assert.False(t, ApplyEarlyPaymentDiscount(fee, structure, date(2024, time.March, 7)))
	assert.True(t, fee.FinalAmount.Equal(dec("1000.00")))

	// Five full days ahead: discount applies once.
	assert.True(t, ApplyEarlyPaymentDiscount(fee, structure, date(2024, time.March, 5)))
	assert.True(t, fee.FinalAmount.Equal(dec("900.00")))
	assert.False(t, ApplyEarlyPaymentDiscount(fee, structure, date(2024, time.March, 5)))
}

func TestRecurringDay(t *testing.T) {
	// The daily job matches templates by exact day, so an unset day must
	// resolve to the due date's day or the template would never bill.
	assert.Equal(t, 5, RecurringDay(date(2024, time.April, 5), 0))
	assert.Equal(t, 31, RecurringDay(date(2024, time.January, 31), 0))
	assert.Equal(t, 15, RecurringDay(date(2024, time.April, 5), 15))
	assert.Equal(t, 5, RecurringDay(date(2024, time.April, 5), -1))
}
