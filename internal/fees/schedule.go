package fees

import (
	"fmt"
	"time"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
	"github.com/shopspring/decimal"
)

// ScheduleInput carries everything needed to expand a fee structure
// assignment into dated installments.
type ScheduleInput struct {
	Structure *models.FeeStructure
	StudentID int64
	StartDate time.Time
	Type      models.ScheduleType

	// Installments is the FullCourse split count. For Monthly schedules it is
	// only consulted when the structure carries no duration, as the
	// caller-supplied bound.
	Installments int

	// RecurringDayOfMonth pins due dates to a fixed day, clipped to shorter
	// months. Zero means "same day as StartDate".
	RecurringDayOfMonth int
}

// GeneratedSchedule is the expansion result. Installments[i] is backed by
// Fees[i]; the persistence layer links their ids after insertion.
type GeneratedSchedule struct {
	Schedule     *models.FeePaymentSchedule
	Installments []*models.FeeInstallment
	Fees         []*models.StudentFee
}

// GenerateSchedule expands a fee structure assignment into a schedule of
// dated obligations, one StudentFee ledger entry per installment.
//
// Monthly: one installment per month at the structure amount, the n-th due
// (n-1) months after StartDate. FullCourse: the total split into N parts,
// each rounded up to the cent, with the rounding remainder folded into the
// final installment so the sum is exactly the course total.
func GenerateSchedule(in ScheduleInput) (*GeneratedSchedule, error) {
	if in.Structure == nil {
		return nil, fmt.Errorf("%w: fee structure is required", apperrors.ErrValidation)
	}
	if in.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", apperrors.ErrValidation)
	}

	switch in.Type {
	case models.ScheduleMonthly:
		return generateMonthly(in)
	case models.ScheduleFullCourse:
		return generateFullCourse(in)
	default:
		return nil, fmt.Errorf("%w: unknown schedule type %q", apperrors.ErrValidation, in.Type)
	}
}

func generateMonthly(in ScheduleInput) (*GeneratedSchedule, error) {
	n := in.Structure.DurationMonths
	if n <= 0 {
		n = in.Installments
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: monthly schedule needs a positive duration", apperrors.ErrValidation)
	}

	gen := &GeneratedSchedule{
		Schedule: &models.FeePaymentSchedule{
			StudentID:         in.StudentID,
			FeeStructureID:    in.Structure.ID,
			ScheduleType:      models.ScheduleMonthly,
			StartDate:         in.StartDate,
			MonthlyAmount:     in.Structure.Amount,
			TotalInstallments: n,
			IsActive:          true,
		},
	}

	for i := 1; i <= n; i++ {
		due := installmentDueDate(in.StartDate, i-1, in.RecurringDayOfMonth)
		fee, err := NewStudentFee(in.Structure, in.StudentID, due, decimal.Zero, "")
		if err != nil {
			return nil, err
		}
		fee.RecurringDayOfMonth = in.RecurringDayOfMonth

		gen.Fees = append(gen.Fees, fee)
		gen.Installments = append(gen.Installments, &models.FeeInstallment{
			InstallmentNumber: i,
			Amount:            in.Structure.Amount,
			DueDate:           due,
			PaidAmount:        decimal.Zero,
			Status:            models.FeeStatusPending,
		})
	}

	end := gen.Installments[n-1].DueDate
	gen.Schedule.EndDate = &end
	return gen, nil
}

func generateFullCourse(in ScheduleInput) (*GeneratedSchedule, error) {
	n := in.Installments
	if n <= 0 {
		return nil, fmt.Errorf("%w: full-course split needs a positive installment count", apperrors.ErrValidation)
	}

	total := in.Structure.Amount
	per := total.Div(decimal.NewFromInt(int64(n))).RoundCeil(2)
	last := total.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))
	if !last.IsPositive() {
		return nil, fmt.Errorf("%w: %d installments is too many for a total of %s",
			apperrors.ErrValidation, n, total.StringFixed(2))
	}

	courseStart := in.StartDate
	courseEnd := courseStart
	if in.Structure.DurationMonths > 0 {
		courseEnd = installmentDueDate(courseStart, in.Structure.DurationMonths, 0)
	}

	gen := &GeneratedSchedule{
		Schedule: &models.FeePaymentSchedule{
			StudentID:         in.StudentID,
			FeeStructureID:    in.Structure.ID,
			ScheduleType:      models.ScheduleFullCourse,
			StartDate:         courseStart,
			EndDate:           &courseEnd,
			MonthlyAmount:     per,
			TotalInstallments: n,
			IsActive:          true,
		},
	}

	running := decimal.Zero
	for i := 1; i <= n; i++ {
		amount := per
		if i == n {
			amount = total.Sub(running)
		}
		running = running.Add(amount)

		due := installmentDueDate(in.StartDate, i-1, in.RecurringDayOfMonth)
		fee := &models.StudentFee{
			StudentID:      in.StudentID,
			FeeStructureID: in.Structure.ID,
			Amount:         amount,
			DiscountAmount: decimal.Zero,
			FinalAmount:    amount,
			PaidAmount:     decimal.Zero,
			DueDate:        due,
			Status:         models.FeeStatusPending,
			FeeCategory:    models.CategoryFullCourse,
			StartDate:      &courseStart,
			EndDate:        &courseEnd,
			LateFeePerDay:  in.Structure.LateFeePerDay,
		}

		gen.Fees = append(gen.Fees, fee)
		gen.Installments = append(gen.Installments, &models.FeeInstallment{
			InstallmentNumber: i,
			Amount:            amount,
			DueDate:           due,
			PaidAmount:        decimal.Zero,
			Status:            models.FeeStatusPending,
		})
	}

	if !running.Equal(total) {
		return nil, fmt.Errorf("installment split drifted: %s != %s", running.StringFixed(2), total.StringFixed(2))
	}
	return gen, nil
}

// installmentDueDate returns start shifted by the given number of months,
// clipped to the last day of the target month when the desired day does not
// exist there (a 31st start clips to Feb 28/29, Apr 30, and so on).
// A positive dayOfMonth overrides the start's day.
func installmentDueDate(start time.Time, months, dayOfMonth int) time.Time {
	day := start.Day()
	if dayOfMonth > 0 {
		day = dayOfMonth
	}

	first := time.Date(start.Year(), start.Month()+time.Month(months), 1, 0, 0, 0, 0, start.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, start.Location())
}
