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

func monthlyStructure(amount string, months int) *models.FeeStructure {
	s := tuitionStructure(amount)
	s.Category = models.CategoryMonthly
	s.DurationMonths = months
	return s
}

func TestGenerateMonthlySchedule(t *testing.T) {
	gen, err := GenerateSchedule(ScheduleInput{
		Structure: monthlyStructure("1000.00", 12),
		StudentID: 7,
		StartDate: date(2024, time.January, 5),
		Type:      models.ScheduleMonthly,
	})
	require.NoError(t, err)

	require.Len(t, gen.Installments, 12)
	require.Len(t, gen.Fees, 12)
	assert.Equal(t, 12, gen.Schedule.TotalInstallments)
	assert.Equal(t, 0, gen.Schedule.PaidInstallments)
	assert.True(t, gen.Schedule.IsActive)

	total := decimal.Zero
	for i, inst := range gen.Installments {
		assert.Equal(t, i+1, inst.InstallmentNumber)
		assert.Equal(t, 5, inst.DueDate.Day())
		assert.Equal(t, time.Month(1+i), inst.DueDate.Month())
		assert.Equal(t, models.FeeStatusPending, inst.Status)
		assert.True(t, inst.DueDate.Equal(gen.Fees[i].DueDate))
		total = total.Add(inst.Amount)
	}
	assert.True(t, total.Equal(dec("12000.00")), "12 x 1000 must total 12000, got %s", total)

	require.NotNil(t, gen.Schedule.EndDate)
	assert.True(t, gen.Schedule.EndDate.Equal(date(2024, time.December, 5)))
}

func TestGenerateMonthlyScheduleClipsMonthEnd(t *testing.T) {
	gen, err := GenerateSchedule(ScheduleInput{
		Structure: monthlyStructure("500.00", 4),
		StudentID: 7,
		StartDate: date(2024, time.January, 31),
		Type:      models.ScheduleMonthly,
	})
	require.NoError(t, err)

	want := []time.Time{
		date(2024, time.January, 31),
		date(2024, time.February, 29), // leap year
		date(2024, time.March, 31),
		date(2024, time.April, 30),
	}
	for i, inst := range gen.Installments {
		assert.True(t, inst.DueDate.Equal(want[i]), "installment %d: want %s got %s", i+1, want[i], inst.DueDate)
	}
}

func TestGenerateMonthlyScheduleRecurringDay(t *testing.T) {
	gen, err := GenerateSchedule(ScheduleInput{
		Structure:           monthlyStructure("500.00", 3),
		StudentID:           7,
		StartDate:           date(2024, time.January, 20),
		Type:                models.ScheduleMonthly,
		RecurringDayOfMonth: 10,
	})
	require.NoError(t, err)

	for _, inst := range gen.Installments {
		assert.Equal(t, 10, inst.DueDate.Day())
	}
	for _, fee := range gen.Fees {
		assert.Equal(t, 10, fee.RecurringDayOfMonth)
	}
}

func TestGenerateFullCourseSplitExact(t *testing.T) {
	s := tuitionStructure("10000.00")
	s.Category = models.CategoryFullCourse
	s.DurationMonths = 6

	gen, err := GenerateSchedule(ScheduleInput{
		Structure:    s,
		StudentID:    7,
		StartDate:    date(2024, time.January, 1),
		Type:         models.ScheduleFullCourse,
		Installments: 3,
	})
	require.NoError(t, err)

	require.Len(t, gen.Installments, 3)
	assert.True(t, gen.Installments[0].Amount.Equal(dec("3333.34")))
	assert.True(t, gen.Installments[1].Amount.Equal(dec("3333.34")))
	assert.True(t, gen.Installments[2].Amount.Equal(dec("3333.32")))

	total := decimal.Zero
	for _, inst := range gen.Installments {
		total = total.Add(inst.Amount)
	}
	assert.True(t, total.Equal(dec("10000.00")), "no rounding loss allowed, got %s", total)

	for _, fee := range gen.Fees {
		assert.Equal(t, models.CategoryFullCourse, fee.FeeCategory)
		require.NotNil(t, fee.StartDate)
		assert.True(t, fee.StartDate.Equal(date(2024, time.January, 1)))
	}
}

func TestGenerateScheduleValidation(t *testing.T) {
	_, err := GenerateSchedule(ScheduleInput{
		Structure: monthlyStructure("1000.00", 0),
		StudentID: 7,
		StartDate: date(2024, time.January, 5),
		Type:      models.ScheduleMonthly,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	s := tuitionStructure("10000.00")
	s.Category = models.CategoryFullCourse
	_, err = GenerateSchedule(ScheduleInput{
		Structure:    s,
		StudentID:    7,
		StartDate:    date(2024, time.January, 1),
		Type:         models.ScheduleFullCourse,
		Installments: 0,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = GenerateSchedule(ScheduleInput{
		Structure: s,
		StudentID: 7,
		StartDate: date(2024, time.January, 1),
		Type:      models.ScheduleType("Weekly"),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = GenerateSchedule(ScheduleInput{
		Structure: s,
		StudentID: 7,
		Type:      models.ScheduleFullCourse,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
