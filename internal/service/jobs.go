package service

import (
	"time"

	"github.com/coachms/coaching-service/internal/fees"
	"github.com/coachms/coaching-service/internal/models"
	"github.com/shopspring/decimal"
)

// GenerateRecurringFees instantiates this month's child fee for every
// recurring Monthly template whose recurring day is today. On the last day
// of a month it also picks up templates pinned to days the month doesn't
// have, so a 31st template still bills in February. Runs daily from cron;
// safe to re-run, already-billed months are skipped.
func (s *Service) GenerateRecurringFees() {
	today := s.now()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastDay := monthStart.AddDate(0, 1, -1).Day()

	days := []int{today.Day()}
	if today.Day() == lastDay {
		for d := lastDay + 1; d <= 31; d++ {
			days = append(days, d)
		}
	}

	created := 0
	for _, day := range days {
		templates, err := s.repo.ListRecurringTemplates(day)
		if err != nil {
			s.log.Errorf("Failed to load recurring templates for day %d: %v", day, err)
			continue
		}
		for _, tmpl := range templates {
			exists, err := s.repo.HasChildFeeForMonth(tmpl.ID, monthStart)
			if err != nil {
				s.log.Errorf("Failed to check billing state of template %d: %v", tmpl.ID, err)
				continue
			}
			if exists {
				continue
			}

			parentID := tmpl.ID
			due := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
			child := &models.StudentFee{
				StudentID:           tmpl.StudentID,
				FeeStructureID:      tmpl.FeeStructureID,
				Amount:              tmpl.Amount,
				DiscountAmount:      tmpl.DiscountAmount,
				DiscountReason:      tmpl.DiscountReason,
				FinalAmount:         tmpl.FinalAmount,
				PaidAmount:          decimal.Zero,
				DueDate:             due,
				Status:              models.FeeStatusPending,
				FeeCategory:         models.CategoryMonthly,
				RecurringDayOfMonth: tmpl.RecurringDayOfMonth,
				ParentFeeID:         &parentID,
				LateFeePerDay:       tmpl.LateFeePerDay,
				GracePeriodDays:     tmpl.GracePeriodDays,
			}
			if err := s.repo.CreateStudentFee(child); err != nil {
				s.log.Errorf("Failed to create recurring fee from template %d: %v", tmpl.ID, err)
				continue
			}
			created++
		}
	}
	if created > 0 {
		s.log.Infof("Recurring fee run created %d fees", created)
	}
}

// SendFeeReminders emails parents about fees falling due soon and fees
// already overdue. Runs daily from cron. Failures are logged per fee and do
// not stop the run.
func (s *Service) SendFeeReminders() {
	if s.mailer == nil {
		return
	}
	today := s.now()

	// Look back far enough to keep nagging about overdue fees.
	from := today.AddDate(0, -2, 0)
	to := today.AddDate(0, 0, s.config.ReminderLeadDays)

	dueFees, err := s.repo.ListUnpaidFeesDueBetween(from, to)
	if err != nil {
		s.log.Errorf("Failed to load fees for reminders: %v", err)
		return
	}

	sent := 0
	for _, fee := range dueFees {
		student, err := s.repo.FindStudentByID(fee.StudentID)
		if err != nil || student.ParentEmail == "" {
			continue
		}

		info := fees.OverdueState(fee, today)
		err = s.mailer.SendFeeReminder(student.ParentEmail, student.ParentName, student.Name,
			fee.DueDate, fee.Balance(), info.LateFee, info.IsOverdue)
		if err != nil {
			s.log.Errorf("Failed to send reminder for fee %d: %v", fee.ID, err)
			continue
		}
		sent++
	}
	s.log.Infof("Fee reminder run sent %d emails", sent)
}
