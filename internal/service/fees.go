package service

import (
	"fmt"
	"time"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/fees"
	"github.com/coachms/coaching-service/internal/models"
	"github.com/coachms/coaching-service/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateFeeStructure adds a chargeable item to the catalog
func (s *Service) CreateFeeStructure(fs *models.FeeStructure) (*models.FeeStructure, error) {
	if fs.Name == "" {
		return nil, fmt.Errorf("%w: fee structure name is required", apperrors.ErrValidation)
	}
	if !fs.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: fee amount must be positive", apperrors.ErrValidation)
	}
	switch fs.Category {
	case models.CategoryMonthly, models.CategoryFullCourse, models.CategoryAdditional:
	default:
		return nil, fmt.Errorf("%w: unknown fee category %q", apperrors.ErrValidation, fs.Category)
	}
	if err := s.repo.CreateFeeStructure(fs); err != nil {
		return nil, err
	}
	s.log.Infof("Fee structure created: %s (%s, %s)", fs.Name, fs.Category, fs.Amount.StringFixed(2))
	return fs, nil
}

// ListFeeStructures returns the catalog
func (s *Service) ListFeeStructures() ([]*models.FeeStructure, error) {
	return s.repo.ListFeeStructures()
}

// DeleteFeeStructure soft-deletes a catalog entry; existing student fees
// keep referencing the row
func (s *Service) DeleteFeeStructure(id int64) error {
	return s.repo.SoftDeleteFeeStructure(id)
}

// AssignFeeInput is one direct fee assignment to a student
type AssignFeeInput struct {
	StudentID      int64
	FeeStructureID int64
	DueDate        time.Time
	Discount       decimal.Decimal
	DiscountReason string
	IsRecurring    bool
	RecurringDay   int
	GracePeriod    int
}

// AssignFee creates a StudentFee ledger entry for one student from a catalog
// structure. A recurring Monthly assignment becomes a template that the
// daily job instantiates month by month.
func (s *Service) AssignFee(in AssignFeeInput) (*models.StudentFee, error) {
	if _, err := s.repo.FindStudentByID(in.StudentID); err != nil {
		return nil, err
	}
	structure, err := s.repo.FindFeeStructureByID(in.FeeStructureID)
	if err != nil {
		return nil, err
	}

	fee, err := fees.NewStudentFee(structure, in.StudentID, in.DueDate, in.Discount, in.DiscountReason)
	if err != nil {
		return nil, err
	}
	fee.IsRecurring = in.IsRecurring
	fee.RecurringDayOfMonth = in.RecurringDay
	if in.IsRecurring {
		fee.RecurringDayOfMonth = fees.RecurringDay(in.DueDate, in.RecurringDay)
	}
	fee.GracePeriodDays = in.GracePeriod
	if structure.Category == models.CategoryFullCourse {
		start := in.DueDate
		fee.StartDate = &start
		if structure.DurationMonths > 0 {
			end := start.AddDate(0, structure.DurationMonths, 0)
			fee.EndDate = &end
		}
	}

	if err := s.repo.CreateStudentFee(fee); err != nil {
		return nil, err
	}
	s.log.Infof("Fee %s assigned to student %d, due %s", structure.Name, in.StudentID, in.DueDate.Format("2006-01-02"))
	return fee, nil
}

// ListStudentFees returns a student's ledger entries
func (s *Service) ListStudentFees(studentID int64) ([]*models.StudentFee, error) {
	if _, err := s.repo.FindStudentByID(studentID); err != nil {
		return nil, err
	}
	return s.repo.ListStudentFees(studentID)
}

// FeeOverdueState computes the current lateness of one fee
func (s *Service) FeeOverdueState(feeID int64) (*fees.OverdueInfo, error) {
	fee, err := s.repo.FindStudentFeeByID(feeID)
	if err != nil {
		return nil, err
	}
	info := fees.OverdueState(fee, s.now())
	return &info, nil
}

// GenerateScheduleInput expands a structure into installments for a student
type GenerateScheduleInput struct {
	StudentID      int64
	FeeStructureID int64
	StartDate      time.Time
	ScheduleType   models.ScheduleType
	Installments   int
	RecurringDay   int
}

// GenerateSchedule creates a payment schedule with its installments and the
// StudentFee backing each installment, all in one transaction.
func (s *Service) GenerateSchedule(in GenerateScheduleInput) (*models.FeePaymentSchedule, []*models.FeeInstallment, error) {
	if _, err := s.repo.FindStudentByID(in.StudentID); err != nil {
		return nil, nil, err
	}
	structure, err := s.repo.FindFeeStructureByID(in.FeeStructureID)
	if err != nil {
		return nil, nil, err
	}

	gen, err := fees.GenerateSchedule(fees.ScheduleInput{
		Structure:           structure,
		StudentID:           in.StudentID,
		StartDate:           in.StartDate,
		Type:                in.ScheduleType,
		Installments:        in.Installments,
		RecurringDayOfMonth: in.RecurringDay,
	})
	if err != nil {
		return nil, nil, err
	}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.CreateSchedule(gen.Schedule); err != nil {
			return err
		}
		for i, fee := range gen.Fees {
			if err := tx.CreateStudentFee(fee); err != nil {
				return err
			}
			inst := gen.Installments[i]
			inst.ScheduleID = gen.Schedule.ID
			inst.StudentFeeID = fee.ID
			if err := tx.CreateInstallment(inst); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Infof("Schedule %d generated: %d installments of %s for student %d",
		gen.Schedule.ID, gen.Schedule.TotalInstallments, gen.Schedule.MonthlyAmount.StringFixed(2), in.StudentID)
	return gen.Schedule, gen.Installments, nil
}

// GetSchedule returns a schedule with its installments
func (s *Service) GetSchedule(id int64) (*models.FeePaymentSchedule, []*models.FeeInstallment, error) {
	schedule, err := s.repo.FindScheduleByID(id)
	if err != nil {
		return nil, nil, err
	}
	installments, err := s.repo.ListInstallments(id)
	if err != nil {
		return nil, nil, err
	}
	return schedule, installments, nil
}

// CollectPaymentInput is one collection action at the front desk
type CollectPaymentInput struct {
	StudentFeeID int64
	Amount       decimal.Decimal
	Method       models.PaymentMethod
	ReceivedBy   *int64
	Remarks      string
}

// CollectPayment atomically records money received against a fee, updates
// the ledger and any owning installment/schedule, and issues a receipt. If
// any step fails nothing is persisted.
func (s *Service) CollectPayment(in CollectPaymentInput) (*models.Payment, *models.FeeReceipt, error) {
	today := s.now()

	var (
		payment *models.Payment
		receipt *models.FeeReceipt
		student *models.Student
	)

	err := s.repo.WithTx(func(tx *repository.Repository) error {
		fee, err := tx.FindStudentFeeForUpdate(in.StudentFeeID)
		if err != nil {
			return err
		}
		structure, err := tx.FindFeeStructureByID(fee.FeeStructureID)
		if err != nil {
			return err
		}

		if fees.ApplyEarlyPaymentDiscount(fee, structure, today) {
			s.log.Infof("Early payment discount of %s applied to fee %d", structure.DiscountAmount.StringFixed(2), fee.ID)
		}
		accrued := fees.OverdueState(fee, today)
		if err := fees.ApplyPayment(fee, in.Amount, today); err != nil {
			return err
		}
		if err := tx.UpdateStudentFeeState(fee); err != nil {
			return err
		}

		var installmentID *int64
		inst, err := tx.FindInstallmentByFeeID(fee.ID)
		if err != nil {
			return err
		}
		if inst != nil {
			inst.PaidAmount = fee.PaidAmount
			inst.Status = fee.Status
			inst.DiscountApplied = fee.DiscountAmount
			if fee.Status == models.FeeStatusPaid {
				paidAt := today
				inst.PaidDate = &paidAt
				inst.LateFee = accrued.LateFee
			}
			if err := tx.UpdateInstallmentState(inst); err != nil {
				return err
			}
			if err := tx.RecountPaidInstallments(inst.ScheduleID); err != nil {
				return err
			}
			installmentID = &inst.ID
		}

		seq, err := tx.NextReceiptSequence(today)
		if err != nil {
			return err
		}
		number := fees.ReceiptNumber(today, seq)

		payment = &models.Payment{
			StudentFeeID:     fee.ID,
			InstallmentID:    installmentID,
			Amount:           in.Amount,
			PaymentDate:      today,
			Method:           in.Method,
			TransactionID:    uuid.NewString(),
			ReceiptNumber:    number,
			Status:           models.PaymentCompleted,
			ReceivedByUserID: in.ReceivedBy,
			Remarks:          in.Remarks,
		}
		if err := tx.CreatePayment(payment); err != nil {
			return err
		}

		student, err = tx.FindStudentByID(fee.StudentID)
		if err != nil {
			return err
		}
		className := ""
		if student.ClassID != nil {
			class, err := tx.FindClassByID(*student.ClassID)
			if err == nil {
				className = class.Name
			}
		}

		var items []*models.FeeReceiptItem
		receipt, items = fees.BuildReceipt(fees.ReceiptContext{
			Payment:   payment,
			Fee:       fee,
			Structure: structure,
			Student:   student,
			ClassName: className,
		}, number, today)
		return tx.CreateReceipt(receipt, items)
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Infof("Payment of %s collected against fee %d, receipt %s",
		in.Amount.StringFixed(2), in.StudentFeeID, receipt.ReceiptNumber)

	s.sendReceiptEmail(receipt, student, payment.Amount)
	return payment, receipt, nil
}

// sendReceiptEmail dispatches the receipt to the parent. Delivery failures
// are logged, never surfaced: the collection already committed.
func (s *Service) sendReceiptEmail(receipt *models.FeeReceipt, student *models.Student, received decimal.Decimal) {
	if s.mailer == nil || student == nil || student.ParentEmail == "" {
		return
	}
	if err := s.mailer.SendReceipt(student.ParentEmail, receipt, received); err != nil {
		s.log.Errorf("Failed to email receipt %s: %v", receipt.ReceiptNumber, err)
		return
	}
	if err := s.repo.MarkReceiptEmailed(receipt.ID, s.now()); err != nil {
		s.log.Errorf("Failed to flag receipt %s as emailed: %v", receipt.ReceiptNumber, err)
	}
}

// WaiveFee administratively waives a fee. Terminal and irreversible.
func (s *Service) WaiveFee(feeID int64, reason string) (*models.StudentFee, error) {
	var waived *models.StudentFee
	err := s.repo.WithTx(func(tx *repository.Repository) error {
		fee, err := tx.FindStudentFeeForUpdate(feeID)
		if err != nil {
			return err
		}
		if err := fees.Waive(fee, reason); err != nil {
			return err
		}
		waived = fee
		return tx.UpdateStudentFeeState(fee)
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("Fee %d waived: %s", feeID, reason)
	return waived, nil
}

// ListFeePayments returns the payment history of one fee
func (s *Service) ListFeePayments(feeID int64) ([]*models.Payment, error) {
	if _, err := s.repo.FindStudentFeeByID(feeID); err != nil {
		return nil, err
	}
	return s.repo.ListPaymentsByFee(feeID)
}

// GetReceipt returns a receipt with its line items
func (s *Service) GetReceipt(id int64) (*models.FeeReceipt, []*models.FeeReceiptItem, error) {
	return s.repo.FindReceiptByID(id)
}
