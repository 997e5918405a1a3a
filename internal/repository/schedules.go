package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
)

// CreateSchedule creates a new fee payment schedule
func (r *Repository) CreateSchedule(s *models.FeePaymentSchedule) error {
	query := `
		INSERT INTO coaching.fee_payment_schedules (student_id, fee_structure_id, schedule_type, start_date, end_date,
			monthly_amount, total_installments, paid_installments, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(query,
		s.StudentID, s.FeeStructureID, s.ScheduleType, s.StartDate, s.EndDate,
		s.MonthlyAmount, s.TotalInstallments, s.PaidInstallments, s.IsActive).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// FindScheduleByID retrieves a schedule by id
func (r *Repository) FindScheduleByID(id int64) (*models.FeePaymentSchedule, error) {
	s := &models.FeePaymentSchedule{}
	query := `
		SELECT id, student_id, fee_structure_id, schedule_type, start_date, end_date,
			monthly_amount, total_installments, paid_installments, is_active, created_at, updated_at
		FROM coaching.fee_payment_schedules
		WHERE id = $1 AND is_deleted = FALSE`
	err := r.q.QueryRow(query, id).Scan(
		&s.ID, &s.StudentID, &s.FeeStructureID, &s.ScheduleType, &s.StartDate, &s.EndDate,
		&s.MonthlyAmount, &s.TotalInstallments, &s.PaidInstallments, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: schedule %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule: %w", err)
	}
	return s, nil
}

// CreateInstallment creates a new installment row
func (r *Repository) CreateInstallment(inst *models.FeeInstallment) error {
	query := `
		INSERT INTO coaching.fee_installments (schedule_id, student_fee_id, installment_number, amount, due_date,
			paid_date, paid_amount, status, late_fee, discount_applied, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(query,
		inst.ScheduleID, inst.StudentFeeID, inst.InstallmentNumber, inst.Amount, inst.DueDate,
		inst.PaidDate, inst.PaidAmount, inst.Status, inst.LateFee, inst.DiscountApplied).
		Scan(&inst.ID, &inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create installment: %w", err)
	}
	return nil
}

// FindInstallmentByFeeID retrieves the installment backed by a student fee,
// if one exists
func (r *Repository) FindInstallmentByFeeID(studentFeeID int64) (*models.FeeInstallment, error) {
	inst := &models.FeeInstallment{}
	query := `
		SELECT id, schedule_id, student_fee_id, installment_number, amount, due_date,
			paid_date, paid_amount, status, late_fee, discount_applied, created_at, updated_at
		FROM coaching.fee_installments
		WHERE student_fee_id = $1 AND is_deleted = FALSE`
	err := r.q.QueryRow(query, studentFeeID).Scan(
		&inst.ID, &inst.ScheduleID, &inst.StudentFeeID, &inst.InstallmentNumber, &inst.Amount, &inst.DueDate,
		&inst.PaidDate, &inst.PaidAmount, &inst.Status, &inst.LateFee, &inst.DiscountApplied, &inst.CreatedAt, &inst.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find installment: %w", err)
	}
	return inst, nil
}

// ListInstallments returns a schedule's installments ordered by number
func (r *Repository) ListInstallments(scheduleID int64) ([]*models.FeeInstallment, error) {
	query := `
		SELECT id, schedule_id, student_fee_id, installment_number, amount, due_date,
			paid_date, paid_amount, status, late_fee, discount_applied, created_at, updated_at
		FROM coaching.fee_installments
		WHERE schedule_id = $1 AND is_deleted = FALSE
		ORDER BY installment_number`
	rows, err := r.q.Query(query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	defer rows.Close()

	var installments []*models.FeeInstallment
	for rows.Next() {
		inst := &models.FeeInstallment{}
		if err := rows.Scan(
			&inst.ID, &inst.ScheduleID, &inst.StudentFeeID, &inst.InstallmentNumber, &inst.Amount, &inst.DueDate,
			&inst.PaidDate, &inst.PaidAmount, &inst.Status, &inst.LateFee, &inst.DiscountApplied, &inst.CreatedAt, &inst.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}

// UpdateInstallmentState persists an installment's paid state
func (r *Repository) UpdateInstallmentState(inst *models.FeeInstallment) error {
	query := `
		UPDATE coaching.fee_installments
		SET paid_date = $1, paid_amount = $2, status = $3, late_fee = $4, discount_applied = $5,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $6 AND is_deleted = FALSE`
	res, err := r.q.Exec(query, inst.PaidDate, inst.PaidAmount, inst.Status, inst.LateFee, inst.DiscountApplied, inst.ID)
	if err != nil {
		return fmt.Errorf("failed to update installment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: installment %d", apperrors.ErrNotFound, inst.ID)
	}
	return nil
}

// RecountPaidInstallments recomputes the schedule's paid counter from its
// installments, keeping the stored counter consistent by construction
func (r *Repository) RecountPaidInstallments(scheduleID int64) error {
	query := `
		UPDATE coaching.fee_payment_schedules
		SET paid_installments = (
			SELECT COUNT(*) FROM coaching.fee_installments
			WHERE schedule_id = $1 AND status = 'Paid' AND is_deleted = FALSE
		), updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	if _, err := r.q.Exec(query, scheduleID); err != nil {
		return fmt.Errorf("failed to recount paid installments: %w", err)
	}
	return nil
}
