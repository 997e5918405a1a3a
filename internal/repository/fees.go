package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
)

const studentFeeColumns = `id, student_id, fee_structure_id, amount, discount_amount, discount_reason,
		final_amount, paid_amount, due_date, status, fee_category, start_date, end_date,
		is_recurring, recurring_day_of_month, parent_fee_id, late_fee_per_day, grace_period_days,
		remarks, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudentFee(row rowScanner) (*models.StudentFee, error) {
	f := &models.StudentFee{}
	err := row.Scan(
		&f.ID, &f.StudentID, &f.FeeStructureID, &f.Amount, &f.DiscountAmount, &f.DiscountReason,
		&f.FinalAmount, &f.PaidAmount, &f.DueDate, &f.Status, &f.FeeCategory, &f.StartDate, &f.EndDate,
		&f.IsRecurring, &f.RecurringDayOfMonth, &f.ParentFeeID, &f.LateFeePerDay, &f.GracePeriodDays,
		&f.Remarks, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateFeeStructure creates a new fee structure in the database
func (r *Repository) CreateFeeStructure(fs *models.FeeStructure) error {
	query := `
		INSERT INTO coaching.fee_structures (name, type, category, amount, frequency, class_id, academic_year,
			duration_months, late_fee_per_day, discount_amount, discount_days_before_due,
			is_refundable, refund_percentage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(query,
		fs.Name, fs.Type, fs.Category, fs.Amount, fs.Frequency, fs.ClassID, fs.AcademicYear,
		fs.DurationMonths, fs.LateFeePerDay, fs.DiscountAmount, fs.DiscountDaysBeforeDue,
		fs.IsRefundable, fs.RefundPercentage).
		Scan(&fs.ID, &fs.CreatedAt, &fs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create fee structure: %w", err)
	}
	return nil
}

// FindFeeStructureByID retrieves a fee structure by id
func (r *Repository) FindFeeStructureByID(id int64) (*models.FeeStructure, error) {
	fs := &models.FeeStructure{}
	query := `
		SELECT id, name, type, category, amount, frequency, class_id, academic_year,
			duration_months, late_fee_per_day, discount_amount, discount_days_before_due,
			is_refundable, refund_percentage, created_at, updated_at
		FROM coaching.fee_structures
		WHERE id = $1 AND is_deleted = FALSE`
	err := r.q.QueryRow(query, id).Scan(
		&fs.ID, &fs.Name, &fs.Type, &fs.Category, &fs.Amount, &fs.Frequency, &fs.ClassID, &fs.AcademicYear,
		&fs.DurationMonths, &fs.LateFeePerDay, &fs.DiscountAmount, &fs.DiscountDaysBeforeDue,
		&fs.IsRefundable, &fs.RefundPercentage, &fs.CreatedAt, &fs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: fee structure %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find fee structure: %w", err)
	}
	return fs, nil
}

// ListFeeStructures returns all fee structures
func (r *Repository) ListFeeStructures() ([]*models.FeeStructure, error) {
	query := `
		SELECT id, name, type, category, amount, frequency, class_id, academic_year,
			duration_months, late_fee_per_day, discount_amount, discount_days_before_due,
			is_refundable, refund_percentage, created_at, updated_at
		FROM coaching.fee_structures
		WHERE is_deleted = FALSE
		ORDER BY id`
	rows, err := r.q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee structures: %w", err)
	}
	defer rows.Close()

	var structures []*models.FeeStructure
	for rows.Next() {
		fs := &models.FeeStructure{}
		if err := rows.Scan(
			&fs.ID, &fs.Name, &fs.Type, &fs.Category, &fs.Amount, &fs.Frequency, &fs.ClassID, &fs.AcademicYear,
			&fs.DurationMonths, &fs.LateFeePerDay, &fs.DiscountAmount, &fs.DiscountDaysBeforeDue,
			&fs.IsRefundable, &fs.RefundPercentage, &fs.CreatedAt, &fs.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fee structure: %w", err)
		}
		structures = append(structures, fs)
	}
	return structures, rows.Err()
}

// SoftDeleteFeeStructure marks a fee structure deleted without removing the row
func (r *Repository) SoftDeleteFeeStructure(id int64) error {
	res, err := r.q.Exec(`
		UPDATE coaching.fee_structures SET is_deleted = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fee structure: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: fee structure %d", apperrors.ErrNotFound, id)
	}
	return nil
}

// CreateStudentFee creates a new student fee ledger entry
func (r *Repository) CreateStudentFee(fee *models.StudentFee) error {
	query := `
		INSERT INTO coaching.student_fees (student_id, fee_structure_id, amount, discount_amount, discount_reason,
			final_amount, paid_amount, due_date, status, fee_category, start_date, end_date,
			is_recurring, recurring_day_of_month, parent_fee_id, late_fee_per_day, grace_period_days,
			remarks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(query,
		fee.StudentID, fee.FeeStructureID, fee.Amount, fee.DiscountAmount, fee.DiscountReason,
		fee.FinalAmount, fee.PaidAmount, fee.DueDate, fee.Status, fee.FeeCategory, fee.StartDate, fee.EndDate,
		fee.IsRecurring, fee.RecurringDayOfMonth, fee.ParentFeeID, fee.LateFeePerDay, fee.GracePeriodDays,
		fee.Remarks).
		Scan(&fee.ID, &fee.CreatedAt, &fee.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create student fee: %w", err)
	}
	return nil
}

// FindStudentFeeByID retrieves a student fee by id
func (r *Repository) FindStudentFeeByID(id int64) (*models.StudentFee, error) {
	query := `SELECT ` + studentFeeColumns + `
		FROM coaching.student_fees
		WHERE id = $1 AND is_deleted = FALSE`
	fee, err := scanStudentFee(r.q.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: student fee %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find student fee: %w", err)
	}
	return fee, nil
}

// FindStudentFeeForUpdate retrieves a student fee under a row lock. Must be
// called inside WithTx; the lock serializes concurrent payment applications
// against the same fee.
func (r *Repository) FindStudentFeeForUpdate(id int64) (*models.StudentFee, error) {
	query := `SELECT ` + studentFeeColumns + `
		FROM coaching.student_fees
		WHERE id = $1 AND is_deleted = FALSE
		FOR UPDATE`
	fee, err := scanStudentFee(r.q.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: student fee %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock student fee: %w", err)
	}
	return fee, nil
}

// UpdateStudentFeeState persists the mutable lifecycle fields of a fee
func (r *Repository) UpdateStudentFeeState(fee *models.StudentFee) error {
	query := `
		UPDATE coaching.student_fees
		SET paid_amount = $1, status = $2, discount_amount = $3, discount_reason = $4,
			final_amount = $5, remarks = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7 AND is_deleted = FALSE`
	res, err := r.q.Exec(query,
		fee.PaidAmount, fee.Status, fee.DiscountAmount, fee.DiscountReason,
		fee.FinalAmount, fee.Remarks, fee.ID)
	if err != nil {
		return fmt.Errorf("failed to update student fee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: student fee %d", apperrors.ErrNotFound, fee.ID)
	}
	return nil
}

// ListStudentFees returns all fees for a student
func (r *Repository) ListStudentFees(studentID int64) ([]*models.StudentFee, error) {
	query := `SELECT ` + studentFeeColumns + `
		FROM coaching.student_fees
		WHERE student_id = $1 AND is_deleted = FALSE
		ORDER BY due_date, id`
	return r.queryStudentFees(query, studentID)
}

// ListUnpaidFeesDueBetween returns non-terminal fees whose due date falls in
// the window, for reminder dispatch
func (r *Repository) ListUnpaidFeesDueBetween(from, to time.Time) ([]*models.StudentFee, error) {
	query := `SELECT ` + studentFeeColumns + `
		FROM coaching.student_fees
		WHERE status IN ('Pending', 'PartiallyPaid')
			AND due_date >= $1 AND due_date <= $2
			AND is_deleted = FALSE
		ORDER BY due_date, id`
	return r.queryStudentFees(query, from, to)
}

// ListRecurringTemplates returns recurring Monthly template fees whose
// recurring day matches the given day of month
func (r *Repository) ListRecurringTemplates(dayOfMonth int) ([]*models.StudentFee, error) {
	query := `SELECT ` + studentFeeColumns + `
		FROM coaching.student_fees
		WHERE is_recurring = TRUE AND fee_category = 'Monthly' AND parent_fee_id IS NULL
			AND recurring_day_of_month = $1
			AND status NOT IN ('Waived', 'Cancelled')
			AND is_deleted = FALSE
		ORDER BY id`
	return r.queryStudentFees(query, dayOfMonth)
}

// HasChildFeeForMonth reports whether a recurring template already spawned a
// child fee due in the given month
func (r *Repository) HasChildFeeForMonth(parentFeeID int64, monthStart time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM coaching.student_fees
			WHERE parent_fee_id = $1
				AND due_date >= $2 AND due_date < $2 + INTERVAL '1 month'
				AND is_deleted = FALSE
		)`
	if err := r.q.QueryRow(query, parentFeeID, monthStart).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check child fee: %w", err)
	}
	return exists, nil
}

func (r *Repository) queryStudentFees(query string, args ...any) ([]*models.StudentFee, error) {
	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query student fees: %w", err)
	}
	defer rows.Close()

	var fees []*models.StudentFee
	for rows.Next() {
		fee, err := scanStudentFee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student fee: %w", err)
		}
		fees = append(fees, fee)
	}
	return fees, rows.Err()
}
