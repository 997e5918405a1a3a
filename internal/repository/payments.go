package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
)

// CreatePayment creates a new payment record
func (r *Repository) CreatePayment(p *models.Payment) error {
	query := `
		INSERT INTO coaching.payments (student_fee_id, installment_id, amount, payment_date, method,
			transaction_id, receipt_number, status, received_by_user_id, remarks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(query,
		p.StudentFeeID, p.InstallmentID, p.Amount, p.PaymentDate, p.Method,
		p.TransactionID, p.ReceiptNumber, p.Status, p.ReceivedByUserID, p.Remarks).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// ListPaymentsByFee returns payments recorded against a student fee
func (r *Repository) ListPaymentsByFee(studentFeeID int64) ([]*models.Payment, error) {
	query := `
		SELECT id, student_fee_id, installment_id, amount, payment_date, method,
			transaction_id, receipt_number, status, received_by_user_id, remarks, created_at, updated_at
		FROM coaching.payments
		WHERE student_fee_id = $1
		ORDER BY payment_date, id`
	rows, err := r.q.Query(query, studentFeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(
			&p.ID, &p.StudentFeeID, &p.InstallmentID, &p.Amount, &p.PaymentDate, &p.Method,
			&p.TransactionID, &p.ReceiptNumber, &p.Status, &p.ReceivedByUserID, &p.Remarks, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// NextReceiptSequence returns the next receipt sequence value for the given
// day. Must be called inside WithTx so the allocated number is only consumed
// when the surrounding writes commit.
func (r *Repository) NextReceiptSequence(day time.Time) (int64, error) {
	var seq int64
	query := `
		INSERT INTO coaching.receipt_counters (day, counter)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET counter = coaching.receipt_counters.counter + 1
		RETURNING counter`
	dayOnly := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	if err := r.q.QueryRow(query, dayOnly).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to allocate receipt sequence: %w", err)
	}
	return seq, nil
}

// CreateReceipt creates a receipt with its line items
func (r *Repository) CreateReceipt(receipt *models.FeeReceipt, items []*models.FeeReceiptItem) error {
	query := `
		INSERT INTO coaching.fee_receipts (receipt_number, payment_id, student_id, student_name, class_name,
			parent_name, parent_contact, fee_description, fee_period, total_amount, paid_amount, balance_amount,
			issued_at, is_email_sent, email_sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.q.QueryRow(query,
		receipt.ReceiptNumber, receipt.PaymentID, receipt.StudentID, receipt.StudentName, receipt.ClassName,
		receipt.ParentName, receipt.ParentContact, receipt.FeeDescription, receipt.FeePeriod,
		receipt.TotalAmount, receipt.PaidAmount, receipt.BalanceAmount,
		receipt.IssuedAt, receipt.IsEmailSent, receipt.EmailSentAt).
		Scan(&receipt.ID, &receipt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}

	for _, item := range items {
		item.ReceiptID = receipt.ID
		itemQuery := `
			INSERT INTO coaching.fee_receipt_items (receipt_id, student_fee_id, description, amount)
			VALUES ($1, $2, $3, $4)
			RETURNING id`
		if err := r.q.QueryRow(itemQuery, item.ReceiptID, item.StudentFeeID, item.Description, item.Amount).
			Scan(&item.ID); err != nil {
			return fmt.Errorf("failed to create receipt item: %w", err)
		}
	}
	return nil
}

// FindReceiptByID retrieves a receipt with its line items
func (r *Repository) FindReceiptByID(id int64) (*models.FeeReceipt, []*models.FeeReceiptItem, error) {
	receipt := &models.FeeReceipt{}
	query := `
		SELECT id, receipt_number, payment_id, student_id, student_name, class_name,
			parent_name, parent_contact, fee_description, fee_period, total_amount, paid_amount, balance_amount,
			issued_at, is_email_sent, email_sent_at, created_at
		FROM coaching.fee_receipts
		WHERE id = $1`
	err := r.q.QueryRow(query, id).Scan(
		&receipt.ID, &receipt.ReceiptNumber, &receipt.PaymentID, &receipt.StudentID, &receipt.StudentName, &receipt.ClassName,
		&receipt.ParentName, &receipt.ParentContact, &receipt.FeeDescription, &receipt.FeePeriod,
		&receipt.TotalAmount, &receipt.PaidAmount, &receipt.BalanceAmount,
		&receipt.IssuedAt, &receipt.IsEmailSent, &receipt.EmailSentAt, &receipt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: receipt %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find receipt: %w", err)
	}

	rows, err := r.q.Query(`
		SELECT id, receipt_id, student_fee_id, description, amount
		FROM coaching.fee_receipt_items
		WHERE receipt_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list receipt items: %w", err)
	}
	defer rows.Close()

	var items []*models.FeeReceiptItem
	for rows.Next() {
		item := &models.FeeReceiptItem{}
		if err := rows.Scan(&item.ID, &item.ReceiptID, &item.StudentFeeID, &item.Description, &item.Amount); err != nil {
			return nil, nil, fmt.Errorf("failed to scan receipt item: %w", err)
		}
		items = append(items, item)
	}
	return receipt, items, rows.Err()
}

// MarkReceiptEmailed sets the delivery flags after the notifier sends the
// receipt email
func (r *Repository) MarkReceiptEmailed(id int64, sentAt time.Time) error {
	res, err := r.q.Exec(`
		UPDATE coaching.fee_receipts
		SET is_email_sent = TRUE, email_sent_at = $1
		WHERE id = $2`, sentAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark receipt emailed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: receipt %d", apperrors.ErrNotFound, id)
	}
	return nil
}
