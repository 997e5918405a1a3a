package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
)

// CreateLead creates a new lead in the database
func (r *Repository) CreateLead(lead *models.Lead) error {
	query := `
		INSERT INTO coaching.leads (branch_id, name, phone, email, source, course_interest, status,
			follow_up_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(query,
		lead.BranchID, lead.Name, lead.Phone, lead.Email, lead.Source, lead.CourseInterest, lead.Status,
		lead.FollowUpDate, lead.Notes).
		Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// FindLeadByID retrieves a lead by id
func (r *Repository) FindLeadByID(id int64) (*models.Lead, error) {
	lead := &models.Lead{}
	query := `
		SELECT id, branch_id, name, phone, email, source, course_interest, status,
			follow_up_date, notes, converted_student_id, created_at, updated_at
		FROM coaching.leads
		WHERE id = $1 AND is_deleted = FALSE`
	err := r.q.QueryRow(query, id).Scan(
		&lead.ID, &lead.BranchID, &lead.Name, &lead.Phone, &lead.Email, &lead.Source, &lead.CourseInterest,
		&lead.Status, &lead.FollowUpDate, &lead.Notes, &lead.ConvertedStudentID, &lead.CreatedAt, &lead.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: lead %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find lead: %w", err)
	}
	return lead, nil
}

// UpdateLead persists a lead's funnel state
func (r *Repository) UpdateLead(lead *models.Lead) error {
	query := `
		UPDATE coaching.leads
		SET status = $1, follow_up_date = $2, notes = $3, converted_student_id = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND is_deleted = FALSE`
	res, err := r.q.Exec(query, lead.Status, lead.FollowUpDate, lead.Notes, lead.ConvertedStudentID, lead.ID)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: lead %d", apperrors.ErrNotFound, lead.ID)
	}
	return nil
}

// ListLeads returns leads for a branch, optionally filtered by status
func (r *Repository) ListLeads(branchID int64, status *models.LeadStatus) ([]*models.Lead, error) {
	query := `
		SELECT id, branch_id, name, phone, email, source, course_interest, status,
			follow_up_date, notes, converted_student_id, created_at, updated_at
		FROM coaching.leads
		WHERE branch_id = $1 AND ($2::text IS NULL OR status = $2) AND is_deleted = FALSE
		ORDER BY created_at DESC`
	rows, err := r.q.Query(query, branchID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()
	return scanLeads(rows)
}

// ListLeadsDueForFollowUp returns open leads whose follow-up date has arrived
func (r *Repository) ListLeadsDueForFollowUp(asOf time.Time) ([]*models.Lead, error) {
	query := `
		SELECT id, branch_id, name, phone, email, source, course_interest, status,
			follow_up_date, notes, converted_student_id, created_at, updated_at
		FROM coaching.leads
		WHERE follow_up_date IS NOT NULL AND follow_up_date <= $1
			AND status NOT IN ('Converted', 'Lost')
			AND is_deleted = FALSE
		ORDER BY follow_up_date`
	rows, err := r.q.Query(query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due leads: %w", err)
	}
	defer rows.Close()
	return scanLeads(rows)
}

func scanLeads(rows *sql.Rows) ([]*models.Lead, error) {
	var leads []*models.Lead
	for rows.Next() {
		lead := &models.Lead{}
		if err := rows.Scan(
			&lead.ID, &lead.BranchID, &lead.Name, &lead.Phone, &lead.Email, &lead.Source, &lead.CourseInterest,
			&lead.Status, &lead.FollowUpDate, &lead.Notes, &lead.ConvertedStudentID, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
