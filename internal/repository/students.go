package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
)

// CreateStudent creates a new student in the database
func (r *Repository) CreateStudent(student *models.Student) error {
	query := `
		INSERT INTO coaching.students (branch_id, class_id, name, email, phone, parent_name, parent_phone, parent_email, admission_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(query,
		student.BranchID, student.ClassID, student.Name, student.Email, student.Phone,
		student.ParentName, student.ParentPhone, student.ParentEmail, student.AdmissionDate).
		Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// FindStudentByID retrieves a student by id
func (r *Repository) FindStudentByID(id int64) (*models.Student, error) {
	s := &models.Student{}
	query := `
		SELECT id, branch_id, class_id, name, email, phone, parent_name, parent_phone, parent_email, admission_date, created_at, updated_at
		FROM coaching.students
		WHERE id = $1 AND is_deleted = FALSE`
	err := r.q.QueryRow(query, id).Scan(
		&s.ID, &s.BranchID, &s.ClassID, &s.Name, &s.Email, &s.Phone,
		&s.ParentName, &s.ParentPhone, &s.ParentEmail, &s.AdmissionDate, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: student %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	return s, nil
}

// ListStudents returns students filtered by branch and optionally by class
func (r *Repository) ListStudents(branchID int64, classID *int64) ([]*models.Student, error) {
	query := `
		SELECT id, branch_id, class_id, name, email, phone, parent_name, parent_phone, parent_email, admission_date, created_at, updated_at
		FROM coaching.students
		WHERE branch_id = $1 AND ($2::bigint IS NULL OR class_id = $2) AND is_deleted = FALSE
		ORDER BY name`
	rows, err := r.q.Query(query, branchID, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s := &models.Student{}
		if err := rows.Scan(
			&s.ID, &s.BranchID, &s.ClassID, &s.Name, &s.Email, &s.Phone,
			&s.ParentName, &s.ParentPhone, &s.ParentEmail, &s.AdmissionDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// SoftDeleteStudent marks a student deleted without removing the row
func (r *Repository) SoftDeleteStudent(id int64) error {
	res, err := r.q.Exec(`
		UPDATE coaching.students SET is_deleted = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: student %d", apperrors.ErrNotFound, id)
	}
	return nil
}

// CreateClass creates a new class in the database
func (r *Repository) CreateClass(class *models.Class) error {
	query := `
		INSERT INTO coaching.classes (branch_id, name, subject, academic_year, teacher_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(query, class.BranchID, class.Name, class.Subject, class.AcademicYear, class.TeacherID).
		Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}
	return nil
}

// FindClassByID retrieves a class by id
func (r *Repository) FindClassByID(id int64) (*models.Class, error) {
	c := &models.Class{}
	query := `
		SELECT id, branch_id, name, subject, academic_year, teacher_id, created_at, updated_at
		FROM coaching.classes
		WHERE id = $1 AND is_deleted = FALSE`
	err := r.q.QueryRow(query, id).
		Scan(&c.ID, &c.BranchID, &c.Name, &c.Subject, &c.AcademicYear, &c.TeacherID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: class %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find class: %w", err)
	}
	return c, nil
}

// ListClasses returns all classes for a branch
func (r *Repository) ListClasses(branchID int64) ([]*models.Class, error) {
	query := `
		SELECT id, branch_id, name, subject, academic_year, teacher_id, created_at, updated_at
		FROM coaching.classes
		WHERE branch_id = $1 AND is_deleted = FALSE
		ORDER BY name`
	rows, err := r.q.Query(query, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		c := &models.Class{}
		if err := rows.Scan(&c.ID, &c.BranchID, &c.Name, &c.Subject, &c.AcademicYear, &c.TeacherID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}
