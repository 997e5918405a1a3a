package repository

import (
	"fmt"
	"time"

	"github.com/coachms/coaching-service/internal/models"
)

// UpsertAttendance records attendance for a student+class+date, overwriting
// an earlier mark for the same day
func (r *Repository) UpsertAttendance(a *models.Attendance) error {
	query := `
		INSERT INTO coaching.attendance (student_id, class_id, date, status, marked_by_user_id, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		ON CONFLICT (student_id, class_id, date)
		DO UPDATE SET status = EXCLUDED.status, marked_by_user_id = EXCLUDED.marked_by_user_id, remarks = EXCLUDED.remarks
		RETURNING id, created_at`
	err := r.q.QueryRow(query, a.StudentID, a.ClassID, a.Date, a.Status, a.MarkedByUserID, a.Remarks).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record attendance: %w", err)
	}
	return nil
}

// ListAttendanceByClassDate returns a class's attendance for one date
func (r *Repository) ListAttendanceByClassDate(classID int64, date time.Time) ([]*models.Attendance, error) {
	query := `
		SELECT id, student_id, class_id, date, status, marked_by_user_id, remarks, created_at
		FROM coaching.attendance
		WHERE class_id = $1 AND date = $2
		ORDER BY student_id`
	rows, err := r.q.Query(query, classID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []*models.Attendance
	for rows.Next() {
		a := &models.Attendance{}
		if err := rows.Scan(&a.ID, &a.StudentID, &a.ClassID, &a.Date, &a.Status, &a.MarkedByUserID, &a.Remarks, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// ListStudentAttendance returns one student's attendance within a date range
func (r *Repository) ListStudentAttendance(studentID int64, from, to time.Time) ([]*models.Attendance, error) {
	query := `
		SELECT id, student_id, class_id, date, status, marked_by_user_id, remarks, created_at
		FROM coaching.attendance
		WHERE student_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date`
	rows, err := r.q.Query(query, studentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list student attendance: %w", err)
	}
	defer rows.Close()

	var records []*models.Attendance
	for rows.Next() {
		a := &models.Attendance{}
		if err := rows.Scan(&a.ID, &a.StudentID, &a.ClassID, &a.Date, &a.Status, &a.MarkedByUserID, &a.Remarks, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
