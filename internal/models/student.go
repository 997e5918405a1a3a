package models

import "time"

// Student represents an enrolled student
type Student struct {
	ID            int64     `json:"id"`
	BranchID      int64     `json:"branch_id"`
	ClassID       *int64    `json:"class_id,omitempty"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	ParentName    string    `json:"parent_name"`
	ParentPhone   string    `json:"parent_phone"`
	ParentEmail   string    `json:"parent_email"`
	AdmissionDate time.Time `json:"admission_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Class represents a batch of students taught together
type Class struct {
	ID           int64     `json:"id"`
	BranchID     int64     `json:"branch_id"`
	Name         string    `json:"name"`
	Subject      string    `json:"subject"`
	AcademicYear string    `json:"academic_year"`
	TeacherID    *int64    `json:"teacher_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
