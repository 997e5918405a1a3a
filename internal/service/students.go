package service

import (
	"fmt"
	"time"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
)

// CreateBranch creates a new institute branch
func (s *Service) CreateBranch(name, address, phone string) (*models.Branch, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: branch name is required", apperrors.ErrValidation)
	}
	branch := &models.Branch{Name: name, Address: address, Phone: phone}
	if err := s.repo.CreateBranch(branch); err != nil {
		return nil, err
	}
	s.log.Infof("Branch created: %s", branch.Name)
	return branch, nil
}

// ListBranches returns all branches
func (s *Service) ListBranches() ([]*models.Branch, error) {
	return s.repo.ListBranches()
}

// CreateStudent enrolls a new student
func (s *Service) CreateStudent(student *models.Student) (*models.Student, error) {
	if student.Name == "" {
		return nil, fmt.Errorf("%w: student name is required", apperrors.ErrValidation)
	}
	if student.ClassID != nil {
		if _, err := s.repo.FindClassByID(*student.ClassID); err != nil {
			return nil, err
		}
	}
	if student.AdmissionDate.IsZero() {
		student.AdmissionDate = s.now()
	}
	if err := s.repo.CreateStudent(student); err != nil {
		return nil, err
	}
	s.log.Infof("Student enrolled: %s (branch %d)", student.Name, student.BranchID)
	return student, nil
}

// GetStudent retrieves a student by id
func (s *Service) GetStudent(id int64) (*models.Student, error) {
	return s.repo.FindStudentByID(id)
}

// ListStudents returns students for a branch, optionally narrowed to a class
func (s *Service) ListStudents(branchID int64, classID *int64) ([]*models.Student, error) {
	return s.repo.ListStudents(branchID, classID)
}

// DeleteStudent soft-deletes a student record
func (s *Service) DeleteStudent(id int64) error {
	if err := s.repo.SoftDeleteStudent(id); err != nil {
		return err
	}
	s.log.Infof("Student %d deleted", id)
	return nil
}

// CreateClass creates a new class
func (s *Service) CreateClass(class *models.Class) (*models.Class, error) {
	if class.Name == "" {
		return nil, fmt.Errorf("%w: class name is required", apperrors.ErrValidation)
	}
	if err := s.repo.CreateClass(class); err != nil {
		return nil, err
	}
	s.log.Infof("Class created: %s (%s)", class.Name, class.AcademicYear)
	return class, nil
}

// ListClasses returns classes for a branch
func (s *Service) ListClasses(branchID int64) ([]*models.Class, error) {
	return s.repo.ListClasses(branchID)
}

// MarkAttendance records one student's presence for a class on a date
func (s *Service) MarkAttendance(a *models.Attendance) (*models.Attendance, error) {
	switch a.Status {
	case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLate:
	default:
		return nil, fmt.Errorf("%w: unknown attendance status %q", apperrors.ErrValidation, a.Status)
	}
	if _, err := s.repo.FindStudentByID(a.StudentID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindClassByID(a.ClassID); err != nil {
		return nil, err
	}
	if a.Date.IsZero() {
		a.Date = s.now().Truncate(24 * time.Hour)
	}
	if err := s.repo.UpsertAttendance(a); err != nil {
		return nil, err
	}
	return a, nil
}

// ClassAttendance returns a class's attendance for one date
func (s *Service) ClassAttendance(classID int64, date time.Time) ([]*models.Attendance, error) {
	return s.repo.ListAttendanceByClassDate(classID, date)
}

// StudentAttendance returns a student's attendance within a date range
func (s *Service) StudentAttendance(studentID int64, from, to time.Time) ([]*models.Attendance, error) {
	return s.repo.ListStudentAttendance(studentID, from, to)
}
