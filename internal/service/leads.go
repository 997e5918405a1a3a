package service

import (
	"fmt"
	"time"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
	"github.com/coachms/coaching-service/internal/repository"
)

// CreateLead records a new enquiry
func (s *Service) CreateLead(lead *models.Lead) (*models.Lead, error) {
	if lead.Name == "" || lead.Phone == "" {
		return nil, fmt.Errorf("%w: lead name and phone are required", apperrors.ErrValidation)
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	if err := s.repo.CreateLead(lead); err != nil {
		return nil, err
	}
	s.log.Infof("Lead created: %s (%s)", lead.Name, lead.Source)
	return lead, nil
}

// UpdateLeadStatus moves a lead through the funnel. Converted and Lost are
// terminal; conversion itself goes through ConvertLead.
func (s *Service) UpdateLeadStatus(id int64, status models.LeadStatus, followUp *time.Time, notes string) (*models.Lead, error) {
	switch status {
	case models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusDemoScheduled, models.LeadStatusLost:
	case models.LeadStatusConverted:
		return nil, fmt.Errorf("%w: use the convert endpoint to convert a lead", apperrors.ErrValidation)
	default:
		return nil, fmt.Errorf("%w: unknown lead status %q", apperrors.ErrValidation, status)
	}

	lead, err := s.repo.FindLeadByID(id)
	if err != nil {
		return nil, err
	}
	if lead.Status == models.LeadStatusConverted || lead.Status == models.LeadStatusLost {
		return nil, fmt.Errorf("%w: lead is already %s", apperrors.ErrInvalidOperation, lead.Status)
	}

	lead.Status = status
	lead.FollowUpDate = followUp
	if notes != "" {
		lead.Notes = notes
	}
	if err := s.repo.UpdateLead(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// ListLeads returns leads for a branch, optionally filtered by status
func (s *Service) ListLeads(branchID int64, status *models.LeadStatus) ([]*models.Lead, error) {
	return s.repo.ListLeads(branchID, status)
}

// DueFollowUps returns open leads whose follow-up date has arrived
func (s *Service) DueFollowUps() ([]*models.Lead, error) {
	return s.repo.ListLeadsDueForFollowUp(s.now())
}

// ConvertLead enrolls a lead as a student and closes the lead, atomically
func (s *Service) ConvertLead(leadID int64, classID *int64, parentName, parentPhone, parentEmail string) (*models.Student, error) {
	var student *models.Student
	err := s.repo.WithTx(func(tx *repository.Repository) error {
		lead, err := tx.FindLeadByID(leadID)
		if err != nil {
			return err
		}
		if lead.Status == models.LeadStatusConverted || lead.Status == models.LeadStatusLost {
			return fmt.Errorf("%w: lead is already %s", apperrors.ErrInvalidOperation, lead.Status)
		}

		student = &models.Student{
			BranchID:      lead.BranchID,
			ClassID:       classID,
			Name:          lead.Name,
			Email:         lead.Email,
			Phone:         lead.Phone,
			ParentName:    parentName,
			ParentPhone:   parentPhone,
			ParentEmail:   parentEmail,
			AdmissionDate: s.now(),
		}
		if err := tx.CreateStudent(student); err != nil {
			return err
		}

		lead.Status = models.LeadStatusConverted
		lead.ConvertedStudentID = &student.ID
		return tx.UpdateLead(lead)
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("Lead %d converted to student %d", leadID, student.ID)
	return student, nil
}
