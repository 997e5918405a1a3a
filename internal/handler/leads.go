package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/coachms/coaching-service/internal/models"
)

type createLeadRequest struct {
	BranchID       int64  `json:"branch_id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	Source         string `json:"source"`
	CourseInterest string `json:"course_interest"`
	FollowUpDate   string `json:"follow_up_date" validate:"omitempty,datetime=2006-01-02"`
	Notes          string `json:"notes"`
}

// CreateLead records a new enquiry
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	lead := &models.Lead{
		BranchID:       req.BranchID,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Source:         req.Source,
		CourseInterest: req.CourseInterest,
		Notes:          req.Notes,
	}
	if req.FollowUpDate != "" {
		followUp, err := parseDate(req.FollowUpDate)
		if err != nil {
			respondError(w, err)
			return
		}
		lead.FollowUpDate = &followUp
	}

	created, err := h.svc.CreateLead(lead)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

type updateLeadStatusRequest struct {
	Status       string `json:"status" validate:"required,oneof=New Contacted DemoScheduled Lost"`
	FollowUpDate string `json:"follow_up_date" validate:"omitempty,datetime=2006-01-02"`
	Notes        string `json:"notes"`
}

// UpdateLeadStatus moves a lead through the funnel
func (h *Handler) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req updateLeadStatusRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	var followUp *time.Time
	if req.FollowUpDate != "" {
		day, err := parseDate(req.FollowUpDate)
		if err != nil {
			respondError(w, err)
			return
		}
		followUp = &day
	}

	lead, err := h.svc.UpdateLeadStatus(id, models.LeadStatus(req.Status), followUp, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

// ListLeads returns leads for a branch, optionally filtered by status
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	branchID, err := strconv.ParseInt(r.URL.Query().Get("branch_id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "branch_id query parameter is required"})
		return
	}
	var status *models.LeadStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := models.LeadStatus(raw)
		status = &st
	}

	leads, err := h.svc.ListLeads(branchID, status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, leads)
}

// DueFollowUps returns open leads whose follow-up date has arrived
func (h *Handler) DueFollowUps(w http.ResponseWriter, r *http.Request) {
	leads, err := h.svc.DueFollowUps()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, leads)
}

type convertLeadRequest struct {
	ClassID     *int64 `json:"class_id"`
	ParentName  string `json:"parent_name"`
	ParentPhone string `json:"parent_phone"`
	ParentEmail string `json:"parent_email" validate:"omitempty,email"`
}

// ConvertLead enrolls a lead as a student and closes the lead
func (h *Handler) ConvertLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req convertLeadRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	student, err := h.svc.ConvertLead(id, req.ClassID, req.ParentName, req.ParentPhone, req.ParentEmail)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, student)
}
