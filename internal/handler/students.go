package handler

import (
	"net/http"
	"strconv"

	"github.com/coachms/coaching-service/internal/models"
)

type createBranchRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// CreateBranch handles branch creation
func (h *Handler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var req createBranchRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	branch, err := h.svc.CreateBranch(req.Name, req.Address, req.Phone)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, branch)
}

// ListBranches returns all branches
func (h *Handler) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.svc.ListBranches()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, branches)
}

type createStudentRequest struct {
	BranchID      int64  `json:"branch_id" validate:"required"`
	ClassID       *int64 `json:"class_id"`
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	ParentName    string `json:"parent_name"`
	ParentPhone   string `json:"parent_phone"`
	ParentEmail   string `json:"parent_email" validate:"omitempty,email"`
	AdmissionDate string `json:"admission_date" validate:"omitempty,datetime=2006-01-02"`
}

// CreateStudent handles student enrollment
func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	student := &models.Student{
		BranchID:    req.BranchID,
		ClassID:     req.ClassID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ParentName:  req.ParentName,
		ParentPhone: req.ParentPhone,
		ParentEmail: req.ParentEmail,
	}
	if req.AdmissionDate != "" {
		admitted, err := parseDate(req.AdmissionDate)
		if err != nil {
			respondError(w, err)
			return
		}
		student.AdmissionDate = admitted
	}

	created, err := h.svc.CreateStudent(student)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// GetStudent returns one student
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	student, err := h.svc.GetStudent(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, student)
}

// ListStudents returns students filtered by branch and optionally class
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	branchID, err := strconv.ParseInt(r.URL.Query().Get("branch_id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "branch_id query parameter is required"})
		return
	}
	var classID *int64
	if raw := r.URL.Query().Get("class_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid class_id"})
			return
		}
		classID = &id
	}

	students, err := h.svc.ListStudents(branchID, classID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, students)
}

// DeleteStudent soft-deletes a student
func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.svc.DeleteStudent(id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type createClassRequest struct {
	BranchID     int64  `json:"branch_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Subject      string `json:"subject"`
	AcademicYear string `json:"academic_year"`
	TeacherID    *int64 `json:"teacher_id"`
}

// CreateClass handles class creation
func (h *Handler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var req createClassRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	class, err := h.svc.CreateClass(&models.Class{
		BranchID:     req.BranchID,
		Name:         req.Name,
		Subject:      req.Subject,
		AcademicYear: req.AcademicYear,
		TeacherID:    req.TeacherID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, class)
}

// ListClasses returns classes for a branch
func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	branchID, err := strconv.ParseInt(r.URL.Query().Get("branch_id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "branch_id query parameter is required"})
		return
	}
	classes, err := h.svc.ListClasses(branchID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, classes)
}

type markAttendanceRequest struct {
	StudentID int64  `json:"student_id" validate:"required"`
	ClassID   int64  `json:"class_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,oneof=Present Absent Late"`
	Remarks   string `json:"remarks"`
}

// MarkAttendance records attendance for one student
func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	day, err := parseDate(req.Date)
	if err != nil {
		respondError(w, err)
		return
	}

	record := &models.Attendance{
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		Date:      day,
		Status:    models.AttendanceStatus(req.Status),
		Remarks:   req.Remarks,
	}
	if marker := callerID(r); marker != nil {
		record.MarkedByUserID = *marker
	}

	created, err := h.svc.MarkAttendance(record)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ClassAttendance returns a class's attendance for one date
func (h *Handler) ClassAttendance(w http.ResponseWriter, r *http.Request) {
	classID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	day, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, err)
		return
	}
	records, err := h.svc.ClassAttendance(classID, day)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// StudentAttendance returns one student's attendance within a date range
func (h *Handler) StudentAttendance(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		respondError(w, err)
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}
	records, err := h.svc.StudentAttendance(studentID, from, to)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}
