package models

import "time"

// LeadStatus tracks a lead through the enquiry funnel
type LeadStatus string

const (
	LeadStatusNew           LeadStatus = "New"
	LeadStatusContacted     LeadStatus = "Contacted"
	LeadStatusDemoScheduled LeadStatus = "DemoScheduled"
	LeadStatusConverted     LeadStatus = "Converted"
	LeadStatusLost          LeadStatus = "Lost"
)

// Lead represents an enquiry that may convert into a student
type Lead struct {
	ID                 int64      `json:"id"`
	BranchID           int64      `json:"branch_id"`
	Name               string     `json:"name"`
	Phone              string     `json:"phone"`
	Email              string     `json:"email"`
	Source             string     `json:"source"`
	CourseInterest     string     `json:"course_interest"`
	Status             LeadStatus `json:"status"`
	FollowUpDate       *time.Time `json:"follow_up_date,omitempty"`
	Notes              string     `json:"notes"`
	ConvertedStudentID *int64     `json:"converted_student_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
