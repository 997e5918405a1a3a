package models

import "time"

// AttendanceStatus is the recorded presence state for one student on one day
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLate    AttendanceStatus = "Late"
)

// Attendance represents one student's attendance record for a class on a date
type Attendance struct {
	ID             int64            `json:"id"`
	StudentID      int64            `json:"student_id"`
	ClassID        int64            `json:"class_id"`
	Date           time.Time        `json:"date"`
	Status         AttendanceStatus `json:"status"`
	MarkedByUserID int64            `json:"marked_by_user_id"`
	Remarks        string           `json:"remarks"`
	CreatedAt      time.Time        `json:"created_at"`
}
