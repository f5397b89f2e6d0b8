package attendance

import (
	"github.com/trezcool/presensi/core"
)

type (
	// Attendance is one presence record. Present is a free-text status label, not a boolean.
	Attendance struct {
		ID        core.ID     `json:"id,omitempty"`
		Present   string      `json:"present,omitempty"`
		Timestamp string      `json:"timestamp,omitempty"` // time of day
		StudentID core.ID     `json:"studentId,omitempty"`
		SchoolID  core.ID     `json:"schoolId,omitempty"`
		CreatedAt string      `json:"createdAt,omitempty"` // calendar date
		Student   *StudentRef `json:"student,omitempty"`
	}

	// StudentRef is the student summary embedded for display.
	StudentRef struct {
		Name      string `json:"name,omitempty"`
		Classroom string `json:"classroom,omitempty"`
	}
)

func (a Attendance) Key() core.ID { return a.ID }

func (a Attendance) School() core.ID { return a.SchoolID }

// NewAttendance contains information needed to record a new Attendance.
type NewAttendance struct {
	Present   string  `json:"present" validate:"required"`
	Timestamp string  `json:"timestamp,omitempty"`
	StudentID core.ID `json:"studentId" validate:"required"`
}

// UpdateAttendance defines what information may be provided to modify an existing Attendance.
// Empty fields are left unchanged.
type UpdateAttendance struct {
	Present   string `json:"present,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// DetailsQuery selects one student's attendances for a month.
type DetailsQuery struct {
	ID        core.ID `json:"id"`
	StudentID core.ID `json:"studentId" validate:"required"`
	core.Period
}
