package notification

import (
	"github.com/trezcool/presensi/core"
)

type Notification struct {
	ID           core.ID `json:"id,omitempty"`
	UserID       core.ID `json:"userId,omitempty"`
	Description  string  `json:"description,omitempty"`
	SchoolID     core.ID `json:"schoolId,omitempty"`
	StudentID    core.ID `json:"studentId,omitempty"`
	AttendanceID core.ID `json:"attendanceId,omitempty"`
	IsOpened     bool    `json:"isOpened"`
	CreatedAt    string  `json:"createdAt,omitempty"`

	// denormalized for display
	Student    *StudentRef    `json:"student,omitempty"`
	Attendance *AttendanceRef `json:"attendance,omitempty"`
}

type (
	StudentRef struct {
		Name string `json:"name,omitempty"`
	}
	AttendanceRef struct {
		CreatedAt string `json:"createdAt,omitempty"`
	}
)

func (n Notification) Key() core.ID { return n.ID }

func (n Notification) School() core.ID { return n.SchoolID }

// NewNotification contains information needed to create a new Notification.
type NewNotification struct {
	UserID       core.ID `json:"userId" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	StudentID    core.ID `json:"studentId,omitempty"`
	AttendanceID core.ID `json:"attendanceId,omitempty"`
}

// UpdateNotification defines what information may be provided to modify an existing Notification.
type UpdateNotification struct {
	Description string `json:"description,omitempty"`
	IsOpened    *bool  `json:"isOpened,omitempty"`
}

// Unread returns the notifications not opened yet, in order.
func Unread(items []Notification) []Notification {
	unread := make([]Notification, 0, len(items))
	for _, n := range items {
		if !n.IsOpened {
			unread = append(unread, n)
		}
	}
	return unread
}
