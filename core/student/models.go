package student

import (
	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/attendance"
)

// Genders
const (
	Male   = "Male"
	Female = "Female"
)

type Student struct {
	ID           core.ID `json:"id,omitempty"`
	Name         string  `json:"name,omitempty"`
	Classroom    string  `json:"classroom,omitempty"`
	Gender       string  `json:"gender,omitempty"`
	Address      string  `json:"address,omitempty"`
	Religion     string  `json:"religion,omitempty"`
	Birthdate    string  `json:"birthdate,omitempty"`
	ParentName   string  `json:"parentName,omitempty"`
	Job          string  `json:"job,omitempty"`
	Relationship string  `json:"relationship,omitempty"`
	ParentPhone  string  `json:"parentPhone,omitempty"`
	SchoolID     core.ID `json:"schoolId,omitempty"`
	// only populated on detail fetch
	Attendances []attendance.Attendance `json:"attendances,omitempty"`
	CreatedAt   string                  `json:"createdAt,omitempty"`
	UpdatedAt   string                  `json:"updatedAt,omitempty"`
}

func (s Student) Key() core.ID { return s.ID }

func (s Student) School() core.ID { return s.SchoolID }

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name         string `json:"name" validate:"required"`
	Classroom    string `json:"classroom,omitempty"`
	Gender       string `json:"gender,omitempty" validate:"omitempty,oneof=Male Female"`
	Address      string `json:"address,omitempty"`
	Religion     string `json:"religion,omitempty"`
	Birthdate    string `json:"birthdate,omitempty"`
	ParentName   string `json:"parentName,omitempty"`
	Job          string `json:"job,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	ParentPhone  string `json:"parentPhone,omitempty"`
}

func (ns *NewStudent) clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Classroom = core.CleanString(ns.Classroom)
	ns.Gender = core.CleanString(ns.Gender)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Empty fields are left unchanged.
type UpdateStudent struct {
	Name         string `json:"name,omitempty"`
	Classroom    string `json:"classroom,omitempty"`
	Gender       string `json:"gender,omitempty" validate:"omitempty,oneof=Male Female"`
	Address      string `json:"address,omitempty"`
	Religion     string `json:"religion,omitempty"`
	Birthdate    string `json:"birthdate,omitempty"`
	ParentName   string `json:"parentName,omitempty"`
	Job          string `json:"job,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	ParentPhone  string `json:"parentPhone,omitempty"`
}
