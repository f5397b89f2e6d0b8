package teacher

import (
	"github.com/trezcool/presensi/core"
)

type Teacher struct {
	ID        core.ID `json:"id,omitempty"`
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Born      string  `json:"born,omitempty"` // free text, eg. "Bandung, 1 Mei 1980"
	Gender    string  `json:"gender,omitempty"`
	Religion  string  `json:"religion,omitempty"`
	NIP       string  `json:"nip,omitempty"` // employee id
	SchoolID  core.ID `json:"schoolId,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

func (t Teacher) Key() core.ID { return t.ID }

func (t Teacher) School() core.ID { return t.SchoolID }

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	Name     string `json:"name" validate:"required"`
	Address  string `json:"address,omitempty"`
	Born     string `json:"born,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Religion string `json:"religion,omitempty"`
	NIP      string `json:"nip,omitempty" validate:"omitempty,numeric"`
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
// Empty fields are left unchanged.
type UpdateTeacher struct {
	Name     string `json:"name,omitempty"`
	Address  string `json:"address,omitempty"`
	Born     string `json:"born,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Religion string `json:"religion,omitempty"`
	NIP      string `json:"nip,omitempty" validate:"omitempty,numeric"`
}
