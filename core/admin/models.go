package admin

import (
	"github.com/trezcool/presensi/core"
)

// Roles
const (
	RoleAdmin  = "admin"
	RoleParent = "parent"
)

type Status int

const (
	Anonymous Status = iota
	Authenticating
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "anonymous"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Admin is the session principal. The password is never part of it.
type Admin struct {
	ID       core.ID `json:"id,omitempty"`
	Name     string  `json:"name,omitempty"`
	Username string  `json:"username,omitempty"`
	Email    string  `json:"email,omitempty"`
	Birthday string  `json:"birthday,omitempty"`
	Address  string  `json:"address,omitempty"`
	Phone    string  `json:"phoneNumber,omitempty"`
	SchoolID core.ID `json:"schoolId,omitempty"`
	Role     string  `json:"role,omitempty"`
}

func (a Admin) Key() core.ID { return a.ID }

// NewAdmin contains information needed to register a new Admin.
type NewAdmin struct {
	Name     string  `json:"name" validate:"required"`
	Username string  `json:"username" validate:"required"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required"`
	Phone    string  `json:"phoneNumber,omitempty"`
	SchoolID core.ID `json:"schoolId" validate:"required"`
	Role     string  `json:"role,omitempty"`
	core.Device
}

func (na *NewAdmin) clean() {
	na.Name = core.CleanString(na.Name)
	na.Username = core.CleanString(na.Username)
	na.Email = core.CleanString(na.Email, true /* lower */)
	if na.Role == "" {
		na.Role = RoleAdmin
	}
}

type Credentials struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	SchoolID core.ID `json:"schoolId,omitempty"`
	core.Device
}

type ChangePassword struct {
	Current  string `json:"currentPassword" validate:"required"`
	Password string `json:"password" validate:"required"`
	Confirm  string `json:"reTypePassword" validate:"required,eqfield=Password"`
	core.Device
}

// UpdateAccount defines what information may be provided to modify the Admin's own account.
type UpdateAccount struct {
	Birthday string `json:"birthday"`
	Address  string `json:"address"`
	Phone    string `json:"phoneNumber"`
	core.Device
}

// State is a read-only snapshot of the Session.
type State struct {
	Status  Status `json:"status"`
	Admin   *Admin `json:"admin"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

func (st State) IsAuthenticated() bool {
	return st.Status == Authenticated && st.Admin != nil
}
