package course

import (
	"context"
	"net/http"
	"net/url"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/resource"
)

const (
	Name     = "course"
	basePath = "/api/v8"
)

type Course struct {
	ID          core.ID `json:"id,omitempty"`
	CourseName  string  `json:"courseName,omitempty"`
	Description string  `json:"description,omitempty"`
	CourseCode  string  `json:"courseCode,omitempty"`
	SchoolID    core.ID `json:"schoolId,omitempty"`
	UserID      core.ID `json:"userId,omitempty"`
	StudentID   core.ID `json:"studentId,omitempty"`
}

func (c Course) Key() core.ID { return c.ID }

func (c Course) School() core.ID { return c.SchoolID }

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	CourseName  string `json:"courseName" validate:"required"`
	Description string `json:"description,omitempty"`
	CourseCode  string `json:"courseCode" validate:"required,alphanum"`
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Empty fields are left unchanged.
type UpdateCourse struct {
	CourseName  string `json:"courseName,omitempty"`
	Description string `json:"description,omitempty"`
	CourseCode  string `json:"courseCode,omitempty" validate:"omitempty,alphanum"`
}

type Slice struct {
	*resource.Resource[Course]
}

func NewSlice(api core.APIClient, logger core.Logger, tenant resource.Tenant) *Slice {
	return &Slice{Resource: resource.New[Course](Name, api, logger, tenant)}
}

func (s *Slice) Add(ctx context.Context, schoolID core.ID, nc NewCourse) (Course, error) {
	nc.CourseName = core.CleanString(nc.CourseName)
	nc.CourseCode = core.CleanString(nc.CourseCode)
	req := core.Request{Method: http.MethodPost, Path: resource.Pathf(basePath+"/create-course/%s", schoolID), Body: nc}
	return s.Create(ctx, "add", req, s.InSchool(schoolID), resource.Validated(nc))
}

func (s *Slice) ListBySchool(ctx context.Context, schoolID core.ID) ([]Course, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/get-course/schoolId/%s", schoolID)}
	return s.List(ctx, "list", req, s.InSchool(schoolID))
}

// ByStudent lists the courses a student follows in a school.
func (s *Slice) ByStudent(ctx context.Context, schoolID, studentID core.ID) ([]Course, error) {
	req := core.Request{
		Method: http.MethodGet,
		Path:   basePath + "/get-course/student-school",
		Query:  url.Values{"schoolId": {schoolID.String()}, "studentId": {studentID.String()}},
	}
	return s.List(ctx, "by-student", req, s.InSchool(schoolID), resource.RequireID("studentId", studentID))
}

func (s *Slice) Get(ctx context.Context, id core.ID) (Course, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/get-course/%s", id)}
	return s.Fetch(ctx, "get", req, resource.RequireID("id", id))
}

func (s *Slice) Update(ctx context.Context, id core.ID, uc UpdateCourse) (Course, error) {
	req := core.Request{Method: http.MethodPut, Path: resource.Pathf(basePath+"/update-course/%s", id), Body: uc}
	return s.Modify(ctx, "update", req, resource.RequireID("id", id), resource.Validated(uc))
}

func (s *Slice) Delete(ctx context.Context, id core.ID) ([]Course, error) {
	req := core.Request{Method: http.MethodDelete, Path: resource.Pathf(basePath+"/delete-course/%s", id)}
	return s.Remove(ctx, "delete", req, resource.RequireID("id", id))
}
