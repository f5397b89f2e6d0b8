package attendance

import (
	"context"
	"net/http"
	"net/url"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/resource"
)

const (
	Name     = "attendance"
	basePath = "/api/v4"
)

type Slice struct {
	*resource.Resource[Attendance]
}

func NewSlice(api core.APIClient, logger core.Logger, tenant resource.Tenant) *Slice {
	return &Slice{Resource: resource.New[Attendance](Name, api, logger, tenant)}
}

func (s *Slice) Add(ctx context.Context, schoolID core.ID, na NewAttendance) (Attendance, error) {
	na.Present = core.CleanString(na.Present)
	req := core.Request{Method: http.MethodPost, Path: resource.Pathf(basePath+"/add/attendance/%s", schoolID), Body: na}
	return s.Create(ctx, "add", req, s.InSchool(schoolID), resource.Validated(na))
}

// ListBySchool lists a school's attendances, optionally restricted to a month and year.
func (s *Slice) ListBySchool(ctx context.Context, schoolID core.ID, period core.Period) ([]Attendance, error) {
	req := core.Request{
		Method: http.MethodGet,
		Path:   resource.Pathf(basePath+"/attendances/school/%s", schoolID),
		Query:  period.Encode(nil),
	}
	return s.List(ctx, "list", req, s.InSchool(schoolID), resource.Validated(period))
}

// ByWeek lists a student's attendances for the current week.
func (s *Slice) ByWeek(ctx context.Context, studentID core.ID) ([]Attendance, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/attendances/student/by-week/%s", studentID)}
	return s.List(ctx, "by-week", req, resource.RequireID("studentId", studentID))
}

func (s *Slice) Details(ctx context.Context, q DetailsQuery) ([]Attendance, error) {
	query := url.Values{}
	if !q.ID.IsZero() {
		query.Set("id", q.ID.String())
	}
	query.Set("studentId", q.StudentID.String())
	req := core.Request{Method: http.MethodGet, Path: basePath + "/attendances/details", Query: q.Period.Encode(query)}
	return s.List(ctx, "details", req, resource.Validated(q))
}

func (s *Slice) Get(ctx context.Context, id core.ID) (Attendance, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/get/attendance/%s", id)}
	return s.Fetch(ctx, "get", req, resource.RequireID("id", id))
}

func (s *Slice) Update(ctx context.Context, id core.ID, ua UpdateAttendance) (Attendance, error) {
	req := core.Request{Method: http.MethodPut, Path: resource.Pathf(basePath+"/update/attendance/%s", id), Body: ua}
	return s.Modify(ctx, "update", req, resource.RequireID("id", id))
}

func (s *Slice) Delete(ctx context.Context, id core.ID) ([]Attendance, error) {
	req := core.Request{Method: http.MethodDelete, Path: resource.Pathf(basePath+"/delete/attendance/%s", id)}
	return s.Remove(ctx, "delete", req, resource.RequireID("id", id))
}
