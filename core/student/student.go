package student

import (
	"context"
	"net/http"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/resource"
)

const (
	Name     = "student"
	basePath = "/api/v2"
)

type Slice struct {
	*resource.Resource[Student]
}

func NewSlice(api core.APIClient, logger core.Logger, tenant resource.Tenant) *Slice {
	return &Slice{Resource: resource.New[Student](Name, api, logger, tenant)}
}

func (s *Slice) Add(ctx context.Context, schoolID core.ID, ns NewStudent) (Student, error) {
	ns.clean()
	req := core.Request{Method: http.MethodPost, Path: resource.Pathf(basePath+"/add/student/%s", schoolID), Body: ns}
	return s.Create(ctx, "add", req, s.InSchool(schoolID), resource.Validated(ns))
}

func (s *Slice) ListBySchool(ctx context.Context, schoolID core.ID) ([]Student, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/list/students/%s", schoolID)}
	return s.List(ctx, "list", req, s.InSchool(schoolID))
}

// Get fetches one Student along with its attendances.
func (s *Slice) Get(ctx context.Context, id core.ID) (Student, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/get/student/%s", id)}
	return s.Fetch(ctx, "get", req, resource.RequireID("id", id))
}

func (s *Slice) Update(ctx context.Context, id core.ID, us UpdateStudent) (Student, error) {
	req := core.Request{Method: http.MethodPut, Path: resource.Pathf(basePath+"/update/student/%s", id), Body: us}
	return s.Modify(ctx, "update", req, resource.RequireID("id", id), resource.Validated(us))
}

func (s *Slice) Delete(ctx context.Context, id core.ID) ([]Student, error) {
	req := core.Request{Method: http.MethodDelete, Path: resource.Pathf(basePath+"/delete/student/%s", id)}
	return s.Remove(ctx, "delete", req, resource.RequireID("id", id))
}
