package teacher

import (
	"context"
	"net/http"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/resource"
)

const (
	Name     = "teacher"
	basePath = "/api/v3"
)

type Slice struct {
	*resource.Resource[Teacher]
}

func NewSlice(api core.APIClient, logger core.Logger, tenant resource.Tenant) *Slice {
	return &Slice{Resource: resource.New[Teacher](Name, api, logger, tenant)}
}

func (s *Slice) Add(ctx context.Context, schoolID core.ID, nt NewTeacher) (Teacher, error) {
	nt.Name = core.CleanString(nt.Name)
	nt.NIP = core.CleanString(nt.NIP)
	req := core.Request{Method: http.MethodPost, Path: resource.Pathf(basePath+"/add/teacher/%s", schoolID), Body: nt}
	return s.Create(ctx, "add", req, s.InSchool(schoolID), resource.Validated(nt))
}

func (s *Slice) ListBySchool(ctx context.Context, schoolID core.ID) ([]Teacher, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/list/teachers/%s", schoolID)}
	return s.List(ctx, "list", req, s.InSchool(schoolID))
}

func (s *Slice) Get(ctx context.Context, id core.ID) (Teacher, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/list/teacher/%s", id)}
	return s.Fetch(ctx, "get", req, resource.RequireID("id", id))
}

func (s *Slice) Update(ctx context.Context, id core.ID, ut UpdateTeacher) (Teacher, error) {
	req := core.Request{Method: http.MethodPut, Path: resource.Pathf(basePath+"/update/teacher/%s", id), Body: ut}
	return s.Modify(ctx, "update", req, resource.RequireID("id", id), resource.Validated(ut))
}

func (s *Slice) Delete(ctx context.Context, id core.ID) ([]Teacher, error) {
	req := core.Request{Method: http.MethodDelete, Path: resource.Pathf(basePath+"/delete/teacher/%s", id)}
	return s.Remove(ctx, "delete", req, resource.RequireID("id", id))
}
