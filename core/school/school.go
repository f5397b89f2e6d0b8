// Package school is the slice of schools, the one entity not scoped by a school id.
package school

import (
	"context"
	"net/http"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/resource"
)

const (
	Name     = "school"
	basePath = "/api/v1"
)

type Slice struct {
	*resource.Resource[School]
}

func NewSlice(api core.APIClient, logger core.Logger) *Slice {
	return &Slice{Resource: resource.New[School](Name, api, logger, nil)}
}

func (s *Slice) Add(ctx context.Context, ns NewSchool) (School, error) {
	ns.clean()
	req := core.Request{Method: http.MethodPost, Path: basePath + "/add/school", Body: ns}
	return s.Create(ctx, "add", req, resource.Validated(ns))
}

func (s *Slice) ListAll(ctx context.Context) ([]School, error) {
	return s.List(ctx, "list", core.Request{Method: http.MethodGet, Path: basePath + "/list/schools"})
}

func (s *Slice) Get(ctx context.Context, id core.ID) (School, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/list/school/%s", id)}
	return s.Fetch(ctx, "get", req, resource.RequireID("id", id))
}

func (s *Slice) Update(ctx context.Context, id core.ID, us UpdateSchool) (School, error) {
	req := core.Request{Method: http.MethodPut, Path: resource.Pathf(basePath+"/update/school/%s", id), Body: us}
	return s.Modify(ctx, "update", req, resource.RequireID("id", id))
}

func (s *Slice) Delete(ctx context.Context, id core.ID) ([]School, error) {
	req := core.Request{Method: http.MethodDelete, Path: resource.Pathf(basePath+"/delete/school/%s", id)}
	return s.Remove(ctx, "delete", req, resource.RequireID("id", id))
}
