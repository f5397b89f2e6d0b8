package news

import (
	"context"
	"net/http"
	"net/url"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/resource"
)

const (
	Name     = "news"
	basePath = "/api/v5"
)

type Slice struct {
	*resource.Resource[News]
}

func NewSlice(api core.APIClient, logger core.Logger, tenant resource.Tenant) *Slice {
	return &Slice{Resource: resource.New[News](Name, api, logger, tenant)}
}

func (s *Slice) Add(ctx context.Context, schoolID core.ID, p Post) (News, error) {
	req := core.Request{Method: http.MethodPost, Path: resource.Pathf(basePath+"/create/news/%s", schoolID), Form: p.form()}
	return s.Create(ctx, "add", req, s.InSchool(schoolID))
}

func (s *Slice) ListBySchool(ctx context.Context, schoolID core.ID) ([]News, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/read/news/school/%s", schoolID)}
	return s.List(ctx, "list", req, s.InSchool(schoolID))
}

func (s *Slice) ByCategory(ctx context.Context, category string) ([]News, error) {
	req := core.Request{
		Method: http.MethodGet,
		Path:   basePath + "/query/news",
		Query:  url.Values{"category": {core.CleanString(category)}},
	}
	return s.List(ctx, "by-category", req)
}

func (s *Slice) Get(ctx context.Context, id core.ID) (News, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/read/news/%s", id)}
	return s.Fetch(ctx, "get", req, resource.RequireID("id", id))
}

func (s *Slice) Update(ctx context.Context, id core.ID, p Post) (News, error) {
	req := core.Request{Method: http.MethodPut, Path: resource.Pathf(basePath+"/update/news/%s", id), Form: p.form()}
	return s.Modify(ctx, "update", req, resource.RequireID("id", id))
}

func (s *Slice) Delete(ctx context.Context, id core.ID) ([]News, error) {
	req := core.Request{Method: http.MethodDelete, Path: resource.Pathf(basePath+"/delete/news/%s", id)}
	return s.Remove(ctx, "delete", req, resource.RequireID("id", id))
}
