package notification

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/resource"
)

const (
	Name     = "notification"
	basePath = "/api/v6"
)

type Slice struct {
	*resource.Resource[Notification]
}

func NewSlice(api core.APIClient, logger core.Logger, tenant resource.Tenant) *Slice {
	return &Slice{Resource: resource.New[Notification](Name, api, logger, tenant)}
}

func (s *Slice) Add(ctx context.Context, schoolID core.ID, nn NewNotification) (Notification, error) {
	req := core.Request{Method: http.MethodPost, Path: resource.Pathf(basePath+"/notification/create/%s", schoolID), Body: nn}
	return s.Create(ctx, "add", req, s.InSchool(schoolID), resource.Validated(nn))
}

// ListBySchool lists the notifications of one user within a school.
func (s *Slice) ListBySchool(ctx context.Context, schoolID, userID core.ID) ([]Notification, error) {
	req := core.Request{
		Method: http.MethodGet,
		Path:   resource.Pathf(basePath+"/notifications/user-school/%s/%s", schoolID, userID),
	}
	return s.List(ctx, "list", req, s.InSchool(schoolID), resource.RequireID("userId", userID))
}

func (s *Slice) Get(ctx context.Context, id core.ID) (Notification, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/notifications/%s", id)}
	return s.Fetch(ctx, "get", req, resource.RequireID("id", id))
}

func (s *Slice) Update(ctx context.Context, id core.ID, un UpdateNotification) (Notification, error) {
	req := core.Request{Method: http.MethodPut, Path: resource.Pathf(basePath+"/notification/update/%s", id), Body: un}
	return s.Modify(ctx, "update", req, resource.RequireID("id", id))
}

// Open marks one notification read. The server answers with the updated collection, which replaces the items.
func (s *Slice) Open(ctx context.Context, id core.ID) ([]Notification, error) {
	req := core.Request{Method: http.MethodPut, Path: resource.Pathf(basePath+"/notification/open/%s", id)}
	return s.List(ctx, "open", req, resource.RequireID("id", id))
}

// OpenAll sets the read state of every notification of a user within a school; the items are replaced as for Open.
func (s *Slice) OpenAll(ctx context.Context, userID, schoolID core.ID, isOpened bool) ([]Notification, error) {
	req := core.Request{
		Method: http.MethodPut,
		Path:   basePath + "/notifications/opened",
		Query: url.Values{
			"userId":   {userID.String()},
			"schoolId": {schoolID.String()},
			"isOpened": {strconv.FormatBool(isOpened)},
		},
	}
	return s.List(ctx, "open-all", req, resource.RequireID("userId", userID), s.InSchool(schoolID))
}

func (s *Slice) Delete(ctx context.Context, id core.ID) ([]Notification, error) {
	req := core.Request{Method: http.MethodDelete, Path: resource.Pathf(basePath+"/notification/delete/%s", id)}
	return s.Remove(ctx, "delete", req, resource.RequireID("id", id))
}
