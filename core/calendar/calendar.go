// Package calendar is the slice of a school's calendar events.
package calendar

import (
	"context"
	"net/http"
	"net/url"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/resource"
)

const (
	Name     = "calendar"
	basePath = "/api/v9"
)

type Event struct {
	ID          core.ID `json:"id,omitempty"`
	Date        string  `json:"date,omitempty"`
	Description string  `json:"description,omitempty"`
	SchoolID    core.ID `json:"schoolId,omitempty"`
}

func (e Event) Key() core.ID { return e.ID }

func (e Event) School() core.ID { return e.SchoolID }

type NewEvent struct {
	Date        string `json:"date" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// UpdateEvent defines what information may be provided to modify an existing Event.
// Empty fields are left unchanged.
type UpdateEvent struct {
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

type Slice struct {
	*resource.Resource[Event]
}

func NewSlice(api core.APIClient, logger core.Logger, tenant resource.Tenant) *Slice {
	return &Slice{Resource: resource.New[Event](Name, api, logger, tenant)}
}

func (s *Slice) Add(ctx context.Context, schoolID core.ID, ne NewEvent) (Event, error) {
	ne.Description = core.CleanString(ne.Description)
	req := core.Request{Method: http.MethodPost, Path: resource.Pathf(basePath+"/create-calendar/%s", schoolID), Body: ne}
	return s.Create(ctx, "add", req, s.InSchool(schoolID), resource.Validated(ne))
}

// ListBySchool lists a school's events, optionally restricted to a month and year.
func (s *Slice) ListBySchool(ctx context.Context, schoolID core.ID, period core.Period) ([]Event, error) {
	req := core.Request{
		Method: http.MethodGet,
		Path:   basePath + "/query/get-calendar/school",
		Query:  period.Encode(url.Values{"id": {schoolID.String()}}),
	}
	return s.List(ctx, "list", req, s.InSchool(schoolID), resource.Validated(period))
}

func (s *Slice) Get(ctx context.Context, id core.ID) (Event, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/get-calendar/%s", id)}
	return s.Fetch(ctx, "get", req, resource.RequireID("id", id))
}

// Update addresses the event by query parameters, the school included.
func (s *Slice) Update(ctx context.Context, id, schoolID core.ID, ue UpdateEvent) (Event, error) {
	req := core.Request{
		Method: http.MethodPut,
		Path:   basePath + "/update-calendar",
		Query:  url.Values{"id": {id.String()}, "schoolId": {schoolID.String()}},
		Body:   ue,
	}
	return s.Modify(ctx, "update", req, resource.RequireID("id", id), s.InSchool(schoolID))
}

func (s *Slice) Delete(ctx context.Context, id core.ID) ([]Event, error) {
	req := core.Request{Method: http.MethodDelete, Path: resource.Pathf(basePath+"/delete-calendar/%s", id)}
	return s.Remove(ctx, "delete", req, resource.RequireID("id", id))
}
