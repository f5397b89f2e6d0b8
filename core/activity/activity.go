// Package activity is the slice of a user's device history.
package activity

import (
	"context"
	"net/http"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/resource"
)

const (
	Name     = "activity"
	basePath = "/api/v10"
)

type Activity struct {
	ID          core.ID `json:"id,omitempty"`
	Device      string  `json:"device,omitempty"`
	Hardware    string  `json:"hardware,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	UserID      core.ID `json:"userId,omitempty"`
}

func (a Activity) Key() core.ID { return a.ID }

type NewActivity struct {
	Description string `json:"description" validate:"required"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Icon        string `json:"icon,omitempty"`
	core.Device
}

// UpdateActivity defines what information may be provided to modify an existing Activity.
// Empty fields are left unchanged.
type UpdateActivity struct {
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Icon        string `json:"icon,omitempty"`
}

type Slice struct {
	*resource.Resource[Activity]
}

func NewSlice(api core.APIClient, logger core.Logger) *Slice {
	return &Slice{Resource: resource.New[Activity](Name, api, logger, nil)}
}

func (s *Slice) Add(ctx context.Context, userID core.ID, na NewActivity) (Activity, error) {
	req := core.Request{Method: http.MethodPost, Path: resource.Pathf(basePath+"/create/device-history/%s", userID), Body: na}
	return s.Create(ctx, "add", req, resource.RequireID("userId", userID), resource.Validated(na))
}

func (s *Slice) ListByUser(ctx context.Context, userID core.ID) ([]Activity, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/device-history/%s", userID)}
	return s.List(ctx, "list", req, resource.RequireID("userId", userID))
}

func (s *Slice) Get(ctx context.Context, id core.ID) (Activity, error) {
	req := core.Request{Method: http.MethodGet, Path: resource.Pathf(basePath+"/get/device-history/%s", id)}
	return s.Fetch(ctx, "get", req, resource.RequireID("id", id))
}

func (s *Slice) Update(ctx context.Context, id core.ID, ua UpdateActivity) (Activity, error) {
	req := core.Request{Method: http.MethodPut, Path: resource.Pathf(basePath+"/update/device-history/%s", id), Body: ua}
	return s.Modify(ctx, "update", req, resource.RequireID("id", id), resource.Validated(ua))
}

// Delete removes one entry of the history.
func (s *Slice) Delete(ctx context.Context, id core.ID) ([]Activity, error) {
	req := core.Request{Method: http.MethodDelete, Path: resource.Pathf(basePath+"/delete/device-history/item/%s", id)}
	return s.Remove(ctx, "delete", req, resource.RequireID("id", id))
}

// DeleteByUser clears a user's whole history.
func (s *Slice) DeleteByUser(ctx context.Context, userID core.ID) ([]Activity, error) {
	req := core.Request{Method: http.MethodDelete, Path: resource.Pathf(basePath+"/delete/device-history/%s", userID)}
	return s.Remove(ctx, "delete-by-user", req, resource.RequireID("userId", userID))
}
