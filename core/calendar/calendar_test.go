package calendar_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/calendar"
	"github.com/trezcool/presensi/testutil"
)

func TestSlice(t *testing.T) {
	ctx := context.Background()
	events := []interface{}{
		map[string]interface{}{"id": 1, "date": "2024-03-11", "description": "Nyepi", "schoolId": 3},
		map[string]interface{}{"id": 2, "date": "2024-03-28", "description": "Ujian", "schoolId": 3},
	}
	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodGet, "/api/v9/query/get-calendar/school", testutil.Data(events))
	fake.On(http.MethodPut, "/api/v9/update-calendar", testutil.Data(map[string]interface{}{
		"id": 2, "date": "2024-03-29", "description": "Ujian", "schoolId": 3,
	}))
	fake.On(http.MethodDelete, "/api/v9/delete-calendar/1", testutil.Data(events[1:]))
	s := calendar.NewSlice(fake.Client(nil), testutil.NewLogger(), nil)

	_, err := s.ListBySchool(ctx, "3", core.Period{Month: "3", Year: "2024"})
	require.NoError(t, err)
	req, _ := fake.Last(http.MethodGet, "/api/v9/query/get-calendar/school")
	assert.Equal(t, url.Values{"id": {"3"}, "month": {"3"}, "year": {"2024"}}, req.Query)

	_, err = s.Update(ctx, "2", "3", calendar.UpdateEvent{Date: "2024-03-29"})
	require.NoError(t, err)
	assert.Equal(t, []calendar.Event{
		{ID: "1", Date: "2024-03-11", Description: "Nyepi", SchoolID: "3"},
		{ID: "2", Date: "2024-03-29", Description: "Ujian", SchoolID: "3"},
	}, s.Items())
	req, _ = fake.Last(http.MethodPut, "/api/v9/update-calendar")
	assert.Equal(t, url.Values{"id": {"2"}, "schoolId": {"3"}}, req.Query)
	assert.JSONEq(t, `{"date":"2024-03-29"}`, string(req.Body))

	_, err = s.Delete(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, s.Items(), 1)
	assert.Equal(t, core.ID("2"), s.Items()[0].ID)
}

func TestSlice_Add_validation(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	s := calendar.NewSlice(fake.Client(nil), testutil.NewLogger(), nil)

	_, err := s.Add(context.Background(), "3", calendar.NewEvent{Date: "2024-03-11", Description: " "})

	require.Error(t, err)
	assert.Equal(t, "description is a required field", s.Snapshot().Error)
	assert.Equal(t, 0, fake.Total())
}

type principal core.ID

func (p principal) SchoolID() (core.ID, bool) { return core.ID(p), p != "" }

func TestSlice_Update_tenancy(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodPut, "/api/v9/update-calendar", testutil.Data(map[string]interface{}{"id": 2, "schoolId": 3}))
	s := calendar.NewSlice(fake.Client(nil), testutil.NewLogger(), principal("3"))

	tests := []struct {
		name     string
		schoolID core.ID
		wantErr  error
		wantMsg  string
	}{
		{name: "missing school", schoolID: "", wantMsg: "schoolId is a required field"},
		{name: "other school", schoolID: "5", wantErr: core.ErrTenantMismatch, wantMsg: core.ErrTenantMismatch.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Update(ctx, "2", tt.schoolID, calendar.UpdateEvent{Description: "Libur"})

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			}
			assert.Equal(t, tt.wantMsg, s.Snapshot().Error)
			assert.Equal(t, 0, fake.Total())
		})
	}

	_, err := s.Update(ctx, "2", "3", calendar.UpdateEvent{Description: "Libur"})
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Count(http.MethodPut, "/api/v9/update-calendar"))
}
