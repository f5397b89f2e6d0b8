package apisvc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/presensi/core"
	apisvc "github.com/trezcool/presensi/services/api"
	"github.com/trezcool/presensi/testutil"
)

func TestClient_Do_headers(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodPost, "/api/v2/create/student/3", testutil.Data(map[string]interface{}{"id": 1}))

	tests := []struct {
		name     string
		token    string
		wantAuth string
	}{
		{name: "anonymous", token: "", wantAuth: ""},
		{name: "authenticated", token: "abc", wantAuth: "Bearer abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := fake.Client(testutil.StaticToken(tt.token))

			env, err := client.Do(ctx, core.Request{
				Method: http.MethodPost,
				Path:   "/api/v2/create/student/3",
				Body:   map[string]string{"name": "Amir"},
			})

			require.NoError(t, err)
			assert.Equal(t, "ok", env.Message)
			req, _ := fake.Last(http.MethodPost, "/api/v2/create/student/3")
			assert.Equal(t, tt.wantAuth, req.Header.Get("Authorization"))
			assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.JSONEq(t, `{"name":"Amir"}`, string(req.Body))
		})
	}
}

func TestClient_Do_query(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodGet, "/api/v4/query/attendances", testutil.Data([]interface{}{}))
	client := fake.Client(nil)

	_, err := client.Do(context.Background(), core.Request{
		Path:  "/api/v4/query/attendances",
		Query: core.Period{Month: "01", Year: "2024"}.Encode(nil),
	})

	require.NoError(t, err)
	req, _ := fake.Last(http.MethodGet, "/api/v4/query/attendances")
	assert.Equal(t, "01", req.Query.Get("month"))
	assert.Equal(t, "2024", req.Query.Get("year"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestClient_Do_multipart(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodPost, "/api/v5/create/news/3", testutil.Data(map[string]interface{}{"id": 9}))
	client := fake.Client(testutil.StaticToken("abc"))

	form := core.NewForm().Set("title", "Libur").Set("description", "").Attach(core.File{
		Field:    "image",
		Filename: "banner.png",
		Content:  strings.NewReader("png-bytes"),
	})
	_, err := client.Do(context.Background(), core.Request{
		Method: http.MethodPost,
		Path:   "/api/v5/create/news/3",
		Form:   form,
		Body:   map[string]string{"ignored": "yes"},
	})

	require.NoError(t, err)
	req, _ := fake.Last(http.MethodPost, "/api/v5/create/news/3")
	assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data"))
	assert.Equal(t, "Libur", req.Form.Get("title"))
	assert.Contains(t, req.Form, "description")
	assert.NotContains(t, req.Form, "ignored")
	assert.Equal(t, "png-bytes", req.Files["image"])
}

func TestClient_Do_errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantUnauth bool
	}{
		{name: "envelope message", status: http.StatusBadRequest, body: `{"status":"error","message":"name is required"}`, wantMsg: "name is required"},
		{name: "error field", status: http.StatusUnauthorized, body: `{"error":"invalid or expired jwt"}`, wantMsg: "invalid or expired jwt", wantUnauth: true},
		{name: "forbidden", status: http.StatusForbidden, body: `{"message":"forbidden"}`, wantMsg: "forbidden", wantUnauth: true},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMsg: "request failed with status 502"},
		{name: "empty", status: http.StatusInternalServerError, body: ``, wantMsg: "request failed with status 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)
			client := apisvc.NewClient(srv.URL, nil, testutil.NewLogger())

			_, err := client.Do(context.Background(), core.Request{Path: "/api/v1/list/schools"})

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, core.ErrorMessage(err))
			assert.False(t, core.IsTransport(err))
			assert.Equal(t, tt.wantUnauth, core.IsUnauthorized(err))
		})
	}
}

func TestClient_Do_bodies(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		check   func(t *testing.T, env *core.Envelope)
	}{
		{
			name: "empty",
			body: "  ",
			check: func(t *testing.T, env *core.Envelope) {
				assert.Empty(t, env.Data)
				assert.Empty(t, env.Token)
			},
		},
		{
			name: "login envelope",
			body: `{"status":"success","data":{"id":1},"token":"jwt"}`,
			check: func(t *testing.T, env *core.Envelope) {
				assert.Equal(t, "jwt", env.Token)
				var data map[string]int
				require.NoError(t, json.Unmarshal(env.Data, &data))
				assert.Equal(t, 1, data["id"])
			},
		},
		{name: "malformed", body: `{"data":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)
			client := apisvc.NewClient(srv.URL+"/", nil, testutil.NewLogger())

			env, err := client.Do(context.Background(), core.Request{Path: "/api/v7/current/user"})

			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, core.IsTransport(err))
				assert.Equal(t, core.ErrMalformedEnvelope.Error(), core.ErrorMessage(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, env)
		})
	}
}

func TestClient_Do_transport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client := apisvc.NewClient(url, nil, testutil.NewLogger())

	_, err := client.Do(context.Background(), core.Request{Path: "/api/v1/list/schools"})

	require.Error(t, err)
	assert.True(t, core.IsTransport(err))
	assert.Equal(t, "network error", core.ErrorMessage(err))
}

func TestClient_Do_timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	client := apisvc.NewClient(srv.URL, nil, testutil.NewLogger(), apisvc.WithTimeout(50*time.Millisecond))

	_, err := client.Do(context.Background(), core.Request{Path: "/api/v1/list/schools"})

	require.Error(t, err)
	assert.True(t, core.IsTransport(err))
}
