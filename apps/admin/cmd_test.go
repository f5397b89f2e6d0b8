package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/store"
	inmemstore "github.com/trezcool/presensi/storage/token/inmem"
	"github.com/trezcool/presensi/testutil"
)

var budi = map[string]interface{}{"id": 1, "name": "Budi", "username": "budi", "schoolId": 3, "role": "admin"}

func setup(t *testing.T, fake *testutil.FakeAPI) (*commandLine, *bytes.Buffer) {
	t.Helper()
	conf := &core.Config{
		Env:            "TEST",
		API:            core.APIConfig{BaseURL: fake.URL},
		Session:        core.SessionConfig{Store: "memory"},
		Device:         core.Device{Name: "linux", Hardware: "amd64"},
		EnforceTenancy: true,
	}

	var s *store.Store
	c := newContainer(func() *core.Config { return conf })
	require.NoError(t, c.Invoke(func(st *store.Store) { s = st }))

	out := new(bytes.Buffer)
	return &commandLine{store: s, out: out}, out
}

// mockPasswords makes the password prompt answer pwds in order, then nothing.
func mockPasswords(t *testing.T, pwds ...string) {
	t.Helper()
	orig := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = orig })
	readPasswordFunc = func(fd int) ([]byte, error) {
		if len(pwds) == 0 {
			return nil, nil
		}
		pwd := pwds[0]
		pwds = pwds[1:]
		return []byte(pwd), nil
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwds       []string
	wantErr    error
	wantErrStr string
}

func Test_commandLine_usage(t *testing.T) {
	cli, _ := setup(t, testutil.NewFakeAPI(t))

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "login: no args", args: []string{"login"}, wantErr: errHelp},
		{name: "login: no password", args: []string{"login", "-username", "budi"}, wantErr: errHelp},
		{name: "adduser: no school", args: []string{"adduser", "-username", "budi"}, pwds: []string{"secret"}, wantErr: errHelp},
		{name: "list: no resource", args: []string{"list"}, wantErr: errHelp},
		{name: "whoami: logged out", args: []string{"whoami"}, wantErr: errNotLoggedIn},
		{name: "list: logged out", args: []string{"list", "-resource", "student"}, wantErr: errNotLoggedIn},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			mockPasswords(t, tt.pwds...)
			err := cli.run(context.Background(), args)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func Test_commandLine_session(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodPost, "/api/v7/login",
		testutil.Fail(http.StatusUnauthorized, "invalid username or password"),
		testutil.Reply{Body: map[string]interface{}{"data": budi, "token": testutil.IssueToken(t, "budi", time.Hour)}},
	)
	fake.On(http.MethodGet, "/api/v7/current/user", testutil.Data(budi)).Protect(http.MethodGet, "/api/v7/current/user")
	fake.On(http.MethodPut, "/api/v7/update/change-password/1", testutil.Reply{Body: map[string]interface{}{"message": "password updated"}})
	fake.On(http.MethodGet, "/api/v2/list/students/3", testutil.Data([]interface{}{map[string]interface{}{"id": 31, "name": "Amir", "schoolId": 3}}))
	cli, out := setup(t, fake)

	tests := []cliTest{
		{name: "login: bad password", args: []string{"login", "-username", "Budi"}, pwds: []string{"wrong"}, wantErrStr: "auth/login: invalid username or password"},
		{name: "login", args: []string{"login", "-username", "Budi", "-school", "3"}, pwds: []string{"secret"}},
		{name: "whoami", args: []string{"whoami"}},
		{name: "list students", args: []string{"list", "-resource", "student"}},
		{name: "list other school", args: []string{"list", "-resource", "student", "-school", "5"}, wantErr: core.ErrTenantMismatch},
		{name: "list unknown", args: []string{"list", "-resource", "activity"}, wantErrStr: "\"activity\" cannot be listed by school"},
		{name: "passwd: mismatch", args: []string{"passwd"}, pwds: []string{"secret", "n3w", "new"}, wantErrStr: "auth/change password: reTypePassword must be equal to Password"},
		{name: "passwd", args: []string{"passwd"}, pwds: []string{"secret", "new", "new"}},
		{name: "logout", args: []string{"logout"}},
		{name: "whoami after logout", args: []string{"whoami"}, wantErr: errNotLoggedIn},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			mockPasswords(t, tt.pwds...)
			out.Reset()
			err := cli.run(ctx, args)
			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				require.NoError(t, err)
			}
		})
	}

	req, ok := fake.Last(http.MethodPost, "/api/v7/login")
	require.True(t, ok)
	var creds map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &creds))
	assert.Equal(t, "Budi", creds["username"], "sent as typed")
	assert.EqualValues(t, 3, creds["schoolId"])
	assert.Equal(t, "linux", creds["device"])

	req, _ = fake.Last(http.MethodPut, "/api/v7/update/change-password/1")
	var cp map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &cp))
	assert.Equal(t, "secret", cp["currentPassword"])
	assert.Equal(t, "new", cp["reTypePassword"])
	assert.Equal(t, 1, fake.Count(http.MethodPut, "/api/v7/update/change-password/1"))
	assert.Equal(t, 0, fake.Count(http.MethodGet, "/api/v2/list/students/5"))
}

func Test_commandLine_output(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodPost, "/api/v7/login", testutil.Reply{Body: map[string]interface{}{"data": budi, "token": testutil.IssueToken(t, "budi", time.Hour)}})
	fake.On(http.MethodGet, "/api/v7/current/user", testutil.Data(budi))
	fake.On(http.MethodGet, "/api/v3/list/teachers/3", testutil.Data([]interface{}{map[string]interface{}{"id": 7, "name": "Ida", "nip": "1987"}}))
	fake.On(http.MethodPost, "/api/v7/register", testutil.Data(map[string]interface{}{"id": 2, "username": "sari", "schoolId": 3}))
	cli, out := setup(t, fake)
	mockPasswords(t, "secret", "s4ri")

	require.NoError(t, cli.run(ctx, []string{"admin", "login", "-username", "budi"}))
	assert.Equal(t, "Enter password:\nlogged in as budi (school 3)\n", out.String())

	out.Reset()
	require.NoError(t, cli.run(ctx, []string{"admin", "whoami"}))
	assert.Contains(t, out.String(), "budi (admin)")
	assert.Contains(t, out.String(), "school: 3")

	out.Reset()
	require.NoError(t, cli.run(ctx, []string{"admin", "list", "-resource", "teacher"}))
	var teachers []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &teachers))
	require.Len(t, teachers, 1)
	assert.Equal(t, "Ida", teachers[0]["name"])

	out.Reset()
	require.NoError(t, cli.run(ctx, []string{"admin", "adduser", "-name", "Sari", "-username", "Sari", "-school", "3"}))
	assert.Equal(t, "Enter password:\nregistered sari (id 2)\n", out.String())
	assert.True(t, cli.store.GetState().Auth.IsAuthenticated(), "registering keeps the session")
}

func Test_newTokenStore(t *testing.T) {
	tests := []struct {
		name    string
		store   string
		wantErr bool
	}{
		{name: "memory", store: "memory"},
		{name: "file", store: "file"},
		{name: "default", store: ""},
		{name: "unknown", store: "etcd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := &core.Config{Session: core.SessionConfig{Store: tt.store, TokenFile: t.TempDir() + "/token"}}
			tokens, err := newTokenStore(conf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, tokens.Save(context.Background(), "abc"))
			got, err := tokens.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "abc", got)
		})
	}
}

func Test_commandLine_parent(t *testing.T) {
	ctx := context.Background()
	parent := map[string]interface{}{"id": 4, "name": "Rahma", "username": "IdaRahma", "schoolId": 3, "role": "parent"}
	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodPost, "/api/v7/register/parent", testutil.Data(parent))
	fake.On(http.MethodPost, "/api/v7/login/parent", testutil.Reply{Body: map[string]interface{}{"data": parent, "token": testutil.IssueToken(t, "IdaRahma", time.Hour)}})
	cli, out := setup(t, fake)
	mockPasswords(t, "secret", "secret")

	require.NoError(t, cli.run(ctx, []string{"admin", "adduser", "-name", "Rahma", "-username", "IdaRahma", "-school", "3", "-role", "parent"}))
	require.NoError(t, cli.run(ctx, []string{"admin", "login", "-username", "IdaRahma", "-parent"}))

	assert.Contains(t, out.String(), "logged in as IdaRahma (school 3)")
	assert.Equal(t, 1, fake.Count(http.MethodPost, "/api/v7/register/parent"))
	assert.Equal(t, 0, fake.Count(http.MethodPost, "/api/v7/register"))
	assert.Equal(t, 0, fake.Count(http.MethodPost, "/api/v7/login"))
	req, _ := fake.Last(http.MethodPost, "/api/v7/login/parent")
	var creds map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &creds))
	assert.Equal(t, "IdaRahma", creds["username"])
}

func Test_closeTokenStore(t *testing.T) {
	mr := miniredis.RunT(t)
	conf := &core.Config{
		Session: core.SessionConfig{Store: "redis", TokenKey: "token"},
		Redis:   core.RedisConfig{Addr: mr.Addr()},
	}
	c := newContainer(func() *core.Config { return conf })

	var tokens core.TokenStore
	require.NoError(t, c.Invoke(func(ts core.TokenStore) { tokens = ts }))
	require.NoError(t, tokens.Save(context.Background(), "abc"))

	require.NoError(t, c.Invoke(closeTokenStore))

	assert.Error(t, tokens.Save(context.Background(), "def"), "closed")
	got, err := mr.Get("token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	closeTokenStore(inmemstore.New(), testutil.NewLogger())
}
