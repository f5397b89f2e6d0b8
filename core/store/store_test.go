package store_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/admin"
	"github.com/trezcool/presensi/core/student"
	"github.com/trezcool/presensi/core/store"
	inmemstore "github.com/trezcool/presensi/storage/token/inmem"
	"github.com/trezcool/presensi/testutil"
)

var (
	students3 = []interface{}{map[string]interface{}{"id": 31, "name": "Amir", "schoolId": 3}}
	students5 = []interface{}{map[string]interface{}{"id": 51, "name": "Sari", "schoolId": 5}}
)

func newStore(t *testing.T, fake *testutil.FakeAPI, opts store.Options) *store.Store {
	t.Helper()
	logger := testutil.NewLogger()
	sess := admin.NewSession(inmemstore.New(), core.Device{Name: "linux", Hardware: "amd64"}, logger)
	api := fake.Client(sess)
	sess.SetAPI(api)
	return store.New(api, sess, logger, opts)
}

type recorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *recorder) record(key string) {
	r.mu.Lock()
	r.keys = append(r.keys, key)
	r.mu.Unlock()
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

func TestStore_stateAndSubscribe(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodGet, "/api/v2/list/students/3", testutil.Data(students3))
	fake.On(http.MethodGet, "/api/v3/list/teachers/3", testutil.Fail(http.StatusInternalServerError, "boom"))
	s := newStore(t, fake, store.Options{})

	assert.Equal(t, []string{"auth", "school", "student", "teacher", "news", "notification", "attendance", "course", "calendar", "activity"}, store.Keys)
	initial := s.GetState()
	assert.Equal(t, admin.Anonymous, initial.Auth.Status)
	assert.Equal(t, []student.Student{}, initial.Student.Items)

	rec := new(recorder)
	unsubscribe := s.Subscribe(rec.record)

	v, err := s.Dispatch(ctx, store.ListStudents("3"))
	require.NoError(t, err)
	assert.Len(t, v, 1)

	_, err = s.Dispatch(ctx, store.Do("teacher/list", func(ctx context.Context, s *store.Store) (interface{}, error) {
		return s.Teacher.ListBySchool(ctx, "3")
	}))
	require.Error(t, err)

	st := s.GetState()
	assert.Equal(t, "Amir", st.Student.Items[0].Name)
	assert.Equal(t, "boom", st.Teacher.Error)
	assert.Empty(t, st.Student.Error, "no cross-slice effects")
	assert.Equal(t, []string{"student", "student", "teacher", "teacher"}, rec.get())

	unsubscribe()
	unsubscribe()
	s.Session.Logout(ctx)
	assert.Len(t, rec.get(), 4)
}

func TestStore_ListOp(t *testing.T) {
	_, err := store.ListOp("activity", "3")
	assert.Error(t, err)

	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodGet, "/api/v1/list/schools", testutil.Data([]interface{}{map[string]interface{}{"id": 3, "name": "SD 3"}}))
	s := newStore(t, fake, store.Options{})
	op, err := store.ListOp("school", "")
	require.NoError(t, err)

	_, err = s.Dispatch(context.Background(), op)

	require.NoError(t, err)
	assert.Equal(t, "SD 3", s.GetState().School.Items[0].Name)
}

// Two overlapping lists on one slice commit in completion order: the one resolving last wins.
func TestStore_lastWriterWins(t *testing.T) {
	ctx := context.Background()
	gate := make(chan struct{})
	slow := testutil.Data(students3)
	slow.Gate = gate

	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodGet, "/api/v2/list/students/3", slow)
	fake.On(http.MethodGet, "/api/v2/list/students/5", testutil.Data(students5))
	s := newStore(t, fake, store.Options{})

	pending := s.DispatchAsync(ctx, store.ListStudents("3"))
	require.Eventually(t, func() bool {
		return fake.Count(http.MethodGet, "/api/v2/list/students/3") == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, s.GetState().Student.Loading)

	_, err := s.Dispatch(ctx, store.ListStudents("5"))
	require.NoError(t, err)
	st := s.GetState().Student
	assert.Equal(t, core.ID("51"), st.Items[0].ID)
	assert.False(t, st.Loading, "the first resolution clears loading although 3 is still in flight")

	close(gate)
	res := <-pending
	require.NoError(t, res.Err)

	st = s.GetState().Student
	require.Len(t, st.Items, 1)
	assert.Equal(t, core.ID("31"), st.Items[0].ID)
	assert.False(t, st.Loading)
}

func TestStore_tenancy(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		enforce bool
		wantErr error
	}{
		{name: "enforced", enforce: true, wantErr: core.ErrTenantMismatch},
		{name: "disabled", enforce: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeAPI(t)
			fake.On(http.MethodPost, "/api/v7/login", testutil.Reply{Body: map[string]interface{}{
				"data":  map[string]interface{}{"id": 1, "username": "u", "schoolId": 3},
				"token": testutil.IssueToken(t, "u", time.Hour),
			}})
			fake.On(http.MethodGet, "/api/v2/list/students/5", testutil.Data(students5))
			s := newStore(t, fake, store.Options{EnforceTenancy: tt.enforce})
			_, err := s.Session.Login(ctx, admin.Credentials{Username: "u", Password: "p"})
			require.NoError(t, err)

			_, err = s.Dispatch(ctx, store.ListStudents("5"))

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Equal(t, 0, fake.Count(http.MethodGet, "/api/v2/list/students/5"))
				return
			}
			require.NoError(t, err)
			req, _ := fake.Last(http.MethodGet, "/api/v2/list/students/5")
			assert.NotEmpty(t, req.Header.Get("Authorization"))
		})
	}
}

func TestStore_Refresh(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodGet, "/api/v2/list/students/3", testutil.Data(students3))
	fake.On(http.MethodGet, "/api/v3/list/teachers/3", testutil.Data([]interface{}{map[string]interface{}{"id": 7, "name": "Ida"}}))
	fake.On(http.MethodGet, "/api/v5/read/news/school/3", testutil.Data([]interface{}{}))
	fake.On(http.MethodGet, "/api/v9/query/get-calendar/school", testutil.Fail(http.StatusServiceUnavailable, "calendar offline"))
	fake.On(http.MethodGet, "/api/v8/get-course/schoolId/3", testutil.Data([]interface{}{map[string]interface{}{"id": 1, "courseName": "IPA"}}))
	s := newStore(t, fake, store.Options{})

	err := s.Refresh(context.Background(), "3")

	require.Error(t, err)
	assert.Equal(t, "calendar/list: calendar offline", err.Error())
	st := s.GetState()
	assert.Len(t, st.Student.Items, 1)
	assert.Len(t, st.Teacher.Items, 1)
	assert.Empty(t, st.News.Items)
	assert.Len(t, st.Course.Items, 1)
	assert.Equal(t, "calendar offline", st.Calendar.Error)
	for _, loading := range []bool{st.Student.Loading, st.Teacher.Loading, st.News.Loading, st.Calendar.Loading, st.Course.Loading} {
		assert.False(t, loading)
	}
}

func TestStore_DispatchAsync_error(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	s := newStore(t, fake, store.Options{})

	res := <-s.DispatchAsync(context.Background(), store.Op{Name: "noop"})

	assert.Error(t, res.Err)
	assert.Nil(t, res.Value)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeAPI(t)
	fake.On(http.MethodGet, "/api/v2/list/students/3", testutil.Data(students3))
	s := newStore(t, fake, store.Options{})
	_, err := s.Dispatch(ctx, store.ListStudents("3"))
	require.NoError(t, err)
	rec := new(recorder)
	s.Subscribe(rec.record)

	s.Reset()

	st := s.GetState()
	assert.Empty(t, st.Student.Items)
	assert.NotNil(t, st.Student.Items)
	assert.Len(t, rec.get(), len(store.Keys)-1)
	assert.Equal(t, admin.Anonymous, st.Auth.Status)
}
