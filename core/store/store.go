// Package store aggregates the session and the entity slices into one state tree
// with a single dispatch and subscribe surface.
package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/activity"
	"github.com/trezcool/presensi/core/admin"
	"github.com/trezcool/presensi/core/attendance"
	"github.com/trezcool/presensi/core/calendar"
	"github.com/trezcool/presensi/core/course"
	"github.com/trezcool/presensi/core/news"
	"github.com/trezcool/presensi/core/notification"
	"github.com/trezcool/presensi/core/resource"
	"github.com/trezcool/presensi/core/school"
	"github.com/trezcool/presensi/core/student"
	"github.com/trezcool/presensi/core/teacher"
)

// Keys of the state tree, in order.
var Keys = []string{
	admin.Name, school.Name, student.Name, teacher.Name, news.Name,
	notification.Name, attendance.Name, course.Name, calendar.Name, activity.Name,
}

type (
	// State is a snapshot of the whole tree.
	State struct {
		Auth         admin.State                                  `json:"auth"`
		School       resource.Collection[school.School]             `json:"school"`
		Student      resource.Collection[student.Student]           `json:"student"`
		Teacher      resource.Collection[teacher.Teacher]           `json:"teacher"`
		News         resource.Collection[news.News]                 `json:"news"`
		Notification resource.Collection[notification.Notification] `json:"notification"`
		Attendance   resource.Collection[attendance.Attendance]     `json:"attendance"`
		Course       resource.Collection[course.Course]             `json:"course"`
		Calendar     resource.Collection[calendar.Event]            `json:"calendar"`
		Activity     resource.Collection[activity.Activity]         `json:"activity"`
	}

	Options struct {
		// EnforceTenancy rejects school-scoped listings and additions for another school than the logged in Admin's.
		EnforceTenancy bool
	}

	// Op is one operation; it must only touch one slice of the Store.
	Op struct {
		Name string
		Run  func(ctx context.Context, s *Store) (interface{}, error)
	}

	// Result is what an asynchronous dispatch resolves to.
	Result struct {
		Value interface{}
		Err   error
	}

	Store struct {
		Session      *admin.Session
		School       *school.Slice
		Student      *student.Slice
		Teacher      *teacher.Slice
		News         *news.Slice
		Notification *notification.Slice
		Attendance   *attendance.Slice
		Course       *course.Slice
		Calendar     *calendar.Slice
		Activity     *activity.Slice

		logger core.Logger

		mu     sync.RWMutex
		subs   map[int]func(key string)
		nextID int
	}
)

func New(api core.APIClient, session *admin.Session, logger core.Logger, opts Options) *Store {
	var tenant resource.Tenant
	if opts.EnforceTenancy {
		tenant = session
	}

	s := &Store{
		Session:      session,
		School:       school.NewSlice(api, logger),
		Student:      student.NewSlice(api, logger, tenant),
		Teacher:      teacher.NewSlice(api, logger, tenant),
		News:         news.NewSlice(api, logger, tenant),
		Notification: notification.NewSlice(api, logger, tenant),
		Attendance:   attendance.NewSlice(api, logger, tenant),
		Course:       course.NewSlice(api, logger, tenant),
		Calendar:     calendar.NewSlice(api, logger, tenant),
		Activity:     activity.NewSlice(api, logger),
		logger:       logger,
		subs:         make(map[int]func(string)),
	}

	session.OnChange(s.notify)
	s.School.OnChange(s.notify)
	s.Student.OnChange(s.notify)
	s.Teacher.OnChange(s.notify)
	s.News.OnChange(s.notify)
	s.Notification.OnChange(s.notify)
	s.Attendance.OnChange(s.notify)
	s.Course.OnChange(s.notify)
	s.Calendar.OnChange(s.notify)
	s.Activity.OnChange(s.notify)
	return s
}

// GetState returns a snapshot of every key. Slices are read one after the other:
// the snapshot is consistent per key, not across keys.
func (s *Store) GetState() State {
	return State{
		Auth:         s.Session.Snapshot(),
		School:       s.School.Snapshot(),
		Student:      s.Student.Snapshot(),
		Teacher:      s.Teacher.Snapshot(),
		News:         s.News.Snapshot(),
		Notification: s.Notification.Snapshot(),
		Attendance:   s.Attendance.Snapshot(),
		Course:       s.Course.Snapshot(),
		Calendar:     s.Calendar.Snapshot(),
		Activity:     s.Activity.Snapshot(),
	}
}

// Reset empties every entity slice. The session is left as is.
func (s *Store) Reset() {
	s.School.Reset()
	s.Student.Reset()
	s.Teacher.Reset()
	s.News.Reset()
	s.Notification.Reset()
	s.Attendance.Reset()
	s.Course.Reset()
	s.Calendar.Reset()
	s.Activity.Reset()
}

// Subscribe registers fn to be called with the key of every state transition.
// fn runs on the goroutine performing the transition and must not block.
func (s *Store) Subscribe(fn func(key string)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(key string) {
	s.mu.RLock()
	subs := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(key)
	}
}

// Dispatch runs op and returns its unwrapped result. The slice op touches records the failure either way.
func (s *Store) Dispatch(ctx context.Context, op Op) (interface{}, error) {
	if op.Run == nil {
		return nil, errors.Errorf("dispatch %q: nothing to run", op.Name)
	}
	s.logger.Debug("dispatch " + op.Name)
	return op.Run(ctx, s)
}

// DispatchAsync runs op in its own goroutine. Operations are neither queued nor serialized:
// overlapping ones on the same slice commit in completion order.
func (s *Store) DispatchAsync(ctx context.Context, op Op) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		v, err := s.Dispatch(ctx, op)
		out <- Result{Value: v, Err: err}
	}()
	return out
}

// Refresh loads the dashboard of a school concurrently. Each load only touches its own slice;
// the first error is returned once all loads are done.
func (s *Store) Refresh(ctx context.Context, schoolID core.ID) error {
	var g errgroup.Group
	g.Go(func() error {
		_, err := s.Student.ListBySchool(ctx, schoolID)
		return err
	})
	g.Go(func() error {
		_, err := s.Teacher.ListBySchool(ctx, schoolID)
		return err
	})
	g.Go(func() error {
		_, err := s.News.ListBySchool(ctx, schoolID)
		return err
	})
	g.Go(func() error {
		_, err := s.Calendar.ListBySchool(ctx, schoolID, core.Period{})
		return err
	})
	g.Go(func() error {
		_, err := s.Course.ListBySchool(ctx, schoolID)
		return err
	})
	return g.Wait()
}
