package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/admin"
	"github.com/trezcool/presensi/core/attendance"
	"github.com/trezcool/presensi/core/calendar"
	"github.com/trezcool/presensi/core/course"
	"github.com/trezcool/presensi/core/news"
	"github.com/trezcool/presensi/core/school"
	"github.com/trezcool/presensi/core/student"
	"github.com/trezcool/presensi/core/teacher"
)

// Do wraps a typed call into an Op.
func Do[R any](name string, fn func(ctx context.Context, s *Store) (R, error)) Op {
	return Op{
		Name: name,
		Run: func(ctx context.Context, s *Store) (interface{}, error) {
			return fn(ctx, s)
		},
	}
}

// ListOp returns the op loading the collection stored under key for a school.
// Schools are listed regardless of schoolID.
func ListOp(key string, schoolID core.ID) (Op, error) {
	name := key + "/list"
	switch key {
	case school.Name:
		return Do(name, func(ctx context.Context, s *Store) ([]school.School, error) {
			return s.School.ListAll(ctx)
		}), nil
	case student.Name:
		return Do(name, func(ctx context.Context, s *Store) ([]student.Student, error) {
			return s.Student.ListBySchool(ctx, schoolID)
		}), nil
	case teacher.Name:
		return Do(name, func(ctx context.Context, s *Store) ([]teacher.Teacher, error) {
			return s.Teacher.ListBySchool(ctx, schoolID)
		}), nil
	case news.Name:
		return Do(name, func(ctx context.Context, s *Store) ([]news.News, error) {
			return s.News.ListBySchool(ctx, schoolID)
		}), nil
	case attendance.Name:
		return Do(name, func(ctx context.Context, s *Store) ([]attendance.Attendance, error) {
			return s.Attendance.ListBySchool(ctx, schoolID, core.Period{})
		}), nil
	case course.Name:
		return Do(name, func(ctx context.Context, s *Store) ([]course.Course, error) {
			return s.Course.ListBySchool(ctx, schoolID)
		}), nil
	case calendar.Name:
		return Do(name, func(ctx context.Context, s *Store) ([]calendar.Event, error) {
			return s.Calendar.ListBySchool(ctx, schoolID, core.Period{})
		}), nil
	}
	return Op{}, errors.Errorf("%q cannot be listed by school", key)
}

func ListStudents(schoolID core.ID) Op {
	return Do(student.Name+"/list", func(ctx context.Context, s *Store) ([]student.Student, error) {
		return s.Student.ListBySchool(ctx, schoolID)
	})
}

func ListTeachers(schoolID core.ID) Op {
	return Do(teacher.Name+"/list", func(ctx context.Context, s *Store) ([]teacher.Teacher, error) {
		return s.Teacher.ListBySchool(ctx, schoolID)
	})
}

func Login(creds admin.Credentials) Op {
	return Do(admin.Name+"/login", func(ctx context.Context, s *Store) (admin.Admin, error) {
		return s.Session.Login(ctx, creds)
	})
}

func LoginParent(creds admin.Credentials) Op {
	return Do(admin.Name+"/login-parent", func(ctx context.Context, s *Store) (admin.Admin, error) {
		return s.Session.LoginParent(ctx, creds)
	})
}

// CurrentUser restores the session from the persisted token.
func CurrentUser() Op {
	return Do(admin.Name+"/current-user", func(ctx context.Context, s *Store) (admin.Admin, error) {
		return s.Session.CurrentUser(ctx)
	})
}
