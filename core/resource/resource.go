package resource

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"

	"github.com/trezcool/presensi/core"
)

type (
	// Tenant exposes the school of the authenticated principal; ok is false when nobody is logged in.
	Tenant interface {
		SchoolID() (id core.ID, ok bool)
	}

	// SchoolScoped is implemented by entities belonging to one school.
	SchoolScoped interface {
		School() core.ID
	}

	// Check runs before the remote call; a failing check rejects the operation without calling the API.
	Check func() error

	// Resource is a slice bound to the remote API. Each method applies one reconciliation policy;
	// entity packages choose the method matching the operation kind and build the request.
	Resource[T Entity] struct {
		*Slice[T]
		api    core.APIClient
		tenant Tenant
	}
)

// New returns a Resource; a nil tenant disables the school guard.
func New[T Entity](name string, api core.APIClient, logger core.Logger, tenant Tenant) *Resource[T] {
	return &Resource[T]{
		Slice:  NewSlice[T](name, logger),
		api:    api,
		tenant: tenant,
	}
}

// List replaces the items with the returned collection.
func (r *Resource[T]) List(ctx context.Context, op string, req core.Request, checks ...Check) ([]T, error) {
	return Run(ctx, r.Slice, op, r.all(req, checks), Replace[T])
}

// Fetch makes the slice hold only the returned entity.
func (r *Resource[T]) Fetch(ctx context.Context, op string, req core.Request, checks ...Check) (T, error) {
	return Run(ctx, r.Slice, op, r.one(req, checks), Single[T])
}

// Create appends the first returned entity.
func (r *Resource[T]) Create(ctx context.Context, op string, req core.Request, checks ...Check) (T, error) {
	return Run(ctx, r.Slice, op, r.one(req, checks), Append[T])
}

// Modify patches the returned entity in place. An entity that is not loaded is a no-op, logged as a stale update.
func (r *Resource[T]) Modify(ctx context.Context, op string, req core.Request, checks ...Check) (T, error) {
	return Run(ctx, r.Slice, op, r.one(req, checks), func(items []T, item T) []T {
		if IndexOf(items, item.Key()) < 0 {
			r.logger.Warn(r.name+"/"+op+": stale update, entity not loaded", map[string]interface{}{"id": item.Key().String()})
			return items
		}
		return Patch(items, item)
	})
}

// Remove replaces the items with the remaining collection returned by the server.
func (r *Resource[T]) Remove(ctx context.Context, op string, req core.Request, checks ...Check) ([]T, error) {
	return Run(ctx, r.Slice, op, r.all(req, checks), Replace[T])
}

// InSchool rejects the operation when schoolID is missing or belongs to another school than the principal's.
func (r *Resource[T]) InSchool(schoolID core.ID) Check {
	return func() error {
		if err := RequireID("schoolId", schoolID)(); err != nil {
			return err
		}
		if r.tenant == nil {
			return nil
		}
		if own, ok := r.tenant.SchoolID(); ok && !own.IsZero() && own != schoolID {
			return errors.Wrapf(core.ErrTenantMismatch, "school %s", schoolID)
		}
		return nil
	}
}

func (r *Resource[T]) all(req core.Request, checks []Check) Call[[]T] {
	return func(ctx context.Context) ([]T, error) {
		if err := runChecks(checks); err != nil {
			return nil, err
		}
		env, err := r.api.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		items, err := core.DecodeData[T](env)
		if err != nil {
			return nil, err
		}
		if err := r.owned(items...); err != nil {
			return nil, err
		}
		return items, nil
	}
}

func (r *Resource[T]) one(req core.Request, checks []Check) Call[T] {
	return func(ctx context.Context) (T, error) {
		var zero T
		if err := runChecks(checks); err != nil {
			return zero, err
		}
		env, err := r.api.Do(ctx, req)
		if err != nil {
			return zero, err
		}
		item, err := core.DecodeOne[T](env)
		if err != nil {
			return zero, err
		}
		if err := r.owned(item); err != nil {
			return zero, err
		}
		return item, nil
	}
}

// owned rejects a result holding an entity of another school than the principal's,
// so nothing outside the tenant ever reaches the slice.
func (r *Resource[T]) owned(items ...T) error {
	if r.tenant == nil {
		return nil
	}
	own, ok := r.tenant.SchoolID()
	if !ok || own.IsZero() {
		return nil
	}
	for _, item := range items {
		scoped, ok := interface{}(item).(SchoolScoped)
		if !ok {
			return nil
		}
		if school := scoped.School(); !school.IsZero() && school != own {
			return errors.Wrapf(core.ErrTenantMismatch, "%s %s belongs to school %s", r.name, item.Key(), school)
		}
	}
	return nil
}

func runChecks(checks []Check) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// Validated runs the struct's `validate` tags.
func Validated(v interface{}) Check {
	return func() error { return core.ValidateStruct(v) }
}

// RequireID rejects empty ids; the client never invents them.
func RequireID(field string, id core.ID) Check {
	return func() error {
		if id.IsZero() {
			msg := field + " is a required field"
			return core.NewValidationError(errors.New(msg), core.FieldError{Field: field, Error: msg})
		}
		return nil
	}
}

// Pathf formats an API path, escaping every id.
func Pathf(format string, ids ...core.ID) string {
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, url.PathEscape(id.String()))
	}
	return fmt.Sprintf(format, args...)
}
