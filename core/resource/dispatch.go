package resource

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/presensi/core"
)

const fallbackErrorMessage = "operation failed"

type (
	// Call performs the remote part of an operation. It is invoked exactly once.
	Call[R any] func(ctx context.Context) (R, error)

	// Reconciler computes the new items from the current ones and a successful result.
	// It receives a private copy of the items and may modify it.
	Reconciler[T any, R any] func(items []T, result R) []T
)

// Run drives one operation on s:
// pending (loading, error cleared, items untouched) -> call -> fulfilled (items reconciled) or rejected (error recorded, items untouched).
//
// Operations on one slice are not serialized: when two overlap, whichever resolves last
// writes loading/error (and its reconciliation) last.
func Run[T any, R any](ctx context.Context, s *Slice[T], op string, call Call[R], reconcile Reconciler[T, R]) (R, error) {
	action := s.name + "/" + op

	s.update(func(st *Collection[T]) {
		st.Loading = true
		st.Error = ""
	})
	s.logger.Debug(action + ": pending")

	res, err := call(ctx)
	if err != nil {
		msg := core.ErrorMessage(err)
		if msg == "" {
			msg = fallbackErrorMessage
		}
		s.update(func(st *Collection[T]) {
			st.Loading = false
			st.Error = msg
		})
		if core.IsTransport(err) {
			s.logger.Error(action+": rejected", err)
		} else {
			s.logger.Warn(action+": rejected", err)
		}
		var zero R
		return zero, errors.Wrap(err, action)
	}

	s.update(func(st *Collection[T]) {
		st.Loading = false
		items := reconcile(copyItems(st.Items), res)
		if items == nil {
			items = []T{}
		}
		st.Items = items
	})
	s.logger.Debug(action + ": fulfilled")
	return res, nil
}
