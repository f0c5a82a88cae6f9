package persistence

import "github.com/dukex/betula/pkg/model"

// NewNotFound builds the error a Repository returns from Load/Delete when
// name has no stored document; callers can still errors.Is against
// model.ErrNotFound directly.
func NewNotFound(op, name string) error {
	return model.NewError(model.KindNotFound, op, "no document named "+name)
}
