package retail

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// newValidator builds the engine's input validator. The caller is expected to
// have validated already; the engine re-checks so a buggy caller cannot
// persist a malformed record.
func newValidator() *validator.Validate {
	v := validator.New()

	// Surface Money to the numeric rules (gt, gte) as a float. The exact
	// decimal is what gets persisted; the float view is only for bounds
	// checking.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if m, ok := field.Interface().(Money); ok {
			f, _ := m.Float64()
			return f
		}
		return nil
	}, Money{})

	return v
}

// check validates a params struct, folding violations into ErrValidation.
func (r *Repository) check(params any) error {
	if err := r.validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
