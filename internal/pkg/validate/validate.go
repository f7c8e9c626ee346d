package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// A single validator instance is shared by the whole process; register any
// custom rules in an init() before the first Struct call.
var v = validator.New()

// Struct runs the validator over s's `validate` tags and flattens the
// per-field failures into one readable error.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
