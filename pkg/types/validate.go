package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrMalformedRecord = errors.New("malformed record")

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate fails when any equipment or stream record lacks a structural field.
// Every offending record is reported, not only the first.
func (m ProcessModel) Validate() error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := strings.TrimPrefix(fe.Namespace(), "ProcessModel.")
		record := ns
		if i := strings.LastIndex(ns, "."); i >= 0 {
			record = ns[:i]
		}
		msgs = append(msgs, fmt.Sprintf("%s: missing required field %q", record, fe.Field()))
	}
	return fmt.Errorf("%w: %s", ErrMalformedRecord, strings.Join(msgs, "; "))
}
