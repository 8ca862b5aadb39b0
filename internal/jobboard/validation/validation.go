// Package validation checks request payloads before any store call and
// reports problems per field, using the `msg` struct tag as the
// user-facing message.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/go-playground/validator/v10"
)

// Errors maps a json field name to its message.
type Errors map[string]string

func (v Errors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return strings.Join(parts, "; ")
}

// Unwrap lets callers match validation failures with ErrInvalidInput.
func (v Errors) Unwrap() error {
	return e.ErrInvalidInput
}

var documentMIMETypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var documentExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

var imageMIMETypes = map[string]bool{"image/png": true, "image/jpeg": true}

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("document", fileRule(documentMIMETypes, documentExtensions))
		_ = v.RegisterValidation("image", fileRule(imageMIMETypes, imageExtensions))
		instance = v
	})
	return instance
}

// fileRule accepts a file name when its sibling ContentType field is one of
// mimes, or else when the name has one of exts.
func fileRule(mimes, exts map[string]bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		if name == "" {
			return false
		}
		if ct := fl.Parent().FieldByName("ContentType"); ct.IsValid() && ct.Kind() == reflect.String {
			if mimes[strings.ToLower(ct.String())] {
				return true
			}
		}
		return exts[strings.ToLower(filepath.Ext(name))]
	}
}

// Struct validates s and returns Errors, or nil when s is valid.
func Struct(s interface{}) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	out := Errors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(t, fe)
	}
	return out
}

func message(t reflect.Type, fe validator.FieldError) string {
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if msg := f.Tag.Get("msg"); msg != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}
