// Package validation holds the field rules applied to employee writes.
//
// The four Is* predicates are the rules themselves. They never panic and
// treat anything unparseable as invalid. Struct checks go through a
// go-playground validator whose custom tags delegate to those predicates,
// so EmployeeInput carries its rules next to its fields:
//
//	Name        string      `validate:"personname"`
//	DateOfBirth string      `validate:"lenientdate"`
//	Age         json.Number `validate:"positiveint"`
//	Salary      json.Number `validate:"positivefloat"`
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator/v10"
)

// nameRe accepts ASCII letters only. Spaces, hyphens and apostrophes are
// rejected on purpose; that is the business rule as given.
var nameRe = regexp.MustCompile(`^[a-zA-Z]+$`)

// IsValidName reports whether s is a non-empty run of ASCII letters.
func IsValidName(s string) bool {
	return nameRe.MatchString(s)
}

// IsValidDate reports whether s parses as a calendar date. Parsing is
// lenient: "1990-01-01", "01/02/1990" and "January 2, 1990" all pass.
// US month/day ordering wins when a numeric date is ambiguous.
func IsValidDate(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	_, err := dateparse.ParseAny(s)
	return err == nil
}

// IsValidAge reports whether v is a base-10 integer greater than zero.
// v may be a string, a json.Number or any Go integer or float type.
// Whole numbers written with a fraction or exponent ("34.0", "3.4e1")
// count as integers; "34.5" does not.
func IsValidAge(v any) bool {
	switch n := v.(type) {
	case string:
		return positiveInt(n)
	case json.Number:
		return positiveInt(string(n))
	case float32:
		return wholePositive(float64(n))
	case float64:
		return wholePositive(n)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() > 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() > 0
	}
	return false
}

// IsValidSalary reports whether v is a finite floating-point number
// greater than zero. Accepted inputs match IsValidAge.
func IsValidSalary(v any) bool {
	switch n := v.(type) {
	case string:
		return positiveFloat(n)
	case json.Number:
		return positiveFloat(string(n))
	case float32:
		return finitePositive(float64(n))
	case float64:
		return finitePositive(n)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() > 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() > 0
	}
	return false
}

func positiveInt(s string) bool {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 0); err == nil {
		return n > 0
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && wholePositive(f)
}

func positiveFloat(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && finitePositive(f)
}

func wholePositive(f float64) bool {
	return finitePositive(f) && f == math.Trunc(f) && f < math.MaxInt64
}

// NaN compares false with everything, so it fails f > 0 on its own.
func finitePositive(f float64) bool {
	return f > 0 && !math.IsInf(f, 1)
}

// ─────────────────────────────────────────────────────────────────────────────
// Struct validation
// ─────────────────────────────────────────────────────────────────────────────

// Error is returned when one or more fields fail their rule. Fields holds
// the JSON names of the offending fields in declaration order.
type Error struct {
	Fields []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid input data: %s", strings.Join(e.Fields, ", "))
}

// Validator checks request bodies against the employee rules.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the employee tags registered. A single
// instance is safe for concurrent use and caches struct metadata.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name ("date_of_birth") rather than the
	// Go name ("DateOfBirth"), since that is what the client sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// RegisterValidation only fails on an empty tag or nil func.
	must(v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return IsValidName(fl.Field().String())
	}))
	must(v.RegisterValidation("lenientdate", func(fl validator.FieldLevel) bool {
		return IsValidDate(fl.Field().String())
	}))
	must(v.RegisterValidation("positiveint", func(fl validator.FieldLevel) bool {
		return IsValidAge(fl.Field().Interface())
	}))
	must(v.RegisterValidation("positivefloat", func(fl validator.FieldLevel) bool {
		return IsValidSalary(fl.Field().Interface())
	}))

	return &Validator{v: v}
}

// Struct validates s and returns *Error listing every failing field, or nil.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation: %w", err)
	}

	out := &Error{Fields: make([]string, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, fe.Field())
	}
	return out
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
