// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers, storage, and validation can all import types without
// depending on each other.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Employee is one row of the employees table.
//
// The db:"..." tags are read by sqlx when scanning rows; json:"..." tags
// shape the API output. DateOfBirth is the string the client sent; the
// service only checks that it parses and never normalises it (SQLite may
// still rewrite number-shaped values, see the sqlite package).
type Employee struct {
	ID          int64   `json:"id"            db:"id"`
	Name        string  `json:"name"          db:"name"`
	DateOfBirth string  `json:"date_of_birth" db:"date_of_birth"`
	Age         int     `json:"age"           db:"age"`
	Salary      float64 `json:"salary"        db:"salary"`
}

// EmployeeInput is the request body for create and update.
//
// Age and Salary are json.Number so that both 34 and "34" decode; the
// validators decide whether the text is a usable number. Any "id" in the
// body is ignored.
type EmployeeInput struct {
	Name        string      `json:"name"          validate:"personname"`
	DateOfBirth string      `json:"date_of_birth" validate:"lenientdate"`
	Age         json.Number `json:"age"           validate:"positiveint"`
	Salary      json.Number `json:"salary"        validate:"positivefloat"`
}

// Employee converts a validated input into a record ready for storage.
// It must only be called after validation succeeded.
func (in EmployeeInput) Employee() (Employee, error) {
	age, err := parseWhole(string(in.Age))
	if err != nil {
		return Employee{}, fmt.Errorf("age: %w", err)
	}
	salary, err := strconv.ParseFloat(string(in.Salary), 64)
	if err != nil {
		return Employee{}, fmt.Errorf("salary: %w", err)
	}

	return Employee{
		Name:        in.Name,
		DateOfBirth: in.DateOfBirth,
		Age:         age,
		Salary:      salary,
	}, nil
}

// parseWhole reads an integer that may be spelled as a float, like
// "34.0" or "3.4e1", as JSON allows.
func parseWhole(s string) (int, error) {
	if n, err := strconv.ParseInt(s, 10, 0); err == nil {
		return int(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int(f), nil
}
