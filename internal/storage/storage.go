// Package storage defines the Storage interface, the contract any
// database backend must satisfy to serve the employee handlers, and the
// error values those backends return.
//
// Handlers depend only on this interface, so tests can hand them a stub
// and the SQLite backend can be swapped without touching the HTTP layer.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/employees-api/internal/types"
)

// Storage is the database contract.
type Storage interface {
	// CreateEmployee inserts a new row and returns the id the database
	// assigned to it.
	CreateEmployee(ctx context.Context, e types.Employee) (int64, error)

	// GetEmployeeByID returns ErrNotFound when no row has that id.
	GetEmployeeByID(ctx context.Context, id int64) (types.Employee, error)

	// GetEmployees returns every row in storage order. The slice is
	// empty, never nil, when the table is empty.
	GetEmployees(ctx context.Context) ([]types.Employee, error)

	// UpdateEmployeeByID overwrites all non-id fields of the row and
	// returns the number of rows affected (0 when id does not exist).
	UpdateEmployeeByID(ctx context.Context, id int64, e types.Employee) (int64, error)

	// DeleteEmployeeByID removes the row and returns the number of rows
	// affected (0 when id does not exist).
	DeleteEmployeeByID(ctx context.Context, id int64) (int64, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying database handle.
	Close() error
}

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("employee not found")

// Error wraps a failure from the persistence layer with the operation
// that produced it.
type Error struct {
	Op  string // e.g. "CreateEmployee"
	ID  int64  // row id, 0 when not applicable
	Err error
}

func (e *Error) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new *Error.
func NewError(op string, id int64, err error) *Error {
	return &Error{Op: op, ID: id, Err: err}
}
