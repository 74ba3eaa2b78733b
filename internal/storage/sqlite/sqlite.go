// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface.
//
// Queries go through sqlx so rows scan straight into types.Employee via
// its db:"..." tags. The blank import registers the "sqlite3" driver with
// database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/employees-api/internal/storage"
	"github.com/aanand-mishra/employees-api/internal/types"
)

const schema = `
	CREATE TABLE IF NOT EXISTS employees (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT,
		date_of_birth DATE,
		age           INTEGER,
		salary        REAL
	)
`

// The sqlite3 driver turns values in DATE columns into time.Time, which
// would reformat "1990-01-01" on the way out, so the column is read back
// as TEXT. DATE has NUMERIC affinity: ordinary date strings stay as sent,
// but number-shaped ones are converted on insert ("2006.10" reads back as
// "2006.1", "0332151919" as "332151919").
const selectColumns = `id, name, CAST(date_of_birth AS TEXT) AS date_of_birth, age, salary`

// SQLite is the concrete implementation of storage.Storage.
type SQLite struct {
	db *sqlx.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at path, creates the employees table if
// it does not already exist, and returns a ready-to-use *SQLite.
//
// The pool is capped at one connection: SQLite serialises writers anyway,
// and ":memory:" databases are per-connection, so a second connection
// would see an empty database.
func New(path string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: ping: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// CreateEmployee inserts a row and returns its auto-generated id.
func (s *SQLite) CreateEmployee(ctx context.Context, e types.Employee) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO employees (name, date_of_birth, age, salary) VALUES (?, ?, ?, ?)",
		e.Name, e.DateOfBirth, e.Age, e.Salary,
	)
	if err != nil {
		return 0, storage.NewError("CreateEmployee", 0, err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, storage.NewError("CreateEmployee", 0, fmt.Errorf("last insert id: %w", err))
	}

	return lastID, nil
}

// GetEmployeeByID fetches one row by primary key. A miss wraps
// storage.ErrNotFound; any other failure is a *storage.Error.
func (s *SQLite) GetEmployeeByID(ctx context.Context, id int64) (types.Employee, error) {
	var e types.Employee
	err := s.db.GetContext(ctx, &e,
		"SELECT "+selectColumns+" FROM employees WHERE id = ? LIMIT 1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Employee{}, fmt.Errorf("GetEmployeeByID %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Employee{}, storage.NewError("GetEmployeeByID", id, err)
	}

	return e, nil
}

// GetEmployees returns all rows with no ORDER BY; callers get whatever
// order SQLite produces.
func (s *SQLite) GetEmployees(ctx context.Context) ([]types.Employee, error) {
	employees := make([]types.Employee, 0)

	if err := s.db.SelectContext(ctx, &employees, "SELECT "+selectColumns+" FROM employees"); err != nil {
		return nil, storage.NewError("GetEmployees", 0, err)
	}

	return employees, nil
}

// UpdateEmployeeByID rewrites all four non-id columns in one statement.
// It does not check that the row exists; the rows-affected count lets
// the caller tell.
func (s *SQLite) UpdateEmployeeByID(ctx context.Context, id int64, e types.Employee) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE employees SET name = ?, date_of_birth = ?, age = ?, salary = ? WHERE id = ?",
		e.Name, e.DateOfBirth, e.Age, e.Salary, id,
	)
	if err != nil {
		return 0, storage.NewError("UpdateEmployeeByID", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, storage.NewError("UpdateEmployeeByID", id, fmt.Errorf("rows affected: %w", err))
	}

	return n, nil
}

// DeleteEmployeeByID removes a row by primary key and returns how many
// rows went away (0 or 1).
func (s *SQLite) DeleteEmployeeByID(ctx context.Context, id int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return 0, storage.NewError("DeleteEmployeeByID", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, storage.NewError("DeleteEmployeeByID", id, fmt.Errorf("rows affected: %w", err))
	}

	return n, nil
}

// Ping verifies the database file is still reachable. Used by /healthz.
func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storage.NewError("Ping", 0, err)
	}
	return nil
}

// Close closes the database handle. Calls after Close fail with a
// storage error.
func (s *SQLite) Close() error {
	return s.db.Close()
}
