// Package employee contains the HTTP handlers for the Employee resource.
//
// Each exported function is a factory: it receives its dependencies once
// at route registration and returns the http.HandlerFunc that runs on
// every request.
//
//	router.HandleFunc("POST /employees", employee.New(storage, validate))
//
// Handlers never build status codes from storage errors themselves; they
// hand the error to writeError, which maps the error kind to a status.
package employee

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/aanand-mishra/employees-api/internal/storage"
	"github.com/aanand-mishra/employees-api/internal/types"
	"github.com/aanand-mishra/employees-api/internal/utils/response"
	"github.com/aanand-mishra/employees-api/internal/validation"
)

const (
	msgCreated = "Employee created successfully"
	msgUpdated = "Employee updated successfully"
	msgDeleted = "Employee deleted successfully"
)

// errBadRequest marks client errors that are not field validation
// failures: empty or malformed bodies and non-integer ids.
var errBadRequest = errors.New("bad request")

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /employees
// Returns a JSON array of every employee, [] when there are none.
//
// Error responses:
//
//	500 Internal  database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r)
		log.Info("listing employees")

		employees, err := storage.GetEmployees(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, employees)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /employees
//
// Request body (JSON):
//
//	{ "name": "JohnDoe", "date_of_birth": "1990-01-01", "age": 34, "salary": 50000 }
//
// Success response (200 OK):
//
//	{ "status": "ok", "message": "Employee created successfully", "id": 1 }
//
// Error responses:
//
//	400 Bad Request  empty body, malformed JSON, or a field failed validation
//	500 Internal     database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage, validate *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r)
		log.Info("creating an employee")

		emp, err := decodeEmployee(r, validate)
		if err != nil {
			writeError(w, log, err)
			return
		}

		lastID, err := storage.CreateEmployee(r.Context(), emp)
		if err != nil {
			writeError(w, log, err)
			return
		}

		log.Info("employee created", slog.Int64("id", lastID))
		response.WriteJSON(w, http.StatusOK, response.Created(msgCreated, lastID))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /employees/{id}
//
// Error responses:
//
//	400 Bad Request  id is not an integer
//	404 Not Found    no employee with that id
//	500 Internal     database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r)

		id, err := pathID(r)
		if err != nil {
			writeError(w, log, err)
			return
		}
		log.Info("getting an employee", slog.Int64("id", id))

		emp, err := storage.GetEmployeeByID(r.Context(), id)
		if err != nil {
			writeError(w, log, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, emp)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /employees/{id}
// Replaces all four fields. Same body and validation as New.
//
// An id with no matching row still gets 200: the UPDATE simply touches
// nothing. The miss is logged as a warning.
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage, validate *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r)

		id, err := pathID(r)
		if err != nil {
			writeError(w, log, err)
			return
		}
		log.Info("updating an employee", slog.Int64("id", id))

		emp, err := decodeEmployee(r, validate)
		if err != nil {
			writeError(w, log, err)
			return
		}

		n, err := storage.UpdateEmployeeByID(r.Context(), id, emp)
		if err != nil {
			writeError(w, log, err)
			return
		}
		if n == 0 {
			log.Warn("update matched no employee", slog.Int64("id", id))
		}

		response.WriteJSON(w, http.StatusOK, response.OK(msgUpdated))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /employees/{id}
// Reports success whether or not a row existed.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r)

		id, err := pathID(r)
		if err != nil {
			writeError(w, log, err)
			return
		}
		log.Info("deleting an employee", slog.Int64("id", id))

		n, err := storage.DeleteEmployeeByID(r.Context(), id)
		if err != nil {
			writeError(w, log, err)
			return
		}
		if n == 0 {
			log.Warn("delete matched no employee", slog.Int64("id", id))
		}

		response.WriteJSON(w, http.StatusOK, response.OK(msgDeleted))
	}
}

// decodeEmployee reads the JSON body, validates it, and converts it into
// a storage-ready record.
func decodeEmployee(r *http.Request, validate *validation.Validator) (types.Employee, error) {
	var in types.EmployeeInput

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&in)
	if errors.Is(err, io.EOF) {
		return types.Employee{}, fmt.Errorf("%w: request body is empty", errBadRequest)
	}
	if err != nil {
		return types.Employee{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return types.Employee{}, fmt.Errorf("%w: unexpected data after JSON body", errBadRequest)
	}

	if err := validate.Struct(in); err != nil {
		return types.Employee{}, err
	}

	return in.Employee()
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id: must be an integer", errBadRequest)
	}
	return id, nil
}

func requestLogger(r *http.Request) *slog.Logger {
	return slog.Default().With(slog.String("request_id", middleware.GetReqID(r.Context())))
}

// writeError maps an error kind to its status code. Only client errors
// echo detail back; everything else is logged and answered generically.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		log.Info("rejected invalid input", slog.Any("fields", verr.Fields))
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verr.Fields))

	case errors.Is(err, errBadRequest):
		log.Info("rejected request", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err.Error()))

	case errors.Is(err, storage.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(response.MsgNotFound))

	default:
		log.Error("request failed", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError,
			response.GeneralError(response.MsgInternalError))
	}
}
