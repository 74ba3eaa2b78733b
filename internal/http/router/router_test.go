package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/employees-api/internal/http/metrics"
	"github.com/aanand-mishra/employees-api/internal/storage"
	"github.com/aanand-mishra/employees-api/internal/storage/sqlite"
	"github.com/aanand-mishra/employees-api/internal/types"
)

// =============================================================================
// Test Helpers
// =============================================================================

type testServer struct {
	*httptest.Server
	store *sqlite.SQLite
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)

	srv := httptest.NewServer(New(store, metrics.New()))
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return &testServer{Server: srv, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (s *testServer) list(t *testing.T) []types.Employee {
	t.Helper()
	code, body := s.do(t, http.MethodGet, "/employees", "")
	require.Equal(t, http.StatusOK, code)

	var employees []types.Employee
	require.NoError(t, json.Unmarshal(body, &employees))
	return employees
}

func (s *testServer) create(t *testing.T, body string) int64 {
	t.Helper()
	code, data := s.do(t, http.MethodPost, "/employees", body)
	require.Equal(t, http.StatusOK, code, string(data))

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))
	require.Positive(t, resp.ID)
	return resp.ID
}

// =============================================================================
// Scenarios
// =============================================================================

func TestCreateThenList(t *testing.T) {
	srv := setupServer(t)

	id := srv.create(t, `{"name":"JohnDoe","date_of_birth":"1990-01-01","age":34,"salary":50000}`)

	employees := srv.list(t)
	require.Len(t, employees, 1)
	assert.Equal(t, types.Employee{
		ID: id, Name: "JohnDoe", DateOfBirth: "1990-01-01", Age: 34, Salary: 50000,
	}, employees[0])
}

func TestCreateWithSpaceInNameIsRejected(t *testing.T) {
	srv := setupServer(t)

	code, _ := srv.do(t, http.MethodPost, "/employees",
		`{"name":"John Doe","date_of_birth":"1990-01-01","age":34,"salary":50000}`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Empty(t, srv.list(t))
}

func TestUpdateThenList(t *testing.T) {
	srv := setupServer(t)
	id := srv.create(t, `{"name":"JohnDoe","date_of_birth":"1990-01-01","age":34,"salary":50000}`)

	code, _ := srv.do(t, http.MethodPut, "/employees/"+strconv.FormatInt(id, 10),
		`{"name":"Johnny","date_of_birth":"1991-05-05","age":33,"salary":65000.75}`)
	require.Equal(t, http.StatusOK, code)

	employees := srv.list(t)
	require.Len(t, employees, 1)
	assert.Equal(t, types.Employee{
		ID: id, Name: "Johnny", DateOfBirth: "1991-05-05", Age: 33, Salary: 65000.75,
	}, employees[0])
}

func TestUpdateNonexistentIDReportsSuccess(t *testing.T) {
	srv := setupServer(t)

	code, _ := srv.do(t, http.MethodPut, "/employees/9999",
		`{"name":"JohnDoe","date_of_birth":"1990-01-01","age":34,"salary":50000}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, srv.list(t))
}

func TestDeleteThenList(t *testing.T) {
	srv := setupServer(t)
	keep := srv.create(t, `{"name":"Keep","date_of_birth":"1980-01-01","age":44,"salary":1}`)
	gone := srv.create(t, `{"name":"Gone","date_of_birth":"1980-01-01","age":44,"salary":1}`)

	code, _ := srv.do(t, http.MethodDelete, "/employees/"+strconv.FormatInt(gone, 10), "")
	require.Equal(t, http.StatusOK, code)

	employees := srv.list(t)
	require.Len(t, employees, 1)
	assert.Equal(t, keep, employees[0].ID)
}

func TestDeleteNonexistentIDReportsSuccess(t *testing.T) {
	srv := setupServer(t)

	code, _ := srv.do(t, http.MethodDelete, "/employees/9999", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestGetByIDNotFound(t *testing.T) {
	srv := setupServer(t)

	code, body := srv.do(t, http.MethodGet, "/employees/42", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"status":"error","error":"Employee not found"}`, string(body))
}

func TestStorageFailureIs500(t *testing.T) {
	srv := setupServer(t)
	require.NoError(t, srv.store.Close())

	code, body := srv.do(t, http.MethodGet, "/employees", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.JSONEq(t, `{"status":"error","error":"Internal Server Error"}`, string(body))

	code, _ = srv.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

// =============================================================================
// Ambient endpoints
// =============================================================================

func TestHealthz(t *testing.T) {
	srv := setupServer(t)

	code, body := srv.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestMetricsUseRoutePatterns(t *testing.T) {
	srv := setupServer(t)

	srv.do(t, http.MethodDelete, "/employees/1", "")
	srv.do(t, http.MethodDelete, "/employees/2", "")
	srv.do(t, http.MethodGet, "/nope", "")

	code, body := srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, code)

	text := string(body)
	assert.Contains(t, text, `employees_api_http_requests_total{code="200",route="DELETE /employees/{id}"} 2`)
	assert.Contains(t, text, `employees_api_http_requests_total{code="404",route="unmatched"} 1`)
	assert.NotContains(t, text, `route="/employees/1"`)
}

func TestPanicsAreRecovered(t *testing.T) {
	h := New(panickyStore{}, metrics.New())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type panickyStore struct {
	storage.Storage
}

func (panickyStore) GetEmployees(context.Context) ([]types.Employee, error) {
	panic("boom")
}
