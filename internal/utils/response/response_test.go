package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteJSON(rec, http.StatusCreated, Created("Employee created successfully", 7))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok","message":"Employee created successfully","id":7}`, rec.Body.String())
}

func TestErrorEnvelopes(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusBadRequest, ValidationError([]string{"name", "age"})))
	assert.JSONEq(t, `{"status":"error","error":"Invalid input data","fields":["name","age"]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusInternalServerError, GeneralError(MsgInternalError)))
	assert.JSONEq(t, `{"status":"error","error":"Internal Server Error"}`, rec.Body.String())
}

func TestWriteJSON_EmptySliceIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusOK, []int{}))
	assert.JSONEq(t, `[]`, rec.Body.String())
}
