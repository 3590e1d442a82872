package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: id=1", ErrItemNotFound), http.StatusNotFound},
		{ErrUnknownCategory, http.StatusNotFound},
		{fmt.Errorf("%w: none", ErrNoData), http.StatusNotFound},
		{ErrInvalidEnum, http.StatusBadRequest},
		{fmt.Errorf("%w: number", ErrDuplicate), http.StatusBadRequest},
		{fmt.Errorf("%w: short", ErrInsufficientItems), http.StatusBadRequest},
		{ErrAuthFailure, http.StatusUnauthorized},
		{ErrPrincipalNotFound, http.StatusUnauthorized},
		{ErrPermissionDenied, http.StatusForbidden},
		{StoreError("insert", errors.New("disk full")), http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestStoreErrorWrapsBoth(t *testing.T) {
	cause := errors.New("driver exploded")
	err := StoreError("save rating 3", cause)
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "save rating 3")
}

func TestHandleErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(err error) (int, Response) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		HandleError(c, err)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w.Code, resp
	}

	code, resp := run(fmt.Errorf("%w: id=7", ErrRatingNotFound))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, StatusFailed, resp.Status)
	assert.Contains(t, resp.Message, "id=7")

	code, resp = run(StoreError("insert", errors.New("password=hunter2")))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotContains(t, resp.Message, "hunter2")
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}
