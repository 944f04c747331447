package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeConflict, http.StatusConflict},
		{CodeUnavailable, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("book %s is not in the library", "b1")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrConflict))
	assert.Equal(t, "book b1 is not in the library", err.Error())
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := New("disk full")
	err := Wrap(cause, CodeInternal, "save library")

	assert.Equal(t, "save library: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeConflict, CodeOf(Conflict("already exists")))
	assert.Equal(t, CodeValidation, CodeOf(fmt.Errorf("outer: %w", Validation("bad rating"))))
	assert.Equal(t, CodeInternal, CodeOf(New("plain")))
}

func TestWithDetailsAndCause_Copy(t *testing.T) {
	base := Validation("invalid request")
	detailed := base.WithDetails(map[string]string{"rating": "must be 1-5"})
	caused := detailed.WithCause(New("rule"))

	assert.Nil(t, base.Details, "original is not modified")
	assert.Equal(t, detailed.Details, caused.Details)
	assert.Equal(t, "invalid request: rule", caused.Error())
	assert.Equal(t, CodeValidation, caused.Code)
}
