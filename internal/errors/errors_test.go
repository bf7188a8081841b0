package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("load shelf: %w", NotFound("book not on shelf"))

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))
}

func TestError_CauseIsKept(t *testing.T) {
	err := Upstream(io.ErrUnexpectedEOF, "book metadata service unavailable")

	assert.True(t, Is(err, ErrUpstream))
	assert.True(t, Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, "book metadata service unavailable: unexpected EOF", err.Error())
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus())
}

func TestError_WithDetailsCopies(t *testing.T) {
	base := Validation("invalid body")
	detailed := base.WithDetails(map[string]string{"rating": "max"})

	assert.Nil(t, base.Details)
	assert.Equal(t, map[string]string{"rating": "max"}, detailed.Details)
	assert.Equal(t, CodeValidation, detailed.Code)
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeNotFound:      http.StatusNotFound,
		CodeAlreadyExists: http.StatusConflict,
		CodeConflict:      http.StatusConflict,
		CodeUnauthorized:  http.StatusUnauthorized,
		CodeForbidden:     http.StatusForbidden,
		CodeValidation:    http.StatusBadRequest,
		CodeRateLimited:   http.StatusTooManyRequests,
		CodeUpstream:      http.StatusBadGateway,
		CodeInternal:      http.StatusInternalServerError,
		Code("BOGUS"):     http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, code.HTTPStatus(), code)
	}
}
