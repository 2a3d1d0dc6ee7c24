package tokengate

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DefaultErrorHandler(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "missing token",
			err:        ErrTokenMissing,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			err:        &invalidError{details: errors.New("signature is invalid")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "anything else",
			err:        errors.New("extractor blew up"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			DefaultErrorHandler(recorder, httptest.NewRequest(http.MethodGet, "/", nil), testCase.err)

			assert.Equal(t, testCase.wantStatus, recorder.Code)
			assert.Empty(t, recorder.Body.String())
		})
	}
}

func Test_InvalidError(t *testing.T) {
	underlying := errors.New("signature is invalid")
	err := &invalidError{details: underlying}

	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.ErrorIs(t, err, underlying)
	assert.EqualError(t, err, "token invalid: signature is invalid")
}

func Test_RejectionError(t *testing.T) {
	err := &RejectionError{Status: http.StatusForbidden, Body: []byte("no entry")}
	assert.EqualError(t, err, "request rejected with status 403")

	recorder := httptest.NewRecorder()
	err.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "no entry", recorder.Body.String())
}
