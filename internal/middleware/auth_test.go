package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitdash/internal/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const testTokenHeader = "X-FITDASH-TOKEN"

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	testCases := []struct {
		name               string
		path               string
		method             string
		token              string
		expectedStatusCode int
		expectIsLogged     bool
		mockIsLogged       bool
		mockIsLoggedErr    error
	}{
		{
			name:               "OptionsAlwaysOK",
			path:               "/timer",
			method:             http.MethodOptions,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "AllowedPathWithoutToken",
			path:               "/a/login",
			method:             http.MethodPost,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "AllowedPrefixWithoutToken",
			path:               "/dashboard/exercises",
			method:             http.MethodGet,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "ProtectedPathWithoutToken",
			path:               "/timer",
			method:             http.MethodGet,
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			path:               "/timer/toggle",
			method:             http.MethodPost,
			token:              "valid-token",
			expectedStatusCode: http.StatusOK,
			expectIsLogged:     true,
			mockIsLogged:       true,
		},
		{
			name:               "ExpiredToken",
			path:               "/timer/toggle",
			method:             http.MethodPost,
			token:              "old-token",
			expectedStatusCode: http.StatusUnauthorized,
			expectIsLogged:     true,
			mockIsLogged:       false,
		},
		{
			name:               "CheckerError",
			path:               "/timer",
			method:             http.MethodGet,
			token:              "some-token",
			expectedStatusCode: http.StatusUnauthorized,
			expectIsLogged:     true,
			mockIsLoggedErr:    errors.New("redis down"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockLoginChecker := NewMockloginChecker(ctrl)
			authMiddleware := middleware.NewAuthMiddlewareHandler(testTokenHeader, mockLoginChecker)

			if tc.expectIsLogged {
				mockLoginChecker.EXPECT().
					IsLogged(gomock.Any(), tc.token).
					Return(tc.mockIsLogged, tc.mockIsLoggedErr)
			}

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set(testTokenHeader, tc.token)
			}
			rr := httptest.NewRecorder()

			authMiddleware.AuthCheck()(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			if tc.method != http.MethodOptions {
				assert.Equal(t, tc.expectedStatusCode == http.StatusOK, nextCalled)
			} else {
				assert.False(t, nextCalled)
			}
		})
	}
}
