package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Routes(t *testing.T) {
	store := NewStore(1)
	require.NoError(t, store.Warm())

	r := mux.NewRouter()
	NewHandler(store).SetupRoutes(r.PathPrefix("/dashboard").Subrouter())

	testCases := []struct {
		path     string
		contains string
	}{
		{path: "/dashboard/exercises", contains: `"name":"Squats"`},
		{path: "/dashboard/chart/weekly", contains: `"label":"Sleep Patterns"`},
		{path: "/dashboard/progress", contains: `"progress":"85%"`},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest("GET", tc.path, nil))

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Contains(t, rr.Body.String(), tc.contains)
		})
	}
}

func TestHandler_UnknownPath(t *testing.T) {
	r := mux.NewRouter()
	NewHandler(NewStore(1)).SetupRoutes(r.PathPrefix("/dashboard").Subrouter())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/dashboard/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
