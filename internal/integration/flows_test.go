//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/fitdash/internal/countdown"
	"github.com/2beens/fitdash/internal/dashboard"
	"github.com/2beens/fitdash/internal/session"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLoginViewLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	username := gofakeit.Username()
	token := s.doLogin(ctx, t, username)

	status, body := s.doRequest(ctx, t, "GET", "/view", token, nil)
	require.Equal(t, http.StatusOK, status)
	var view session.View
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, session.View{Page: session.PageDashboard, Username: username}, view)

	status, body = s.doRequest(ctx, t, "POST", "/view/profile-menu/toggle", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"profileMenuOpen":true}`, string(body))

	status, _ = s.doRequest(ctx, t, "POST", "/view/profile-menu/close", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.doRequest(ctx, t, "POST", "/a/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = s.doRequest(ctx, t, "GET", "/view", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"page":"login","profileMenuOpen":false}`, string(body))

	status, _ = s.doRequest(ctx, t, "GET", "/timer", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestLoginEmptyUsername() {
	t := s.T()
	status, _ := s.doRequest(context.Background(), t, "POST", "/a/login", "", map[string]string{
		"username": "  ",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func (s *IntegrationTestSuite) TestDashboardData() {
	t := s.T()
	ctx := context.Background()

	status, body := s.doRequest(ctx, t, "GET", "/dashboard/exercises", "", nil)
	require.Equal(t, http.StatusOK, status)
	var exercises []dashboard.Exercise
	require.NoError(t, json.Unmarshal(body, &exercises))
	assert.Equal(t, dashboard.Exercises(), exercises)

	status, body = s.doRequest(ctx, t, "GET", "/dashboard/chart/weekly", "", nil)
	require.Equal(t, http.StatusOK, status)
	var chart dashboard.Chart
	require.NoError(t, json.Unmarshal(body, &chart))
	assert.Equal(t, dashboard.WeeklyChart(), chart)
}

func (s *IntegrationTestSuite) TestTimerCountdown() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t, gofakeit.Username())
	defer s.doRequest(ctx, t, "POST", "/a/logout", token, nil)

	readState := func(status int, body []byte) countdown.State {
		require.Equal(t, http.StatusOK, status, string(body))
		var state countdown.State
		require.NoError(t, json.Unmarshal(body, &state))
		return state
	}

	state := readState(s.doRequest(ctx, t, "GET", "/timer", token, nil))
	assert.Equal(t, "25:00", state.Display)
	assert.Equal(t, countdown.LabelStart, state.Label)

	state = readState(s.doRequest(ctx, t, "PUT", "/timer/duration", token, map[string]string{"minutes": "1"}))
	assert.Equal(t, "1:00", state.Display)
	assert.False(t, state.Running)

	state = readState(s.doRequest(ctx, t, "POST", "/timer/toggle", token, nil))
	assert.True(t, state.Running)
	assert.Equal(t, 60, state.RemainingSeconds)
	assert.Equal(t, "01:00", state.Display)

	assert.Eventually(t, func() bool {
		state := readState(s.doRequest(ctx, t, "GET", "/timer", token, nil))
		return state.RemainingSeconds < 55
	}, 2*time.Second, 50*time.Millisecond)

	status, _ := s.doRequest(ctx, t, "PUT", "/timer/duration", token, map[string]string{"minutes": "abc"})
	assert.Equal(t, http.StatusBadRequest, status)

	// pause, then start again from the full duration
	state = readState(s.doRequest(ctx, t, "POST", "/timer/toggle", token, nil))
	assert.False(t, state.Running)
	assert.Equal(t, countdown.LabelStart, state.Label)
	state = readState(s.doRequest(ctx, t, "POST", "/timer/toggle", token, nil))
	assert.True(t, state.Running)
	assert.Equal(t, 60, state.RemainingSeconds)

	// 60 ticks of 50ms each
	assert.Eventually(t, func() bool {
		state := readState(s.doRequest(ctx, t, "GET", "/timer", token, nil))
		return !state.Running && state.Display == "00:00"
	}, 10*time.Second, 100*time.Millisecond)
}
