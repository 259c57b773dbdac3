//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/fitdash/internal/session"

	"github.com/stretchr/testify/require"
)

type loginResponse struct {
	Token string       `json:"token"`
	View  session.View `json:"view"`
}

func (s *IntegrationTestSuite) doRequest(
	ctx context.Context,
	t *testing.T,
	method, path, token string,
	body any,
) (int, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(session.TokenHeader, token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) doLogin(ctx context.Context, t *testing.T, username string) string {
	t.Helper()

	status, respBytes := s.doRequest(ctx, t, "POST", "/a/login", "", map[string]string{
		"username": username,
	})
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var resp loginResponse
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
