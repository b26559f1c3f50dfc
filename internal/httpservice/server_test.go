package httpservice_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msts/internal/auth"
	"msts/internal/config"
	corelog "msts/internal/core/log"
	"msts/internal/core/metrics"
	"msts/internal/httpservice"
	"msts/internal/httpservice/modules/menu"
	"msts/internal/httpservice/modules/tokenapi"
)

type testEnv struct {
	server  *httptest.Server
	auth    *auth.Service
	service *httpservice.HTTPService
}

func newTestEnv(t *testing.T, mutate func(*httpservice.HTTPServiceConfig)) *testEnv {
	t.Helper()

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Admin.Name = "alice"
	cfg.Admin.Password = "secret"

	logger := corelog.NewTestLogger(t)
	authSvc, err := auth.NewService(cfg, auth.WithLogger(logger))
	require.NoError(t, err)

	httpCfg := httpservice.ConfigFromSettings(cfg.HTTP)
	if mutate != nil {
		mutate(httpCfg)
	}
	svc, err := httpservice.NewHTTPService(httpCfg, authSvc, logger)
	require.NoError(t, err)
	svc.RegisterModule(tokenapi.NewModule())
	svc.RegisterModule(menu.NewModule())

	ts := httptest.NewServer(svc.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{server: ts, auth: authSvc, service: svc}
}

func (e *testEnv) login(t *testing.T, username, password string) *http.Response {
	t.Helper()
	resp, err := http.PostForm(e.server.URL+"/token", url.Values{
		"username": {username},
		"password": {password},
	})
	require.NoError(t, err)
	return resp
}

func (e *testEnv) getMenu(t *testing.T, authorization string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.server.URL+"/menu", nil)
	require.NoError(t, err)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", body)
	return out
}

func TestToken_Success(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.login(t, "alice", "secret")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	body := decodeBody(t, resp)
	assert.Equal(t, "bearer", body["token_type"])
	require.NotEmpty(t, body["access_token"])

	subject, err := env.auth.ValidateToken(body["access_token"])
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestToken_WrongCredentials(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, creds := range [][2]string{{"alice", "wrong"}, {"bob", "secret"}, {"ALICE", "secret"}, {"", ""}} {
		resp := env.login(t, creds[0], creds[1])
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
		assert.Equal(t, "Incorrect username or password", decodeBody(t, resp)["detail"])
	}
}

func TestToken_BadRequests(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("missing fields", func(t *testing.T) {
		resp, err := http.PostForm(env.server.URL+"/token", url.Values{"username": {"alice"}})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.NotEmpty(t, decodeBody(t, resp)["detail"])
	})

	t.Run("wrong grant type", func(t *testing.T) {
		resp, err := http.PostForm(env.server.URL+"/token", url.Values{
			"grant_type": {"client_credentials"},
			"username":   {"alice"},
			"password":   {"secret"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("password grant type", func(t *testing.T) {
		resp, err := http.PostForm(env.server.URL+"/token", url.Values{
			"grant_type": {"password"},
			"username":   {"alice"},
			"password":   {"secret"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("json body", func(t *testing.T) {
		resp, err := http.Post(env.server.URL+"/token", "application/json",
			strings.NewReader(`{"username":"alice","password":"secret"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("get not allowed", func(t *testing.T) {
		resp, err := http.Get(env.server.URL + "/token")
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestMenu_RequiresAuth(t *testing.T) {
	env := newTestEnv(t, nil)

	expired, err := env.auth.IssueTokenTTL("alice", -time.Minute)
	require.NoError(t, err)
	foreign, err := env.auth.IssueToken("mallory")
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":         "",
		"wrong scheme":    "Basic YWxpY2U6c2VjcmV0",
		"empty token":     "Bearer ",
		"garbage":         "Bearer not-a-token",
		"expired":         "Bearer " + expired,
		"foreign subject": "Bearer " + foreign,
	} {
		t.Run(name, func(t *testing.T) {
			resp := env.getMenu(t, header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
			assert.Equal(t, "Could not validate credentials", decodeBody(t, resp)["detail"])
		})
	}
}

func TestMenu_Authenticated(t *testing.T) {
	env := newTestEnv(t, nil)

	body := decodeBody(t, env.login(t, "alice", "secret"))
	token := body["access_token"]

	for _, scheme := range []string{"Bearer", "bearer"} {
		resp := env.getMenu(t, scheme+" "+token)
		assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
		assert.Equal(t, "Not Implemented", decodeBody(t, resp)["detail"])
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := http.Get(env.server.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := http.Get(env.server.URL + "/nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", decodeBody(t, resp)["detail"])
}

func TestToken_RateLimited(t *testing.T) {
	env := newTestEnv(t, func(c *httpservice.HTTPServiceConfig) {
		c.LoginRateLimit = 1
		c.LoginBurst = 2
	})

	for i := 0; i < 2; i++ {
		resp := env.login(t, "alice", "wrong")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}

	resp := env.login(t, "alice", "secret")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.NotEmpty(t, decodeBody(t, resp)["detail"])

	// other routes are not limited
	health, err := http.Get(env.server.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, health.StatusCode)
	health.Body.Close()
}

func TestMetrics_Counters(t *testing.T) {
	env := newTestEnv(t, nil)

	env.login(t, "alice", "secret").Body.Close()
	env.login(t, "alice", "wrong").Body.Close()
	env.getMenu(t, "Bearer garbage").Body.Close()
	env.getMenu(t, "").Body.Close()

	m := env.service.Metrics()
	assert.Equal(t, int64(1), m.GetCounter(metrics.LoginAttempts, map[string]string{metrics.LabelResult: metrics.ResultSuccess}))
	assert.Equal(t, int64(1), m.GetCounter(metrics.LoginAttempts, map[string]string{metrics.LabelResult: metrics.ResultFailure}))
	assert.Equal(t, int64(2), m.GetCounter(metrics.AuthRejected, nil))
	assert.Equal(t, int64(1), m.GetCounter(metrics.HTTPRequests, map[string]string{metrics.LabelStatus: "2xx"}))
	assert.Equal(t, int64(3), m.GetCounter(metrics.HTTPRequests, map[string]string{metrics.LabelStatus: "4xx"}))
}
