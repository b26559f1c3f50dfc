package tokenapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msts/internal/auth"
	"msts/internal/config"
	corelog "msts/internal/core/log"
	"msts/internal/httpservice"
)

func TestLoginFailure_LogsPeerIP(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	logger := corelog.NewLogrusLogger(l)

	cfg, err := config.Default()
	require.NoError(t, err)
	authSvc, err := auth.NewService(cfg, auth.WithLogger(logger))
	require.NoError(t, err)

	svc, err := httpservice.NewHTTPService(httpservice.ConfigFromSettings(cfg.HTTP), authSvc, logger)
	require.NoError(t, err)
	svc.RegisterModule(NewModule())

	form := url.Values{"username": {"nobody"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "192.0.2.7:51234"
	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	out := buf.String()
	assert.Contains(t, out, "login failed")
	assert.Contains(t, out, `"ip_address":"192.0.2.7"`)
	assert.NotContains(t, out, "192.0.2.7:51234")
}
