package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNopLogger 测试静默日志
func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()

	// 所有方法都不应该 panic
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")
	logger.Debugf("test %s", "arg")
	logger.Infof("test %s", "arg")
	logger.Warnf("test %s", "arg")
	logger.Errorf("test %s", "arg")

	_, ok := logger.WithField("key", "value").(NopLogger)
	assert.True(t, ok, "WithField should return NopLogger")
	_, ok = logger.WithFields(map[string]interface{}{"key": "value"}).(NopLogger)
	assert.True(t, ok, "WithFields should return NopLogger")
	_, ok = logger.WithError(nil).(NopLogger)
	assert.True(t, ok, "WithError should return NopLogger")
}

// mockTestingT 模拟 testing.T
type mockTestingT struct {
	logs []string
}

func (m *mockTestingT) Log(args ...interface{}) {
	m.logs = append(m.logs, args[0].(string))
}

func (m *mockTestingT) Logf(format string, args ...interface{}) {
	m.logs = append(m.logs, format)
}

// TestTestLogger 测试测试日志
func TestTestLogger(t *testing.T) {
	mock := &mockTestingT{}
	logger := NewTestLogger(mock)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	assert.Equal(t, []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]"}, mock.logs)

	mock.logs = nil
	logger.WithField("k", "v").Infof("info %s", "formatted")
	require.Len(t, mock.logs, 1)
	assert.True(t, strings.HasPrefix(mock.logs[0], "[INFO] info %s"))
}

// TestLogrusLogger 测试 logrus 日志
func TestLogrusLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	logger := NewLogrusLogger(l)

	logger.Debug("debug message")
	assert.Contains(t, buf.String(), "debug message")

	buf.Reset()
	logger.WithField("key", "value").Info("with field")
	assert.Contains(t, buf.String(), "key=value")

	buf.Reset()
	logger.WithFields(map[string]interface{}{"k1": "v1", "k2": "v2"}).Warn("with fields")
	assert.Contains(t, buf.String(), "k1=v1")
	assert.Contains(t, buf.String(), "k2=v2")

	buf.Reset()
	logger.WithError(errors.New("boom")).Error("with error")
	assert.Contains(t, buf.String(), "error=boom")
}

// TestDefaultLogger 测试默认日志
func TestDefaultLogger(t *testing.T) {
	logger := Default()
	require.NotNil(t, logger)

	nopLogger := NewNopLogger()
	SetDefault(nopLogger)
	assert.Equal(t, nopLogger, Default())

	// 全局函数都不应该 panic
	Debugf("test %s", "arg")
	Infof("test %s", "arg")
	Warnf("test %s", "arg")
	Errorf("test %s", "arg")
	assert.NotNil(t, WithField("key", "value"))
	assert.NotNil(t, WithError(nil))

	SetDefault(logger)
}

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		verbosity int
		expected  logrus.Level
		wantErr   bool
	}{
		{"default", "", 0, logrus.InfoLevel, false},
		{"configured", "warn", 0, logrus.WarnLevel, false},
		{"single v", "error", 1, logrus.DebugLevel, false},
		{"double v", "error", 2, logrus.TraceLevel, false},
		{"triple v", "", 3, logrus.TraceLevel, false},
		{"invalid", "loud", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := resolveLevel(tt.level, tt.verbosity)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestConfigure_FileJSON(t *testing.T) {
	previous := Default()
	defer SetDefault(previous)

	path := filepath.Join(t.TempDir(), "msts.log")
	logger, closer, err := Configure(Options{
		Level:  "debug",
		Format: "json",
		Output: "file",
		File:   path,
	})
	require.NoError(t, err)

	logger.WithField("subject", "admin").Infof("token issued")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "token issued", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "admin", entry["subject"])
	assert.Contains(t, entry, "timestamp")
}

func TestConfigure_Invalid(t *testing.T) {
	previous := Default()
	defer SetDefault(previous)

	_, _, err := Configure(Options{Output: "file"})
	assert.Error(t, err, "file output requires a file")

	_, _, err = Configure(Options{Output: "syslog"})
	assert.Error(t, err)

	_, _, err = Configure(Options{Format: "xml"})
	assert.Error(t, err)

	_, _, err = Configure(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, useColor(ColorAlways, &buf))
	assert.False(t, useColor(ColorNever, &buf))
	assert.False(t, useColor(ColorAuto, &buf), "buffers are never terminals")
}
