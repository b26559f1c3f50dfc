package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"msts/internal/auth"
	"msts/internal/config"
	coreerrors "msts/internal/core/errors"
	"msts/internal/version"
)

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// runCommand 执行命令并捕获输出
func runCommand(t *testing.T, stdin string, args ...string) cmdResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))

	err := root.Execute()
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// useConfigPath 将 MSTS_CONFIG_PATH 指向临时目录中的文件，测试结束后恢复
func useConfigPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "msts.toml")
	t.Setenv(config.EnvConfigPath, path)
	return path
}

func TestConfigPath_Env(t *testing.T) {
	path := useConfigPath(t)

	res := runCommand(t, "", "config", "path")
	require.NoError(t, res.err)
	assert.Equal(t, path+"\n", res.stdout)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "config path must not create the file")
}

func TestConfigPath_WorkingDirectory(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	require.NoError(t, os.Unsetenv(config.EnvConfigPath))
	dir := t.TempDir()
	testChdir(t, dir)

	res := runCommand(t, "", "config", "path")
	require.NoError(t, res.err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, config.DefaultFileName)+"\n", res.stdout)
}

func TestConfigFlag_SetsEnv(t *testing.T) {
	useConfigPath(t)
	override := filepath.Join(t.TempDir(), "other.toml")

	res := runCommand(t, "", "-c", override, "config", "path")
	require.NoError(t, res.err)
	assert.Equal(t, override+"\n", res.stdout)
	assert.Equal(t, override, os.Getenv(config.EnvConfigPath))
}

func TestConfigShow_BootstrapsAndMasks(t *testing.T) {
	path := useConfigPath(t)

	res := runCommand(t, "", "--no-color", "config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Created configuration file "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, err := config.Decode(data)
	require.NoError(t, err)

	assert.Contains(t, res.stderr, cfg.Admin.Name)
	assert.NotContains(t, res.stderr, cfg.Admin.Password.Value())
	assert.Contains(t, res.stdout, "[token_auth]")
	assert.NotContains(t, res.stdout, cfg.Admin.Password.Value())
	assert.NotContains(t, res.stdout, cfg.TokenAuth.SecretKey.Value())

	// 第二次运行读取已有文件，不再提示创建
	res = runCommand(t, "", "--no-color", "config", "show", "-o", "json")
	require.NoError(t, res.err)
	assert.NotContains(t, res.stderr, "Created configuration file")

	var shown map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &shown))
	admin, ok := shown["admin"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, cfg.Admin.Name, admin["name"])
	assert.Equal(t, cfg.Admin.Password.String(), admin["password"])
}

func TestConfigShow_Errors(t *testing.T) {
	path := useConfigPath(t)

	res := runCommand(t, "", "config", "show", "-o", "xml")
	assert.Error(t, res.err)

	require.NoError(t, os.WriteFile(path, []byte("version = \n"), 0600))
	res = runCommand(t, "", "config", "show")
	assert.Error(t, res.err)
}

func TestTokenIssue(t *testing.T) {
	path := useConfigPath(t)

	res := runCommand(t, "", "token", "issue", "--ttl", "5m")
	require.NoError(t, res.err)
	token := strings.TrimSpace(res.stdout)
	require.NotEmpty(t, token)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, err := config.Decode(data)
	require.NoError(t, err)

	svc, err := auth.NewService(cfg)
	require.NoError(t, err)
	subject, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, cfg.Admin.Name, subject)

	res = runCommand(t, "", "token", "issue", "--ttl", "-1m")
	assert.Error(t, res.err)
}

func TestHashPassword_Stdin(t *testing.T) {
	res := runCommand(t, "hunter2\n", "config", "hash-password", "--cost", "4")
	require.NoError(t, res.err)

	hash := strings.TrimSpace(res.stdout)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 4, cost)
}

func TestHashPassword_Empty(t *testing.T) {
	res := runCommand(t, "\n", "config", "hash-password")
	assert.Error(t, res.err)

	res = runCommand(t, "", "config", "hash-password")
	assert.Error(t, res.err)
}

func TestVersion(t *testing.T) {
	res := runCommand(t, "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, version.GetVersion())

	res = runCommand(t, "", "--version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, version.GetVersion())
}

func TestColorFlags_MutuallyExclusive(t *testing.T) {
	res := runCommand(t, "", "--color", "--no-color", "version")
	assert.Error(t, res.err)
}

func TestServe_InvalidConfig(t *testing.T) {
	path := useConfigPath(t)
	require.NoError(t, os.WriteFile(path, []byte("not toml ["), 0600))

	res := runCommand(t, "", "serve")
	require.Error(t, res.err)
	assert.True(t, coreerrors.IsConfigError(res.err), "got %v", res.err)

	var buf bytes.Buffer
	reportError(&buf, res.err)
	assert.Contains(t, buf.String(), "Fix "+path)
}

func TestReportError_Plain(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, assert.AnError)
	assert.Contains(t, buf.String(), assert.AnError.Error())
	assert.NotContains(t, buf.String(), "Fix ")
}

func TestConfigShow_EmptyEnvPath(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	dir := t.TempDir()
	testChdir(t, dir)

	res := runCommand(t, "", "config", "show")
	require.Error(t, res.err)
	assert.True(t, coreerrors.IsCode(res.err, coreerrors.CodeConfigIO), "got %v", res.err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	var buf bytes.Buffer
	reportError(&buf, res.err)
	assert.NotContains(t, buf.String(), "Fix ")
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
