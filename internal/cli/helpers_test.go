package cli_test

import (
	"bytes"
	"testing"

	"github.com/poupaenergia/poupa/internal/cli"
	"github.com/poupaenergia/poupa/internal/config"
)

// isolate points the global and project config at empty temp directories
// and resets global state afterwards.
func isolate(t *testing.T) (globalDir, projectRoot string) {
	t.Helper()
	globalDir = t.TempDir()
	projectRoot = t.TempDir()
	t.Setenv(config.EnvHome, globalDir)
	t.Setenv(config.EnvProjectDir, projectRoot)
	t.Setenv(config.EnvLogLevel, "error")
	config.ResetGlobalConfigForTest()
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
	return globalDir, projectRoot
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
