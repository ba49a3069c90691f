package main

import (
	"bytes"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekeeper/mongonote"
)

func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}

	bin := filepath.Join(t.TempDir(), "mongonote")
	build := exec.Command("go", "build", "-o", bin, ".")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("failed to build mongonote: %v\n%s", err, out)
	}
	return bin
}

// run executes the binary and returns stdout, stderr and the exit code.
func run(t *testing.T, bin string, args ...string) (string, string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}
	return stdout.String(), stderr.String(), code
}

func TestCLI(t *testing.T) {
	bin := buildBinary(t)

	t.Run("no arguments prints usage", func(t *testing.T) {
		stdout, _, code := run(t, bin)
		assert.Equal(t, exitUsage, code)
		assert.Equal(t, usageText+"\n", stdout)
	})

	t.Run("list without password", func(t *testing.T) {
		stdout, _, code := run(t, bin, "list")
		assert.Equal(t, exitUsage, code)
		assert.Equal(t, usageText+"\n", stdout)
	})

	t.Run("add without content", func(t *testing.T) {
		stdout, _, code := run(t, bin, "add", "secret")
		assert.Equal(t, exitUsage, code)
		assert.Contains(t, stdout, "Usage:")
	})

	t.Run("import without pattern", func(t *testing.T) {
		_, _, code := run(t, bin, "import", "secret")
		assert.Equal(t, exitUsage, code)
	})

	t.Run("unknown format is rejected before connecting", func(t *testing.T) {
		stdout, _, code := run(t, bin, "--format", "xml", "secret")
		assert.Equal(t, exitUsage, code)
		assert.Contains(t, stdout, "unknown format")
		assert.NotContains(t, stdout, "connected")
	})

	t.Run("version", func(t *testing.T) {
		stdout, _, code := run(t, bin, "version")
		assert.Equal(t, 0, code)
		assert.Equal(t, "mongonote version "+mongonote.Version+"\n", stdout)
	})

	unreachable := []string{"--scheme", "mongodb", "--host", "127.0.0.1:1", "--options", "", "--timeout", "500ms"}

	t.Run("password starting with a dash after the separator", func(t *testing.T) {
		stdout, stderr, code := run(t, bin, append(unreachable, "--", "-x1y")...)
		assert.Equal(t, exitFailure, code, stderr)
		assert.Empty(t, stdout)
		assert.True(t, strings.HasPrefix(stderr, "Failed to connect"), stderr)
	})

	t.Run("empty password is still an argument", func(t *testing.T) {
		stdout, stderr, code := run(t, bin, append(unreachable, "")...)
		assert.Equal(t, exitFailure, code, stderr)
		assert.NotContains(t, stdout, usageText)
	})

	t.Run("unreachable server", func(t *testing.T) {
		stdout, stderr, code := run(t, bin,
			"--scheme", "mongodb", "--host", "127.0.0.1:1", "--options", "", "--timeout", "500ms",
			"hunter2")
		assert.Equal(t, exitFailure, code)
		assert.Empty(t, stdout, "nothing is printed when the connection fails")
		assert.True(t, strings.HasPrefix(stderr, "Failed to connect"), stderr)
		assert.NotContains(t, stderr, "hunter2")
	})
}
