package fsl_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flywheel-apps/fsl-topup/internal/fsl"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests rely on /bin/sh")
	}
}

// writeScript drops an executable shell script into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestExecRunner_StreamsStdout(t *testing.T) {
	skipWithoutShell(t)

	var buf bytes.Buffer
	r := fsl.NewRunner(testLogger(&buf), false)

	script := writeScript(t, t.TempDir(), "chatty", `echo "iteration 1"; echo "iteration 2"`)
	require.NoError(t, r.Run(context.Background(), script))

	log := buf.String()
	assert.Contains(t, log, "iteration 1")
	assert.Contains(t, log, "iteration 2")
	assert.Contains(t, log, "executing command")
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	skipWithoutShell(t)

	var buf bytes.Buffer
	r := fsl.NewRunner(testLogger(&buf), false)

	script := writeScript(t, t.TempDir(), "failing", `echo "bad input" >&2; exit 3`)
	err := r.Run(context.Background(), script)
	require.Error(t, err)

	var cmdErr *fsl.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Contains(t, cmdErr.Stderr, "bad input")
	assert.Contains(t, cmdErr.Error(), "exited with code 3")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	var buf bytes.Buffer
	r := fsl.NewRunner(testLogger(&buf), false)

	err := r.Run(context.Background(), filepath.Join(t.TempDir(), "no-such-tool"))
	assert.Error(t, err)
}

func TestExecRunner_DryRun(t *testing.T) {
	var buf bytes.Buffer
	r := fsl.NewRunner(testLogger(&buf), true)

	// Binary does not exist; dry run must not try to execute it.
	require.NoError(t, r.Run(context.Background(), "topup", "--imain=in"))

	out, err := r.Output(context.Background(), "fslstats", "img", "-C")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, buf.String(), "dry run")
}

func TestExecRunner_OutputTrims(t *testing.T) {
	skipWithoutShell(t)

	var buf bytes.Buffer
	r := fsl.NewRunner(testLogger(&buf), false)

	script := writeScript(t, t.TempDir(), "com", `echo "45.2 53.1 30.8"`)
	out, err := r.Output(context.Background(), script)
	require.NoError(t, err)
	assert.Equal(t, "45.2 53.1 30.8", out)
}
