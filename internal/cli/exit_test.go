package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flywheel-apps/fsl-topup/internal/cli"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, cli.ExitSuccess, cli.GetExitCode(nil))
	assert.Equal(t, cli.ExitFailure, cli.GetExitCode(errors.New("plain")))

	wrapped := cli.WrapExitError(cli.ExitCommandError, "bad config", errors.New("boom"))
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(wrapped))
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(fmt.Errorf("outer: %w", wrapped)))
}

func TestExitError_Message(t *testing.T) {
	err := cli.WrapExitError(cli.ExitFailure, "topup workflow failed", errors.New("topup exited with code 1"))
	assert.Equal(t, "topup workflow failed: topup exited with code 1", err.Error())
	assert.Equal(t, "topup exited with code 1", errors.Unwrap(err).Error())
}
