package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flywheel-apps/fsl-topup/internal/cli"
)

func TestRootCommand_Help(t *testing.T) {
	var out bytes.Buffer
	cmd := cli.NewRootCommand("test")
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "run")
	assert.Contains(t, out.String(), "version")
	assert.Contains(t, out.String(), "topup")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := cli.NewRootCommand("1.2.3")
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "fsl-topup 1.2.3\n", out.String())
}
