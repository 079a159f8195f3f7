package gear_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flywheel-apps/fsl-topup/internal/gear"
)

func writeAcqParams(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "acq_params.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAcqParams(t *testing.T) {
	path := writeAcqParams(t, "0 1 0 0.05\n0 -1 0 0.05\n")

	params, err := gear.LoadAcqParams(path)
	require.NoError(t, err)
	require.Len(t, params.Rows, 2)
	assert.Equal(t, [4]float64{0, 1, 0, 0.05}, params.Rows[0])
	assert.Equal(t, [4]float64{0, -1, 0, 0.05}, params.Rows[1])
	assert.Contains(t, params.Raw, "0 1 0 0.05")
}

func TestLoadAcqParams_BlankLinesAndSpacing(t *testing.T) {
	path := writeAcqParams(t, "\n0  1  0  0.0665\n\n0 -1 0 0.0665\n\n")

	params, err := gear.LoadAcqParams(path)
	require.NoError(t, err)
	assert.Len(t, params.Rows, 2)
}

func TestLoadAcqParams_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"single row", "0 1 0 0.05\n"},
		{"short row", "0 1 0 0.05\n0 -1 0\n"},
		{"long row", "0 1 0 0.05\n0 -1 0 0.05 7\n"},
		{"not a number", "0 1 0 0.05\n0 -1 0 fast\n"},
		{"empty file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gear.LoadAcqParams(writeAcqParams(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadAcqParams_MissingFile(t *testing.T) {
	_, err := gear.LoadAcqParams(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestCheckIndex(t *testing.T) {
	params := &gear.AcqParams{Rows: [][4]float64{{0, 1, 0, 0.05}, {0, -1, 0, 0.05}}}

	assert.NoError(t, params.CheckIndex("1"))
	assert.NoError(t, params.CheckIndex("2"))
	assert.Error(t, params.CheckIndex("0"))
	assert.Error(t, params.CheckIndex("3"))
	assert.Error(t, params.CheckIndex("two"))
}
