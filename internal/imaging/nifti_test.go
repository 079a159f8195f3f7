package imaging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flywheel-apps/fsl-topup/internal/imaging"
	"github.com/flywheel-apps/fsl-topup/internal/imaging/niftitest"
)

func TestIs4D(t *testing.T) {
	dir := t.TempDir()

	vol3d := filepath.Join(dir, "b0.nii.gz")
	require.NoError(t, niftitest.WriteFile(vol3d, 4, 4, 3, 1, nil))

	vol4d := filepath.Join(dir, "bold.nii.gz")
	require.NoError(t, niftitest.WriteFile(vol4d, 4, 4, 3, 5, nil))

	got, err := imaging.Is4D(vol3d)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = imaging.Is4D(vol4d)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestIs4D_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.nii")
	require.NoError(t, os.WriteFile(path, []byte("not a nifti file"), 0o644))

	_, err := imaging.Is4D(path)
	assert.Error(t, err)
}

func TestLoadVolume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vol.nii.gz")
	require.NoError(t, niftitest.WriteFile(path, 3, 4, 5, 1, func(x, y, z, t int) float32 {
		return float32(x + 10*y + 100*z)
	}))

	vol, err := imaging.LoadVolume(path)
	require.NoError(t, err)

	nx, ny, nz, nt := vol.Dims()
	assert.Equal(t, 3, nx)
	assert.Equal(t, 4, ny)
	assert.Equal(t, 5, nz)
	assert.Equal(t, 1, nt)

	assert.InDelta(t, 0.0, vol.At(0, 0, 0, 0), 1e-6)
	assert.InDelta(t, 212.0, vol.At(2, 1, 2, 0), 1e-6)
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/flywheel/v0/input/image_1/nodif.nii.gz", "nodif"},
		{"scan.nii", "scan"},
		{"/data/sub-01_dir-AP_epi.nii.gz", "sub-01_dir-AP_epi"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, imaging.BaseName(tt.in))
	}
}
