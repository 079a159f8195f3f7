// Package imaging provides the small amount of NIfTI access the gear needs:
// dimensionality checks on the inputs and voxel reads for QA rendering.
package imaging

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/henghuang/nifti"
)

// Volume wraps a loaded NIfTI image.
type Volume struct {
	img nifti.Nifti1Image
}

// LoadVolume reads a .nii or .nii.gz file including voxel data.
func LoadVolume(path string) (*Volume, error) {
	img, err := parse(path, true)
	if err != nil {
		return nil, fmt.Errorf("load nifti %s: %w", path, err)
	}
	return &Volume{img: img}, nil
}

// Dims returns the x, y, z and t extents of the volume.
func (v *Volume) Dims() (int, int, int, int) {
	dims := v.img.GetDims()
	return dims[0], dims[1], dims[2], dims[3]
}

// At returns the voxel intensity at (x, y, z, t).
func (v *Volume) At(x, y, z, t int) float64 {
	return float64(v.img.GetAt(x, y, z, t))
}

// Is4D reports whether the image at path has more than one time point.
// Only the header is read.
func Is4D(path string) (bool, error) {
	img, err := parse(path, false)
	if err != nil {
		return false, fmt.Errorf("read nifti header %s: %w", path, err)
	}
	dims := img.GetDims()
	return dims[3] > 1, nil
}

// parse consumes the panics the nifti library emits on malformed input and
// turns them into recoverable errors.
func parse(path string, rdata bool) (img nifti.Nifti1Image, err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			err = fmt.Errorf("%v", panicErr)
		}
	}()

	img.LoadImage(path, rdata)

	return
}

// BaseName returns the file name of path without its imaging extension,
// treating .nii.gz as a single extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	base = strings.TrimSuffix(base, ".nii")
	return base
}
