package qa

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	img "github.com/flywheel-apps/fsl-topup/internal/imaging"
)

// sliceHeight is the common panel height slices are normalized to before
// they are appended side by side.
const sliceHeight = 256

// RenderOverlay renders the three mid-plane slices (sagittal, coronal,
// axial) of the background volume with the outline mask painted red, and
// appends them horizontally into a single strip.
func RenderOverlay(backgroundPath, maskPath string) (image.Image, error) {
	background, err := img.LoadVolume(backgroundPath)
	if err != nil {
		return nil, err
	}
	mask, err := img.LoadVolume(maskPath)
	if err != nil {
		return nil, err
	}

	bx, by, bz, _ := background.Dims()
	mx, my, mz, _ := mask.Dims()
	if bx != mx || by != my || bz != mz {
		return nil, fmt.Errorf("mask %dx%dx%d does not match background %dx%dx%d", mx, my, mz, bx, by, bz)
	}

	panels := []image.Image{
		renderSlice(background, mask, planeSagittal),
		renderSlice(background, mask, planeCoronal),
		renderSlice(background, mask, planeAxial),
	}
	return appendHorizontal(panels), nil
}

type plane int

const (
	planeSagittal plane = iota // fixed x, y across, z up
	planeCoronal               // fixed y, x across, z up
	planeAxial                 // fixed z, x across, y up
)

// renderSlice windows the background slice to 8-bit gray using its own
// maximum intensity and paints mask voxels red.
func renderSlice(background, mask *img.Volume, p plane) image.Image {
	nx, ny, nz, _ := background.Dims()

	var w, h int
	var voxel func(i, j int) (float64, bool)
	switch p {
	case planeSagittal:
		x := nx / 2
		w, h = ny, nz
		voxel = func(i, j int) (float64, bool) {
			return background.At(x, i, j, 0), mask.At(x, i, j, 0) > 0
		}
	case planeCoronal:
		y := ny / 2
		w, h = nx, nz
		voxel = func(i, j int) (float64, bool) {
			return background.At(i, y, j, 0), mask.At(i, y, j, 0) > 0
		}
	default:
		z := nz / 2
		w, h = nx, ny
		voxel = func(i, j int) (float64, bool) {
			return background.At(i, j, z, 0), mask.At(i, j, z, 0) > 0
		}
	}

	maxIntensity := 0.0
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			if v, _ := voxel(i, j); v > maxIntensity {
				maxIntensity = v
			}
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			v, masked := voxel(i, j)
			// Radiological convention puts the top of the head at the top
			// of the panel, so the j axis is flipped.
			py := h - 1 - j
			if masked {
				out.SetRGBA(i, py, color.RGBA{R: 255, A: 255})
				continue
			}
			gray := windowTo8Bit(v, maxIntensity)
			out.SetRGBA(i, py, color.RGBA{R: gray, G: gray, B: gray, A: 255})
		}
	}

	return imaging.Resize(out, 0, sliceHeight, imaging.Lanczos)
}

// windowTo8Bit scales an intensity into 0..255 against the slice maximum,
// clamping negatives to zero.
func windowTo8Bit(intensity, maxIntensity float64) uint8 {
	if intensity < 0 || maxIntensity <= 0 {
		return 0
	}
	v := 255 * intensity / maxIntensity
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

func appendHorizontal(panels []image.Image) image.Image {
	width := 0
	for _, p := range panels {
		width += p.Bounds().Dx()
	}

	strip := imaging.New(width, sliceHeight, color.Black)
	x := 0
	for _, p := range panels {
		strip = imaging.Paste(strip, p, image.Pt(x, 0))
		x += p.Bounds().Dx()
	}
	return strip
}
