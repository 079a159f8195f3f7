// Package qa renders the topup before/after comparison reports: a brain
// outline is extracted from each image with FSL, then painted over the
// other image's mid-plane slices and assembled into a single PNG.
package qa

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flywheel-apps/fsl-topup/internal/fsl"
	"github.com/flywheel-apps/fsl-topup/internal/imaging"
)

// Reporter generates QA comparison reports.
type Reporter struct {
	Tools *fsl.Tools
	Log   *slog.Logger
}

// NewReporter returns a Reporter shelling out through runner.
func NewReporter(runner fsl.Runner, log *slog.Logger) *Reporter {
	return &Reporter{Tools: &fsl.Tools{Runner: runner}, Log: log}
}

// Generate writes <original-base>_QA_report.png into outputDir: the
// corrected outline in red over the original on top, the original outline
// in red over the corrected below.
func (r *Reporter) Generate(ctx context.Context, original, corrected, workDir, outputDir string) (string, error) {
	r.Log.Info("rendering QA overlay", "background", original, "outline", corrected)
	top, err := r.outlineOverlay(ctx, original, corrected, filepath.Join(workDir, "outline_work_corrected"))
	if err != nil {
		return "", err
	}

	r.Log.Info("rendering QA overlay", "background", corrected, "outline", original)
	bottom, err := r.outlineOverlay(ctx, corrected, original, filepath.Join(workDir, "outline_work_original"))
	if err != nil {
		return "", err
	}

	report := Montage(
		[]image.Image{top, bottom},
		[]string{"topup (red) over original", "original (red) over topup"},
	)

	out := filepath.Join(outputDir, imaging.BaseName(original)+"_QA_report.png")
	if err := writePNG(out, report); err != nil {
		return "", fmt.Errorf("write QA report: %w", err)
	}
	return out, nil
}

// outlineOverlay extracts the brain outline from outlineSrc and renders it
// over background.
func (r *Reporter) outlineOverlay(ctx context.Context, background, outlineSrc, workDir string) (image.Image, error) {
	outline, err := r.brainOutline(ctx, outlineSrc, workDir)
	if err != nil {
		return nil, err
	}
	return RenderOverlay(background, outlinePath(outline))
}

// outlinePath resolves the image file fslmaths actually wrote for an FSL
// basename. NIFTI_GZ output is the gear default; plain NIFTI is handled for
// completeness.
func outlinePath(base string) string {
	for _, ext := range []string{".nii.gz", ".nii"} {
		if _, err := os.Stat(base + ext); err == nil {
			return base + ext
		}
	}
	return base
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
