package topup

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/flywheel-apps/fsl-topup/internal/fsl"
)

// Apply resamples each queued volume with the estimated field. Output files
// take the original basename with the topup-corrected- prefix. The jac
// resampling method with spline interpolation matches topup's recommended
// settings for non-interleaved input.
func (p *Pipeline) Apply(ctx context.Context, targets []ApplyTarget, acqParams, topupOut, outputDir string) ([]string, error) {
	var corrected []string

	for _, target := range targets {
		out := filepath.Join(outputDir, CorrectedPrefix+filepath.Base(target.Path))

		args := fsl.BuildArgs(fsl.Args{
			"imain":   target.Path,
			"datain":  acqParams,
			"inindex": target.InIndex,
			"topup":   topupOut,
			"method":  "jac",
			"interp":  "spline",
			"out":     out,
		})
		if err := p.Runner.Run(ctx, "applytopup", args...); err != nil {
			return nil, fmt.Errorf("applytopup %s: %w", target.Path, err)
		}
		corrected = append(corrected, out)
	}

	return corrected, nil
}
