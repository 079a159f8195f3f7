package qa

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// brainOutline derives a binary brain-edge mask from image: bet2 produces a
// brain surface overlay, the original is subtracted back out, and the
// residual is thresholded at its 97th percentile and binarized. The
// returned path is an image basename the way FSL tools emit them.
func (r *Reporter) brainOutline(ctx context.Context, image, workDir string) (string, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("create outline work dir: %w", err)
	}

	com, err := r.Tools.CenterOfMass(ctx, image)
	if err != nil {
		return "", fmt.Errorf("center of mass of %s: %w", image, err)
	}

	betOut := filepath.Join(workDir, "bet")
	if err := r.Tools.BrainExtract(ctx, image, betOut, com); err != nil {
		return "", fmt.Errorf("brain extract %s: %w", image, err)
	}

	diff := betOut + "_diff"
	if err := r.Tools.Subtract(ctx, betOut+"_overlay", image, diff); err != nil {
		return "", fmt.Errorf("surface difference: %w", err)
	}

	thresh, err := r.Tools.Percentile(ctx, diff, 97)
	if err != nil {
		return "", fmt.Errorf("outline threshold: %w", err)
	}

	threshOut := betOut + "_thresh"
	if err := r.Tools.Threshold(ctx, diff, thresh, threshOut); err != nil {
		return "", fmt.Errorf("threshold surface: %w", err)
	}

	outline := betOut + "_outline"
	if err := r.Tools.Binarize(ctx, threshOut, outline); err != nil {
		return "", fmt.Errorf("binarize outline: %w", err)
	}

	// Intermediates are only noise in the work dir.
	os.Remove(threshOut + ".nii.gz")
	os.Remove(diff + ".nii.gz")

	return outline, nil
}
