package fsl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Tools wraps the individual FSL utilities the gear shells out to.
type Tools struct {
	Runner Runner
}

// ExtractVolume writes a single time point of a 4D image to out
// (fslroi <in> <out> <tmin> <tsize=1>).
func (t *Tools) ExtractVolume(ctx context.Context, in, out string, tmin int) error {
	return t.Runner.Run(ctx, "fslroi", in, out, strconv.Itoa(tmin), "1")
}

// Copy duplicates an image via fslmaths, which normalizes the output
// extension regardless of the input's (.nii vs .nii.gz).
func (t *Tools) Copy(ctx context.Context, in, out string) error {
	return t.Runner.Run(ctx, "fslmaths", in, out)
}

// MergeTime concatenates images along the time axis
// (fslmerge -t <out> <inputs...>).
func (t *Tools) MergeTime(ctx context.Context, out string, inputs ...string) error {
	args := append([]string{"-t", out}, inputs...)
	return t.Runner.Run(ctx, "fslmerge", args...)
}

// Subtract computes a-b into out.
func (t *Tools) Subtract(ctx context.Context, a, b, out string) error {
	return t.Runner.Run(ctx, "fslmaths", a, "-sub", b, out)
}

// Threshold zeroes voxels below thresh.
func (t *Tools) Threshold(ctx context.Context, in, thresh, out string) error {
	return t.Runner.Run(ctx, "fslmaths", in, "-thr", thresh, out)
}

// Binarize maps non-zero voxels to 1.
func (t *Tools) Binarize(ctx context.Context, in, out string) error {
	return t.Runner.Run(ctx, "fslmaths", in, "-bin", out)
}

// CenterOfMass returns the voxel-coordinate center of mass reported by
// fslstats -C, as three whitespace-separated numbers.
func (t *Tools) CenterOfMass(ctx context.Context, image string) ([]string, error) {
	out, err := t.Runner.Output(ctx, "fslstats", image, "-C")
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(out)
	if len(fields) > 0 && len(fields) != 3 {
		return nil, fmt.Errorf("fslstats -C: expected 3 coordinates, got %q", out)
	}
	return fields, nil
}

// Percentile returns the p-th intensity percentile reported by fslstats -p.
func (t *Tools) Percentile(ctx context.Context, image string, p int) (string, error) {
	out, err := t.Runner.Output(ctx, "fslstats", image, "-p", strconv.Itoa(p))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// BrainExtract runs bet2 with overlay and mask outputs enabled, seeded at
// the given center of mass when one is available.
func (t *Tools) BrainExtract(ctx context.Context, image, out string, centerOfMass []string) error {
	args := []string{image, out, "-o", "-m", "-t", "-f", "0.5", "-w", "0.4"}
	if len(centerOfMass) == 3 {
		args = append(args, "-c")
		args = append(args, centerOfMass...)
	}
	return t.Runner.Run(ctx, "bet2", args...)
}
