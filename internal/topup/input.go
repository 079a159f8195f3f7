package topup

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/flywheel-apps/fsl-topup/internal/gear"
)

// ApplyTarget is a volume queued for applytopup, paired with its 1-based
// row in the acquisition-parameters file.
type ApplyTarget struct {
	Path    string
	InIndex string
}

// Inputs are the resolved gear input paths feeding the workflow.
type Inputs struct {
	Image1    string
	Image2    string
	AcqParams string
	ApplyTo1  string // optional
	ApplyTo2  string // optional
}

// CheckInputs inspects the inputs and builds the applytopup queue: 4D
// primary images are corrected whole-series after the field estimate, and
// the optional apply_to files ride along with the phase-encode row of
// their matching primary image.
func (p *Pipeline) CheckInputs(in Inputs, params *gear.AcqParams) ([]ApplyTarget, error) {
	var targets []ApplyTarget

	for _, primary := range []struct {
		path  string
		index string
	}{
		{in.Image1, "1"},
		{in.Image2, "2"},
	} {
		is4D, err := p.Is4D(primary.path)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", primary.path, err)
		}
		if is4D {
			targets = append(targets, ApplyTarget{Path: primary.path, InIndex: primary.index})
			p.Log.Info("will run applytopup", "file", primary.path, "inindex", primary.index)
		}
	}

	if in.ApplyTo1 != "" {
		targets = append(targets, ApplyTarget{Path: in.ApplyTo1, InIndex: "1"})
		p.Log.Info("will run applytopup", "file", in.ApplyTo1, "inindex", "1")
	}
	if in.ApplyTo2 != "" {
		targets = append(targets, ApplyTarget{Path: in.ApplyTo2, InIndex: "2"})
		p.Log.Info("will run applytopup", "file", in.ApplyTo2, "inindex", "2")
	}

	for _, target := range targets {
		if err := params.CheckIndex(target.InIndex); err != nil {
			return nil, fmt.Errorf("%s: %w", target.Path, err)
		}
	}

	p.Log.Info("acquisition parameters", "content", params.Raw)
	return targets, nil
}

// GenerateInput prepares the merged two-volume image topup estimates the
// field from. A 4D primary contributes only its first volume; a 3D primary
// is copied as-is.
func (p *Pipeline) GenerateInput(ctx context.Context, in Inputs, workDir string) (string, error) {
	bases := [2]string{
		filepath.Join(workDir, "Image1"),
		filepath.Join(workDir, "Image2"),
	}

	for i, image := range [2]string{in.Image1, in.Image2} {
		is4D, err := p.Is4D(image)
		if err != nil {
			return "", fmt.Errorf("inspect %s: %w", image, err)
		}
		if is4D {
			p.Log.Info("using volume 1 of 4D image", "file", filepath.Base(image))
			if err := p.Tools.ExtractVolume(ctx, image, bases[i], 0); err != nil {
				return "", fmt.Errorf("extract first volume of %s: %w", image, err)
			}
			continue
		}
		if err := p.Tools.Copy(ctx, image, bases[i]); err != nil {
			return "", fmt.Errorf("stage %s: %w", image, err)
		}
	}

	merged := filepath.Join(workDir, "topup_vols")
	if err := p.Tools.MergeTime(ctx, merged, bases[0], bases[1]); err != nil {
		return "", fmt.Errorf("merge topup input pair: %w", err)
	}
	return merged, nil
}
