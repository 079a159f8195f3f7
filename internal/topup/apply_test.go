package topup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flywheel-apps/fsl-topup/internal/fsl"
	"github.com/flywheel-apps/fsl-topup/internal/fsl/fsltest"
	"github.com/flywheel-apps/fsl-topup/internal/topup"
)

func TestApply(t *testing.T) {
	rec := &fsltest.Recorder{}
	p := newTestPipeline(rec)

	targets := []topup.ApplyTarget{
		{Path: "/in/bold_4d.nii.gz", InIndex: "1"},
		{Path: "/in/dwi_rev.nii.gz", InIndex: "2"},
	}

	corrected, err := p.Apply(context.Background(), targets, "/in/acq.txt", "/out/topup", "/out")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/out/topup-corrected-bold_4d.nii.gz",
		"/out/topup-corrected-dwi_rev.nii.gz",
	}, corrected)

	assert.Equal(t, []string{
		"applytopup --datain=/in/acq.txt --imain=/in/bold_4d.nii.gz --inindex=1 --interp=spline --method=jac --out=/out/topup-corrected-bold_4d.nii.gz --topup=/out/topup",
		"applytopup --datain=/in/acq.txt --imain=/in/dwi_rev.nii.gz --inindex=2 --interp=spline --method=jac --out=/out/topup-corrected-dwi_rev.nii.gz --topup=/out/topup",
	}, rec.CommandLines())
}

func TestApply_NoTargets(t *testing.T) {
	rec := &fsltest.Recorder{}
	p := newTestPipeline(rec)

	corrected, err := p.Apply(context.Background(), nil, "acq", "/out/topup", "/out")
	require.NoError(t, err)
	assert.Empty(t, corrected)
	assert.Empty(t, rec.Calls)
}

func TestApply_Failure(t *testing.T) {
	rec := &fsltest.Recorder{Err: &fsl.CommandError{Tool: "applytopup", ExitCode: 1, Stderr: "no field"}}
	p := newTestPipeline(rec)

	_, err := p.Apply(context.Background(), []topup.ApplyTarget{{Path: "a.nii.gz", InIndex: "1"}}, "acq", "/out/topup", "/out")
	assert.Error(t, err)
}
