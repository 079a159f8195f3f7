// Package topup drives the FSL topup workflow: assembling the merged
// input pair, invoking topup, and applying the estimated correction to the
// remaining volumes.
package topup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flywheel-apps/fsl-topup/internal/fsl"
)

// Fixed output basenames under the gear output directory.
const (
	OutBase           = "topup"
	OutFieldMap       = "topup-fmap"
	OutCorrectedInput = "topup-input-corrected"
	OutLog            = "topup-log.txt"
	OutDisplacement   = "topup-dfield"
	OutJacobian       = "topup-jacdet"
	OutRigidBody      = "topup-rbmat"
	CorrectedPrefix   = "topup-corrected-"
)

// Options are the topup invocation switches derived from the gear config.
type Options struct {
	ConfigFile           string // topup parameter file (--config)
	DisplacementField    bool
	JacobianDeterminants bool
	RigidBodyMatrix      bool
	Verbose              bool
	DebugLevel           int
}

// Run invokes topup on the merged input volume. It returns the output base
// path that applytopup consumes (--topup).
func Run(ctx context.Context, runner fsl.Runner, log *slog.Logger, imain, acqParams, outputDir string, opts Options) (string, error) {
	out := filepath.Join(outputDir, OutBase)

	args := fsl.Args{
		"imain":  imain,
		"datain": acqParams,
		"out":    out,
		"fout":   filepath.Join(outputDir, OutFieldMap),
		"iout":   filepath.Join(outputDir, OutCorrectedInput),
		"logout": filepath.Join(outputDir, OutLog),
		"config": opts.ConfigFile,
	}
	if opts.DisplacementField {
		args["dfout"] = out + "-dfield"
	}
	if opts.JacobianDeterminants {
		args["jacout"] = out + "-jacdet"
	}
	if opts.RigidBodyMatrix {
		args["rbmout"] = out + "-rbmat"
	}
	if opts.Verbose {
		args["verbose"] = true
	}
	if opts.DebugLevel > 0 {
		args["debug"] = opts.DebugLevel
	}

	logConfigContent(log, opts.ConfigFile)

	if err := runner.Run(ctx, "topup", fsl.BuildArgs(args)...); err != nil {
		return "", fmt.Errorf("run topup: %w", err)
	}
	return out, nil
}

func logConfigContent(log *slog.Logger, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Warn("could not read topup config", "path", path, "error", err)
		return
	}
	log.Info("using topup config settings", "path", path, "content", string(content))
}
