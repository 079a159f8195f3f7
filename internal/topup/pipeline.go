package topup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flywheel-apps/fsl-topup/internal/fsl"
	"github.com/flywheel-apps/fsl-topup/internal/gear"
	"github.com/flywheel-apps/fsl-topup/internal/imaging"
)

// QAReporter renders a comparison report for an original/corrected pair and
// returns the written report path.
type QAReporter interface {
	Generate(ctx context.Context, original, corrected, workDir, outputDir string) (string, error)
}

// Pipeline wires the gear context to the FSL tooling and executes the
// whole workflow.
type Pipeline struct {
	Gear     *gear.Context
	Runner   fsl.Runner
	Tools    *fsl.Tools
	Reporter QAReporter
	Is4D     func(path string) (bool, error)
	Log      *slog.Logger
}

// New builds the production pipeline for a loaded gear context.
func New(g *gear.Context, runner fsl.Runner, reporter QAReporter) *Pipeline {
	return &Pipeline{
		Gear:     g,
		Runner:   runner,
		Tools:    &fsl.Tools{Runner: runner},
		Reporter: reporter,
		Is4D:     imaging.Is4D,
		Log:      g.Log,
	}
}

// Execute runs the gear end to end: input checks, input generation, topup,
// optional applytopup, optional QA reports, and the provenance copy of the
// default topup config.
func (p *Pipeline) Execute(ctx context.Context) error {
	g := p.Gear

	if err := g.EnsureDirs(); err != nil {
		return err
	}

	in, err := p.resolveInputs()
	if err != nil {
		return err
	}

	params, err := gear.LoadAcqParams(in.AcqParams)
	if err != nil {
		return err
	}

	p.Log.Info("checking inputs")
	targets, err := p.CheckInputs(in, params)
	if err != nil {
		return fmt.Errorf("input validation: %w", err)
	}

	configFile, userConfig := g.InputPath(gear.InputConfig)
	if !userConfig {
		configFile = g.DefaultTopupConfig()
		p.Log.Info("using default topup config values", "path", configFile)
	} else {
		p.Log.Info("using topup config settings from input", "path", configFile)
	}

	p.Log.Info("generating topup input")
	merged, err := p.GenerateInput(ctx, in, g.WorkDir())
	if err != nil {
		return fmt.Errorf("generate topup input: %w", err)
	}

	p.Log.Info("running topup")
	topupOut, err := Run(ctx, p.Runner, p.Log, merged, in.AcqParams, g.OutputDir(), Options{
		ConfigFile:           configFile,
		DisplacementField:    g.Config.DisplacementField,
		JacobianDeterminants: g.Config.JacobianDeterminants,
		RigidBodyMatrix:      g.Config.RigidBodyMatrix,
		Verbose:              g.Config.Verbose,
		DebugLevel:           g.Config.TopupDebugLevel,
	})
	if err != nil {
		return err
	}

	if !userConfig {
		if err := p.saveConfigProvenance(configFile); err != nil {
			p.Log.Warn("could not save topup config for provenance", "error", err)
		}
	}

	if g.Config.TopupOnly {
		p.Log.Info("topup_only set, skipping applytopup")
		return nil
	}

	p.Log.Info("applying topup correction")
	corrected, err := p.Apply(ctx, targets, in.AcqParams, topupOut, g.OutputDir())
	if err != nil {
		return err
	}

	if !g.Config.QA {
		return nil
	}
	if g.Config.DryRun {
		p.Log.Info("dry run, skipping QA report rendering")
		return nil
	}

	p.Log.Info("running topup QA")
	for i, target := range targets {
		report, err := p.Reporter.Generate(ctx, target.Path, corrected[i], g.WorkDir(), g.OutputDir())
		if err != nil {
			return fmt.Errorf("QA report for %s: %w", target.Path, err)
		}
		p.Log.Info("QA report written", "path", report)
	}

	return nil
}

func (p *Pipeline) resolveInputs() (Inputs, error) {
	g := p.Gear
	var in Inputs
	var err error

	if in.Image1, err = g.RequiredInput(gear.InputImage1); err != nil {
		return in, err
	}
	if in.Image2, err = g.RequiredInput(gear.InputImage2); err != nil {
		return in, err
	}
	if in.AcqParams, err = g.RequiredInput(gear.InputAcqParams); err != nil {
		return in, err
	}
	in.ApplyTo1, _ = g.InputPath(gear.InputApplyTo1)
	in.ApplyTo2, _ = g.InputPath(gear.InputApplyTo2)
	return in, nil
}

// saveConfigProvenance copies the default topup config into the output
// directory so a run without a user-supplied config still records the
// parameters it used.
func (p *Pipeline) saveConfigProvenance(configFile string) error {
	src, err := os.Open(configFile)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(p.Gear.OutputDir(), "config_file.txt"))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
