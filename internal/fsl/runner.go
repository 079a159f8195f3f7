package fsl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner executes external FSL binaries. The concrete implementation is
// ExecRunner; tests substitute a recorder.
type Runner interface {
	// Run executes name with args, streaming stdout to the log.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes name with args and returns trimmed stdout. Used for
	// tools such as fslstats whose result is read from standard output.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// CommandError reports a subprocess that exited non-zero.
type CommandError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// ExecRunner runs commands with os/exec, logging each command line before
// it starts and each stdout line as it arrives. When DryRun is set the
// command is logged but not executed.
type ExecRunner struct {
	Log    *slog.Logger
	DryRun bool
}

// NewRunner returns an ExecRunner logging to log.
func NewRunner(log *slog.Logger, dryRun bool) *ExecRunner {
	return &ExecRunner{Log: log, DryRun: dryRun}
}

func (r *ExecRunner) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	log := r.logger()
	log.Info("executing command", "cmd", name+" "+strings.Join(args, " "))

	if r.DryRun {
		log.Info("dry run, command skipped", "tool", name)
		return nil
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%s: attach stdout: %w", name, err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: start: %w", name, err)
	}

	// Stream child stdout so long-running tools (topup iterations) show
	// progress in the gear log rather than going silent.
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			log.Info(line, "tool", name)
		}
	}

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			log.Error("command failed", "tool", name, "code", exitErr.ExitCode(), "stderr", stderr.String())
			return &CommandError{Tool: name, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return fmt.Errorf("%s: %w", name, err)
	}

	log.Debug("command completed", "tool", name)
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	log := r.logger()
	log.Info("executing command", "cmd", name+" "+strings.Join(args, " "))

	if r.DryRun {
		log.Info("dry run, command skipped", "tool", name)
		return "", nil
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			log.Error("command failed", "tool", name, "code", exitErr.ExitCode(), "stderr", stderr.String())
			return "", &CommandError{Tool: name, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
