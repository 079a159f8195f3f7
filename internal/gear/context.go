// Package gear implements the Flywheel gear runtime surface: the
// /flywheel/v0 directory layout, config.json parsing, input resolution and
// environment seeding.
package gear

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Standard gear layout under the base directory.
const (
	DefaultBaseDir     = "/flywheel/v0"
	DefaultEnvironFile = "/tmp/gear_environ.json"

	configFile    = "config.json"
	defaultCnf    = "b02b0.cnf"
	inputDirName  = "input"
	outputDirName = "output"
	workDirName   = "work"
)

// Input keys defined by the gear manifest.
const (
	InputImage1    = "image_1"
	InputImage2    = "image_2"
	InputAcqParams = "acquisition_parameters"
	InputConfig    = "config_file"
	InputApplyTo1  = "apply_to_1"
	InputApplyTo2  = "apply_to_2"
)

type inputEntry struct {
	Location struct {
		Path string `json:"path"`
		Name string `json:"name"`
	} `json:"location"`
}

type configDocument struct {
	Config json.RawMessage       `json:"config"`
	Inputs map[string]inputEntry `json:"inputs"`
}

// Context is the gear runtime context: configuration plus resolved paths.
type Context struct {
	BaseDir string
	Config  Config
	Log     *slog.Logger

	inputs map[string]inputEntry
}

// Load reads config.json from baseDir and returns the gear context.
func Load(baseDir string, log *slog.Logger) (*Context, error) {
	raw, err := os.ReadFile(filepath.Join(baseDir, configFile))
	if err != nil {
		return nil, fmt.Errorf("read gear config: %w", err)
	}

	var doc configDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse gear config: %w", err)
	}

	cfg := DefaultConfig()
	if len(doc.Config) > 0 {
		if err := json.Unmarshal(doc.Config, &cfg); err != nil {
			return nil, fmt.Errorf("parse gear config options: %w", err)
		}
		if cfg.LogLevel == "" {
			cfg.LogLevel = DefaultConfig().LogLevel
		}
	}

	return &Context{
		BaseDir: baseDir,
		Config:  cfg,
		Log:     log,
		inputs:  doc.Inputs,
	}, nil
}

// OutputDir returns the gear output directory.
func (c *Context) OutputDir() string { return filepath.Join(c.BaseDir, outputDirName) }

// WorkDir returns the gear scratch directory.
func (c *Context) WorkDir() string { return filepath.Join(c.BaseDir, workDirName) }

// DefaultTopupConfig returns the path of the b02b0.cnf shipped with the gear.
func (c *Context) DefaultTopupConfig() string { return filepath.Join(c.BaseDir, defaultCnf) }

// EnsureDirs creates the output and work directories.
func (c *Context) EnsureDirs() error {
	for _, dir := range []string{c.OutputDir(), c.WorkDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// InputPath resolves an input key to a file path. The path recorded in
// config.json wins; otherwise input/<key>/ is scanned for its single file.
// ok is false when the input was not provided.
func (c *Context) InputPath(key string) (path string, ok bool) {
	if entry, found := c.inputs[key]; found && entry.Location.Path != "" {
		return entry.Location.Path, true
	}

	dir := filepath.Join(c.BaseDir, inputDirName, key)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.Type().IsRegular() {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}

// RequiredInput resolves an input key that must both be provided and exist
// on disk.
func (c *Context) RequiredInput(key string) (string, error) {
	path, ok := c.InputPath(key)
	if !ok {
		return "", fmt.Errorf("required input %q was not provided", key)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("required input %q: %w", key, err)
	}
	return path, nil
}

// LogConfig writes the effective configuration to the gear log.
func (c *Context) LogConfig() {
	c.Log.Info("gear configuration",
		"topup_only", c.Config.TopupOnly,
		"QA", c.Config.QA,
		"displacement_field", c.Config.DisplacementField,
		"jacobian_determinants", c.Config.JacobianDeterminants,
		"rigid_body_matrix", c.Config.RigidBodyMatrix,
		"verbose", c.Config.Verbose,
		"topup_debug_level", c.Config.TopupDebugLevel,
		"gear-log-level", c.Config.LogLevel,
		"gear-dry-run", c.Config.DryRun,
	)
	for _, key := range []string{InputImage1, InputImage2, InputAcqParams, InputConfig, InputApplyTo1, InputApplyTo2} {
		if path, ok := c.InputPath(key); ok {
			c.Log.Info("gear input", "key", key, "path", path)
		}
	}
}

// LoadEnviron applies the environment saved by the docker build (a JSON
// string map) to the current process, so FSLDIR and friends are visible to
// every subprocess without passing an explicit environment.
func LoadEnviron(path string, log *slog.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read gear environment: %w", err)
	}

	var environ map[string]string
	if err := json.Unmarshal(raw, &environ); err != nil {
		return fmt.Errorf("parse gear environment: %w", err)
	}

	log.Info("loading gear environment", "path", path, "vars", len(environ))
	for key, value := range environ {
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}
