package gear

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config holds the gear configuration options from the "config" block of
// config.json. Field names follow the manifest schema.
type Config struct {
	TopupOnly            bool   `json:"topup_only"`
	QA                   bool   `json:"QA"`
	DisplacementField    bool   `json:"displacement_field"`
	JacobianDeterminants bool   `json:"jacobian_determinants"`
	RigidBodyMatrix      bool   `json:"rigid_body_matrix"`
	Verbose              bool   `json:"verbose"`
	TopupDebugLevel      int    `json:"topup_debug_level"`
	LogLevel             string `json:"gear-log-level"`
	DryRun               bool   `json:"gear-dry-run"`
}

// DefaultConfig returns the configuration used when config.json omits a key.
func DefaultConfig() Config {
	return Config{LogLevel: "INFO"}
}

// SlogLevel maps the gear-log-level string onto a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(c.LogLevel)) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "WARNING", "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown gear-log-level %q", c.LogLevel)
}
