// Package cli defines the fsl-topup command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command. version is the build-time
// version string stamped into the binary.
func NewRootCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fsl-topup",
		Short: "Flywheel gear for FSL topup susceptibility correction",
		Long: `fsl-topup estimates a susceptibility-induced off-resonance field from a
pair of oppositely phase-encoded volumes using FSL topup, optionally
resamples further volumes with applytopup, and renders QA comparison
reports.`,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewVersionCommand(version))

	return cmd
}
