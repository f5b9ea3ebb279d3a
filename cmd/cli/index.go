package cli

import "github.com/spf13/cobra"

// RegisterRoutes attaches every command group defined in the cli package to
// the provided root command, so they can be invoked like
// `governedchain dao propose ...`.
func RegisterRoutes(root *cobra.Command) {
	root.AddCommand(
		DAOCmd,
		WorkflowCmd,
		TreasuryCmd,
		GroupCmd,
		ViewCmd,
	)
}
