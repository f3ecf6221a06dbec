package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/a11ygrade-cli/internal/observability"
	"github.com/xkilldash9x/a11ygrade-cli/internal/rules"
)

// newRulesCmd creates the `rules` command group.
func newRulesCmd() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and update the accessibility rule set",
	}
	rulesCmd.AddCommand(newRulesCheckCmd())
	rulesCmd.AddCommand(newRulesChecklistCmd())
	return rulesCmd
}

// newRulesCheckCmd probes the upstream standards bodies for rule changes.
func newRulesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Checks upstream standards for newer accessibility rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			updater := rules.NewUpdater(cfg.Rules, observability.GetLogger())
			rpt := updater.CheckForUpdates(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Bundled rule set targets WCAG %s\n\n", rpt.WCAGVersion)
			for _, status := range rpt.Statuses {
				marker := "!!"
				if status.Current {
					marker = "ok"
				}
				fmt.Fprintf(out, "  [%s] %-10s %s\n", marker, status.Source.Name, status.Detail)
			}

			fmt.Fprintln(out, "\nUpcoming changes to monitor:")
			for _, change := range rpt.UpcomingChanges {
				fmt.Fprintf(out, "  - %s\n", change)
			}
			return nil
		},
	}
}

// newRulesChecklistCmd prints the institutional compliance checklist.
func newRulesChecklistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checklist",
		Short: "Prints the institutional compliance checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checklist := rules.ComplianceChecklist()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Mandatory:")
			for _, item := range checklist.Mandatory {
				fmt.Fprintf(out, "  [ ] %s\n", item)
			}
			fmt.Fprintln(out, "\nRecommended:")
			for _, item := range checklist.Recommended {
				fmt.Fprintf(out, "  [ ] %s\n", item)
			}
			return nil
		},
	}
}
