package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/a11ygrade-cli/api/schemas"
	"github.com/xkilldash9x/a11ygrade-cli/internal/advisor"
	"github.com/xkilldash9x/a11ygrade-cli/internal/config"
	"github.com/xkilldash9x/a11ygrade-cli/internal/observability"
	"github.com/xkilldash9x/a11ygrade-cli/internal/report"
	"github.com/xkilldash9x/a11ygrade-cli/internal/webscan"
)

// newScanCmd creates and configures the `scan` command.
func newScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [urls...]",
		Short: "Grades web pages for accessibility compliance",
		Long: `Scan navigates each URL in a headless browser, runs the axe-core rule
engine against the loaded page, and grades the results. Pages the browser
cannot reach are retried with a static HTML checker, and unreachable pages
still produce a scored report through the error path.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so command-line values override
			// the config file and environment with the right precedence.
			if err := viper.BindPFlag("scoring.policy", cmd.Flags().Lookup("policy")); err != nil {
				return err
			}
			if err := viper.BindPFlag("report.department", cmd.Flags().Lookup("department")); err != nil {
				return err
			}
			if err := viper.BindPFlag("report.output_dir", cmd.Flags().Lookup("output-dir")); err != nil {
				return err
			}
			return viper.BindPFlag("advisor.enabled", cmd.Flags().Lookup("advise"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from main.go (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Flags were bound in PreRunE; re-read the config so the
			// overrides are visible.
			if err := reloadConfig(); err != nil {
				return err
			}

			concurrency, err := cmd.Flags().GetInt("concurrency")
			if err != nil {
				return err
			}
			if concurrency < 1 {
				concurrency = 1
			}

			scanner := webscan.NewScanner(cfg, logger)
			adviceClient := advisor.NewClient(cfg.Advisor, logger)
			assembler, err := report.NewAssembler(cfg.Report, logger)
			if err != nil {
				return err
			}

			logger.Info("Starting accessibility scan",
				zap.Strings("targets", args),
				zap.String("policy", cfg.Scoring.Policy),
				zap.Int("concurrency", concurrency),
				zap.Bool("advise", cfg.Advisor.Enabled))

			group, groupCtx := errgroup.WithContext(ctx)
			group.SetLimit(concurrency)

			var mu sync.Mutex
			for _, target := range args {
				group.Go(func() error {
					result := scanner.CheckURL(groupCtx, target)

					advisory := adviseIfEnabled(groupCtx, adviceClient, result)
					rpt := assembler.Assemble(*result, nil, advisory)
					jsonPath, csvPath, err := assembler.Write(rpt)
					if err != nil {
						return fmt.Errorf("failed to write report for %s: %w", target, err)
					}

					mu.Lock()
					printReportSummary(cmd, rpt, jsonPath, csvPath)
					mu.Unlock()
					return nil
				})
			}

			return group.Wait()
		},
	}

	scanCmd.Flags().String("policy", "", "Scoring policy: 'strict' or 'weighted'. (Overrides config/env)")
	scanCmd.Flags().String("department", "", "Department name recorded on the report. (Overrides config/env)")
	scanCmd.Flags().StringP("output-dir", "o", "", "Directory for report files. (Overrides config/env)")
	scanCmd.Flags().Bool("advise", false, "Attach AI remediation advice to each report.")
	scanCmd.Flags().IntP("concurrency", "j", 2, "Number of targets scanned in parallel.")

	return scanCmd
}

// reloadConfig re-unmarshals the viper state after subcommand flag binding.
func reloadConfig() error {
	loaded, err := config.NewConfigFromViper(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to apply flag overrides: %w", err)
	}
	cfg = loaded
	return nil
}

// adviseIfEnabled fetches AI advice for a result when the advisor is on.
// Advisory failures never block report generation.
func adviseIfEnabled(ctx context.Context, client *advisor.Client, result *schemas.ScoreResult) *schemas.Advisory {
	if !cfg.Advisor.Enabled {
		return nil
	}
	advisory, err := client.Advise(ctx, result.Subject, result.Score, result.Findings)
	if err != nil {
		observability.GetLogger().Warn("Advisory unavailable",
			zap.String("subject", result.Subject), zap.Error(err))
		return nil
	}
	return advisory
}

// printReportSummary renders the per-subject outcome on stdout.
func printReportSummary(cmd *cobra.Command, rpt *schemas.ComplianceReport, jsonPath, csvPath string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s\n", rpt.Subject)
	fmt.Fprintf(out, "  Score:      %d/100 (%s - %s)\n", rpt.Score, rpt.Grade.Letter, rpt.Grade.Label)
	fmt.Fprintf(out, "  Compliance: %s\n", rpt.ComplianceStatus)
	fmt.Fprintf(out, "  WCAG Level: %s\n", rpt.WCAGLevel)
	fmt.Fprintf(out, "  Issues:     %d total, %d critical\n", rpt.TotalIssues, rpt.CriticalIssues)
	fmt.Fprintf(out, "  Reports:    %s\n              %s\n", jsonPath, csvPath)
}
