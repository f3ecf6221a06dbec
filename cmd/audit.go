package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/a11ygrade-cli/internal/advisor"
	"github.com/xkilldash9x/a11ygrade-cli/internal/docscan"
	"github.com/xkilldash9x/a11ygrade-cli/internal/observability"
	"github.com/xkilldash9x/a11ygrade-cli/internal/report"
)

// newAuditCmd creates and configures the `audit` command for documents.
func newAuditCmd() *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit [files...]",
		Short: "Grades PDF, Word, and text documents for accessibility compliance",
		Long: `Audit inspects each document's structure (title and author metadata,
heading outline, bookmarks, images, tables) and grades it. Unsupported or
unreadable files still produce a scored report through the error path.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("report.department", cmd.Flags().Lookup("department")); err != nil {
				return err
			}
			if err := viper.BindPFlag("report.output_dir", cmd.Flags().Lookup("output-dir")); err != nil {
				return err
			}
			return viper.BindPFlag("advisor.enabled", cmd.Flags().Lookup("advise"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			if err := reloadConfig(); err != nil {
				return err
			}

			analyzer := docscan.NewAnalyzer(logger)
			adviceClient := advisor.NewClient(cfg.Advisor, logger)
			assembler, err := report.NewAssembler(cfg.Report, logger)
			if err != nil {
				return err
			}

			logger.Info("Starting document audit",
				zap.Strings("files", args),
				zap.Bool("advise", cfg.Advisor.Enabled))

			for _, path := range args {
				if _, err := os.Stat(path); err != nil {
					return fmt.Errorf("cannot read %s: %w", path, err)
				}

				result, docInfo := analyzer.AnalyzeDocument(ctx, path, filepath.Base(path))

				advisory := adviseIfEnabled(ctx, adviceClient, result)
				rpt := assembler.Assemble(*result, docInfo, advisory)
				jsonPath, csvPath, err := assembler.Write(rpt)
				if err != nil {
					return fmt.Errorf("failed to write report for %s: %w", path, err)
				}

				printReportSummary(cmd, rpt, jsonPath, csvPath)
			}

			return nil
		},
	}

	auditCmd.Flags().String("department", "", "Department name recorded on the report. (Overrides config/env)")
	auditCmd.Flags().StringP("output-dir", "o", "", "Directory for report files. (Overrides config/env)")
	auditCmd.Flags().Bool("advise", false, "Attach AI remediation advice to each report.")

	return auditCmd
}
