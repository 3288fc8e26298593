package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nkhare/armada/internal/output"
	"github.com/nkhare/armada/internal/report"
)

// newReportCmd creates the report command group
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate reports across a project stage",
		Long: `Generate reports by sweeping every cluster of a registry project
stage concurrently.`,
	}

	cmd.AddCommand(newReportVersionsCmd())

	return cmd
}

// newReportVersionsCmd creates the report versions command
func newReportVersionsCmd() *cobra.Command {
	var (
		outputFormat string
		wide         bool
		csvPath      string
		driftedOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "versions <project> <stage>",
		Short: "Report host versions against the stage target",
		Long: `Sweep every cluster of the project stage and report each host's
kubelet version against the stage's target version.

Regions are swept concurrently; a failing cluster is reported at the
bottom without aborting the sweep. Hosts running a version other than
the target are marked as drifted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportVersions(cmd, args[0], args[1], outputFormat, wide, csvPath, driftedOnly)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "output format (table, json, yaml)")
	cmd.Flags().BoolVar(&wide, "wide", false, "show cluster and readiness columns")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the report as CSV to the given file")
	cmd.Flags().BoolVar(&driftedOnly, "drifted-only", false, "only show hosts not on the target version")

	return cmd
}

func runReportVersions(cmd *cobra.Command, project, stage, outputFormat string, wide bool, csvPath string, driftedOnly bool) error {
	logger := slog.Default()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	format, err := resolveFormat(outputFormat, settings)
	if err != nil {
		return err
	}

	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	source := report.NewKubeconfigSource(newKubeconfigLoader(), logger)
	engine := report.NewEngine(registry, source, newDispatcher(settings), *settings, logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), settings.Timeout)
	defer cancel()

	rep, err := engine.Versions(ctx, project, stage)
	if err != nil {
		return err
	}

	if driftedOnly {
		rep.Rows = rep.DriftedRows()
	}

	if csvPath != "" {
		if err := writeReportFile(csvPath, rep); err != nil {
			return err
		}
		logger.Info("report written", "path", csvPath, "hosts", len(rep.Rows))
		if len(rep.Failures) > 0 {
			return fmt.Errorf("%d clusters could not be swept", len(rep.Failures))
		}
		return nil
	}

	formatter := newFormatter(format, settings, wide)
	if err := formatter.FormatReport(os.Stdout, rep); err != nil {
		return err
	}

	if len(rep.Failures) > 0 {
		return fmt.Errorf("%d clusters could not be swept", len(rep.Failures))
	}
	return nil
}

// writeReportFile writes the report as CSV to path.
func writeReportFile(path string, rep *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := output.WriteReportCSV(f, rep); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
