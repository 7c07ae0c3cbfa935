package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tainthound/jsflow/config"
	"github.com/tainthound/jsflow/internal/engine"
	"github.com/tainthound/jsflow/output"
	"github.com/tainthound/jsflow/taintmodel"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a JavaScript/TypeScript file or project for injection vulnerabilities",
	Long: `Scan traces untrusted data from sources (HTTP requests, filesystem reads,
environment variables, browser globals) to dangerous sinks (SQL execution,
shell commands, eval, file writes, response/DOM writes) over a type-based
taint lattice, and reports the resulting vulnerabilities.

Examples:
  # Scan a single file
  jsflow scan --file handler.js

  # Scan a project directory
  jsflow scan --project ./src --format sarif

  # Extend the recognition tables with a project-specific overlay
  jsflow scan --project ./src --config jsflow.yaml`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("file", "", "path to a single source file to scan")
	scanCmd.Flags().String("project", "", "path to a project root to scan")
	scanCmd.Flags().String("format", "text", "output format: text, json, sarif, jaif")
	scanCmd.Flags().String("fail-on", "", "comma-separated severities that cause a non-zero exit code")
	scanCmd.Flags().String("config", "", "path to a YAML recognition-table overlay")
	scanCmd.Flags().Bool("benchmark", false, "relax the pattern matcher's whole-file test/sample skip rule")
	scanCmd.Flags().Int("workers", 0, "project scan worker count (0 = default)")
}

func runScan(cmd *cobra.Command, _ []string) error {
	filePath, _ := cmd.Flags().GetString("file")
	projectPath, _ := cmd.Flags().GetString("project")
	format, _ := cmd.Flags().GetString("format")
	failOnRaw, _ := cmd.Flags().GetString("fail-on")
	configPath, _ := cmd.Flags().GetString("config")
	benchmark, _ := cmd.Flags().GetBool("benchmark")
	workers, _ := cmd.Flags().GetInt("workers")

	if filePath == "" && projectPath == "" {
		return fmt.Errorf("one of --file or --project is required")
	}

	failOn := output.ParseFailOn(failOnRaw)
	if err := output.ValidateSeverities(failOn); err != nil {
		return err
	}

	if configPath != "" {
		overlay, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := overlay.Apply(); err != nil {
			return err
		}
	}

	opts := output.NewDefaultOptions()
	opts.Format = output.OutputFormat(format)
	opts.FailOn = failOn

	start := time.Now()
	scanID := uuid.NewString()
	logger := output.NewLogger(opts.Verbosity)

	if filePath != "" {
		return scanFile(filePath, engine.Options{BenchmarkMode: benchmark, Logger: logger}, opts, logger, start, scanID)
	}
	return scanProject(projectPath, engine.ProjectOptions{
		Options:    engine.Options{BenchmarkMode: benchmark, Logger: logger},
		NumWorkers: workers,
	}, opts, logger, start, scanID)
}

func scanFile(filePath string, engineOpts engine.Options, opts *output.OutputOptions, logger *output.Logger, start time.Time, scanID string) error {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	logger.PhaseDebug(output.PhaseParse, "scan %s: %s", scanID, filePath)
	result := engine.AnalyzeFile(src, filePath, engineOpts, nil)
	hadErrors := hasAnalysisError(result.Issues)
	logger.PrintTimingSummary()

	scanInfo := output.ScanInfo{ID: scanID, Target: filePath, Version: Version, Duration: time.Since(start), FilesAnalyzed: 1}
	if err := writeResult(result.Issues, result.Statistics.AnnotationsInferred, result.Annotations, scanInfo, opts, logger); err != nil {
		return err
	}

	return exitIfNeeded(result.Issues, opts.FailOn, hadErrors)
}

func scanProject(projectPath string, engineOpts engine.ProjectOptions, opts *output.OutputOptions, logger *output.Logger, start time.Time, scanID string) error {
	doneProjectScan := logger.StartTiming("project-scan")
	result, fileErrs := engine.AnalyzeProject(context.Background(), projectPath, engineOpts)
	doneProjectScan()

	logger.Debug("scan %s: analyzed %d/%d files", scanID, result.AnalyzedFiles, result.TotalFiles)
	for _, fe := range fileErrs {
		logger.Debug("failed to analyze %s: %v", fe.File, fe.Err)
	}
	logger.PrintTimingSummary()

	scanInfo := output.ScanInfo{ID: scanID, Target: projectPath, Version: Version, Duration: time.Since(start), FilesAnalyzed: result.AnalyzedFiles}
	if err := writeResult(result.Issues, result.Coverage.Inferred, nil, scanInfo, opts, logger); err != nil {
		return err
	}

	return exitIfNeeded(result.Issues, opts.FailOn, len(fileErrs) > 0)
}

func writeResult(issues []taintmodel.Issue, annotationsInferred int, annotations map[string]taintmodel.Taint, scanInfo output.ScanInfo, opts *output.OutputOptions, logger *output.Logger) error {
	switch opts.Format {
	case output.FormatJSON:
		return output.NewJSONFormatter(opts).Format(issues, annotationsInferred, scanInfo)
	case output.FormatSARIF:
		return output.NewSARIFFormatter(opts).Format(issues)
	case output.FormatJAIF:
		if annotations == nil {
			return fmt.Errorf("jaif export requires --file (per-file variable annotations), not --project")
		}
		return output.NewJAIFFormatter(opts).Format(scanInfo.Target, annotations)
	default:
		summary := output.BuildSummary(issues, scanInfo.FilesAnalyzed)
		summary.Duration = scanInfo.Duration.String()
		return output.NewTextFormatter(opts, logger).Format(issues, summary)
	}
}

func hasAnalysisError(issues []taintmodel.Issue) bool {
	for _, i := range issues {
		if i.Type == taintmodel.IssueAnalysisError {
			return true
		}
	}
	return false
}

func exitIfNeeded(issues []taintmodel.Issue, failOn []string, hadErrors bool) error {
	code := output.DetermineExitCode(issues, failOn, hadErrors)
	if code != output.ExitCodeSuccess {
		osExitFunc(int(code))
	}
	return nil
}

// osExitFunc is a seam for tests; production code always calls os.Exit.
var osExitFunc = os.Exit
