// Command-line interface for the GTFS validator library
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	gtfsvalidator "github.com/transitlint/gtfs-validator"
)

var version = "dev"

type cliFlags struct {
	inputPath    string
	outputFormat string
	outputFile   string
	countryCode  string
	maxMemory    int64
	workers      int
	mode         string
	maxNotices   int
	timeout      time.Duration
	showProgress bool
}

func main() {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:           "gtfs-validator",
		Short:         "GTFS Validator CLI - A comprehensive GTFS feed validator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

	rootCmd.Flags().StringVarP(&flags.inputPath, "input", "i", "", "Path to GTFS feed (ZIP file or directory)")
	rootCmd.Flags().StringVarP(&flags.outputFormat, "format", "f", "console", "Output format: console, json, summary")
	rootCmd.Flags().StringVarP(&flags.outputFile, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().StringVarP(&flags.countryCode, "country", "c", "US", "Country code for validation (e.g., US, GB, FR)")
	rootCmd.Flags().Int64Var(&flags.maxMemory, "memory", 0, "Maximum memory usage in MB (0 = no limit)")
	rootCmd.Flags().IntVarP(&flags.workers, "workers", "w", 4, "Number of parallel workers")
	rootCmd.Flags().StringVarP(&flags.mode, "mode", "m", "default", "Validation mode: performance, default, comprehensive")
	rootCmd.Flags().IntVar(&flags.maxNotices, "max-notices", 100, "Maximum notices per type (0 = no limit)")
	rootCmd.Flags().DurationVarP(&flags.timeout, "timeout", "t", 5*time.Minute, "Validation timeout")
	rootCmd.Flags().BoolVar(&flags.showProgress, "progress", false, "Show progress bar")

	if err := rootCmd.MarkFlagRequired("input"); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	rootCmd.Example = strings.Join([]string{
		"  gtfs-validator -i feed.zip",
		"  gtfs-validator -i ./gtfs-feed -f json -o report.json",
		"  gtfs-validator -i feed.zip -m performance",
		"  gtfs-validator -i feed.zip --progress",
	}, "\n")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("GTFS Validator CLI v%s\n", version)
			fmt.Println("A comprehensive GTFS feed validator written in Go")
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the static catalog of every notice code, severity, and context fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := json.MarshalIndent(gtfsvalidator.NoticeSchema(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	})

	if err := rootCmd.Execute(); err != nil {
		if strings.Contains(err.Error(), "required flag") {
			fmt.Fprintf(os.Stderr, "❌ %v\n\n", err)
			_ = rootCmd.Usage()
		} else {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, flags *cliFlags) error {
	if err := validateInput(flags.inputPath, flags.mode, flags.outputFormat); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), flags.timeout)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\n⚠️  Cancelling validation...\n")
		cancel()
	}()

	opts := []gtfsvalidator.Option{
		gtfsvalidator.WithCountryCode(flags.countryCode),
		gtfsvalidator.WithMaxMemory(flags.maxMemory * 1024 * 1024),
		gtfsvalidator.WithParallelWorkers(flags.workers),
		gtfsvalidator.WithMaxNoticesPerType(flags.maxNotices),
	}

	switch flags.mode {
	case "performance":
		opts = append(opts, gtfsvalidator.WithValidationMode(gtfsvalidator.ValidationModePerformance))
	case "comprehensive":
		opts = append(opts, gtfsvalidator.WithValidationMode(gtfsvalidator.ValidationModeComprehensive))
	default:
		opts = append(opts, gtfsvalidator.WithValidationMode(gtfsvalidator.ValidationModeDefault))
	}

	if flags.showProgress {
		progressBar := NewProgressBar()
		opts = append(opts, gtfsvalidator.WithProgressCallback(func(info gtfsvalidator.ProgressInfo) {
			progressBar.Update(info.PercentComplete, info.CurrentValidator)
		}))
	}

	validator := gtfsvalidator.New(opts...)

	fmt.Fprintf(os.Stderr, "🚀 Starting GTFS validation...\n")
	fmt.Fprintf(os.Stderr, "   Feed: %s\n", filepath.Base(flags.inputPath))
	fmt.Fprintf(os.Stderr, "   Mode: %s\n", flags.mode)
	if flags.maxNotices > 0 {
		fmt.Fprintf(os.Stderr, "   Notice limit: %d per type\n", flags.maxNotices)
	}
	fmt.Fprintf(os.Stderr, "\n")

	startTime := time.Now()
	report, err := validator.ValidateFileWithContext(ctx, flags.inputPath)
	elapsed := time.Since(startTime)

	if err != nil {
		switch err {
		case context.Canceled:
			fmt.Fprintf(os.Stderr, "⚠️  Validation cancelled by user\n")
			os.Exit(1)
		case context.DeadlineExceeded:
			fmt.Fprintf(os.Stderr, "⏰ Validation timed out after %v\n", flags.timeout)
			os.Exit(1)
		default:
			fmt.Fprintf(os.Stderr, "❌ Validation Error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Fprintf(os.Stderr, "✅ Validation completed in %.2fs\n\n", elapsed.Seconds())

	output := os.Stdout
	if flags.outputFile != "" {
		file, err := os.Create(flags.outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Output Error: Failed to create output file '%s': %v\n", flags.outputFile, err)
			os.Exit(1)
		}
		defer file.Close()
		output = file
		fmt.Fprintf(os.Stderr, "📄 Writing output to: %s\n", flags.outputFile)
	}

	switch flags.outputFormat {
	case "json":
		if err := json.NewEncoder(output).Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "❌ JSON Error: Failed to encode report: %v\n", err)
			os.Exit(1)
		}
	case "summary":
		outputSummary(output, report, flags.inputPath)
	case "console":
		outputConsole(output, report, flags.inputPath)
	default:
		fmt.Fprintf(os.Stderr, "❌ Format Error: Unknown output format '%s'\n", flags.outputFormat)
		fmt.Fprintf(os.Stderr, "   Valid formats: console, json, summary\n")
		os.Exit(1)
	}

	if report.HasErrors() {
		fmt.Fprintf(os.Stderr, "💀 Validation FAILED: %d errors found\n", report.ErrorCount())
		os.Exit(1)
	} else if report.HasWarnings() {
		fmt.Fprintf(os.Stderr, "⚠️  Validation completed with %d warnings\n", report.WarningCount())
	} else {
		fmt.Fprintf(os.Stderr, "🎉 Validation PASSED: Feed is valid!\n")
	}

	return nil
}

func validateInput(inputPath, mode, format string) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input error: path does not exist: '%s'", inputPath)
	}

	validModes := []string{"performance", "default", "comprehensive"}
	if !contains(validModes, mode) {
		return fmt.Errorf("invalid validation mode: '%s'. Valid modes: %s", mode, strings.Join(validModes, ", "))
	}

	validFormats := []string{"console", "json", "summary"}
	if !contains(validFormats, format) {
		return fmt.Errorf("invalid output format: '%s'. Valid formats: %s", format, strings.Join(validFormats, ", "))
	}

	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func outputSummary(output *os.File, report *gtfsvalidator.ValidationReport, inputPath string) {
	fmt.Fprintf(output, "GTFS Validation Summary\n")
	fmt.Fprintf(output, "======================\n\n")
	fmt.Fprintf(output, "Feed: %s\n", filepath.Base(inputPath))
	fmt.Fprintf(output, "Validation Time: %.2fs\n\n", report.Summary.ValidationTime)

	fmt.Fprintf(output, "Feed Statistics:\n")
	fmt.Fprintf(output, "  Agencies: %d\n", report.Summary.FeedInfo.AgencyCount)
	fmt.Fprintf(output, "  Routes: %d\n", report.Summary.FeedInfo.RouteCount)
	fmt.Fprintf(output, "  Trips: %d\n", report.Summary.FeedInfo.TripCount)
	fmt.Fprintf(output, "  Stops: %d\n", report.Summary.FeedInfo.StopCount)
	fmt.Fprintf(output, "  Stop Times: %d\n", report.Summary.FeedInfo.StopTimeCount)
	if report.Summary.FeedInfo.ServiceDateFrom != "" && report.Summary.FeedInfo.ServiceDateTo != "" {
		fmt.Fprintf(output, "  Service Period: %s to %s\n", report.Summary.FeedInfo.ServiceDateFrom, report.Summary.FeedInfo.ServiceDateTo)
	}

	fmt.Fprintf(output, "\nValidation Results:\n")
	fmt.Fprintf(output, "  Errors: %d\n", report.Summary.Counts.Errors)
	fmt.Fprintf(output, "  Warnings: %d\n", report.Summary.Counts.Warnings)
	fmt.Fprintf(output, "  Infos: %d\n", report.Summary.Counts.Infos)
	fmt.Fprintf(output, "  Total: %d\n", report.Summary.Counts.Total)

	if report.HasErrors() {
		fmt.Fprintf(output, "\n❌ Validation FAILED - Feed contains errors\n")
	} else if report.HasWarnings() {
		fmt.Fprintf(output, "\n⚠️  Validation completed with warnings\n")
	} else {
		fmt.Fprintf(output, "\n✅ Validation PASSED\n")
	}
}

func outputConsole(output *os.File, report *gtfsvalidator.ValidationReport, inputPath string) {
	outputSummary(output, report, inputPath)

	if len(report.Notices) > 0 {
		fmt.Fprintf(output, "\nSample Notices:\n")
		fmt.Fprintf(output, "===============\n")

		errorCount := 0
		warningCount := 0

		for _, notice := range report.Notices {
			if errorCount >= 5 && warningCount >= 5 {
				break
			}

			if notice.Severity == "ERROR" && errorCount < 5 {
				fmt.Fprintf(output, "ERROR: %s (%d instances)\n", notice.Code, notice.TotalNotices)
				if len(notice.SampleNotices) > 0 {
					showNoticeContext(output, notice.SampleNotices[0])
				}
				errorCount++
			} else if notice.Severity == "WARNING" && warningCount < 5 {
				fmt.Fprintf(output, "WARNING: %s (%d instances)\n", notice.Code, notice.TotalNotices)
				if len(notice.SampleNotices) > 0 {
					showNoticeContext(output, notice.SampleNotices[0])
				}
				warningCount++
			}
		}

		if len(report.Notices) > 10 {
			fmt.Fprintf(output, "\n... and %d more notices (use -f json for full details)\n", len(report.Notices)-10)
		}
	}
}

func showNoticeContext(output *os.File, context map[string]interface{}) {
	details := []string{}

	if filename, ok := context["filename"].(string); ok {
		details = append(details, fmt.Sprintf("file=%s", filename))
	}
	if row, ok := context["csvRowNumber"].(float64); ok {
		details = append(details, fmt.Sprintf("row=%d", int(row)))
	}
	if field, ok := context["fieldName"].(string); ok {
		details = append(details, fmt.Sprintf("field=%s", field))
	}
	if routeId, ok := context["routeId"].(string); ok {
		details = append(details, fmt.Sprintf("route=%s", routeId))
	}

	if len(details) > 0 {
		fmt.Fprintf(output, "       (%s)\n", strings.Join(details, ", "))
	}
}

// ProgressBar renders a simple terminal progress indicator.
type ProgressBar struct {
	lastPercent int
}

func NewProgressBar() *ProgressBar {
	return &ProgressBar{lastPercent: -1}
}

func (p *ProgressBar) Update(percent float64, status string) {
	currentPercent := int(percent)
	if currentPercent == p.lastPercent {
		return
	}
	p.lastPercent = currentPercent

	barWidth := 40
	filled := int(float64(barWidth) * percent / 100)
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)

	if len(status) > 30 {
		status = status[:27] + "..."
	}

	fmt.Fprintf(os.Stderr, "\r[%s] %3d%% %s", bar, currentPercent, status)
}
