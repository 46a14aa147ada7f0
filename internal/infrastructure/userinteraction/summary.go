package userinteraction

import (
	"fmt"
	"path/filepath"
	"strings"

	"docproc/internal/application/usecase"
	"docproc/internal/domain/entity"

	"github.com/fatih/color"
)

// PrintSummary renders the terminal report for a finished batch.
func PrintSummary(report *usecase.BatchReport) {
	successes := report.Successes()
	failures := report.Failures()
	qualityFailures := qualityFailed(failures)

	line := strings.Repeat("=", 60)
	fmt.Println("\n" + line)
	fmt.Println(strings.Repeat(" ", 20) + "PROCESSING SUMMARY")
	fmt.Println(line)
	fmt.Printf("Total files processed: %d\n", len(report.Results))
	color.New(color.FgGreen).Printf("Successful: %d\n", len(successes))
	failColor := color.New(color.FgGreen)
	if len(failures) > 0 {
		failColor = color.New(color.FgRed)
	}
	failColor.Printf("Failed: %d\n", len(failures))
	fmt.Printf("Total time: %.1fs\n", report.WallTime.Seconds())

	if report.StandardsUsed {
		fmt.Println("\nQuality Verification:")
		fmt.Printf("  Passed: %d\n", len(successes))
		fmt.Printf("  Failed: %d\n", len(qualityFailures))
	}

	if len(successes) > 0 {
		fmt.Printf("Average processing time: %.1fs per file\n", report.AverageSuccessTime().Seconds())
		fmt.Printf("Parallelization efficiency: %.1fx (theoretical max: concurrency level)\n", report.Efficiency())
	}

	if len(failures) > 0 {
		dash := strings.Repeat("-", 60)
		fmt.Println("\n" + dash)
		color.New(color.FgRed, color.Bold).Println("FAILED FILES:")
		fmt.Println(dash)
		for _, res := range failures {
			fmt.Printf("  - %s\n", filepath.Base(res.InputPath))
			fmt.Printf("    Error: %s\n", res.Error)
			fmt.Printf("    Retries: %d\n", res.RetryCount)
		}
	}

	if len(qualityFailures) > 0 {
		dash := strings.Repeat("-", 60)
		fmt.Println("\n" + dash)
		color.New(color.FgYellow, color.Bold).Println("QUALITY VERIFICATION FAILED:")
		fmt.Println(dash)
		for _, res := range qualityFailures {
			fmt.Printf("  - %s\n", filepath.Base(res.InputPath))
			fmt.Printf("    Reason: %s\n", res.QualityError)
		}
	}

	fmt.Println(line)
}

func qualityFailed(failures []entity.TaskResult) []entity.TaskResult {
	var out []entity.TaskResult
	for _, res := range failures {
		if res.QualityError != "" {
			out = append(out, res)
		}
	}
	return out
}
