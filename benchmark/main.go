// Package main provides a performance benchmarking tool for the covlens CLI.
// It generates synthetic projects and coverage reports of varying sizes, measures
// import times across measure backends, running each test multiple times and
// treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - covlens binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic projects are generated
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	Project     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	NoStoreRuns  int
	StoreRuns    int
	ProjectSizes map[string]int
	LinesPerFile int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     5 * time.Minute,
		NoStoreRuns: 3,
		StoreRuns:   4,
		ProjectSizes: map[string]int{
			"small":  100,
			"medium": 1000,
			"large":  10000,
		},
		LinesPerFile: 200,
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear previous measures using covlens measures clear
	fmt.Printf("Clearing measures...\n")
	clearCmd := exec.Command("covlens", "measures", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear measures: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Measures cleared successfully\n")
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the covlens binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("covlens"); err != nil {
		return fmt.Errorf("covlens binary not found in PATH")
	}
	return nil
}

// runBenchmarks executes all benchmark tests across generated project sizes
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d project sizes, %v timeout, no-store: %d runs, store: %d runs\n",
		len(config.ProjectSizes), config.Timeout, config.NoStoreRuns, config.StoreRuns)

	for _, name := range []string{"small", "medium", "large"} {
		fileCount := config.ProjectSizes[name]
		fmt.Printf("Benchmarking %s (%d files)\n", name, fileCount)

		projectPath := filepath.Join(config.WorkDir, name)
		if err := generateProject(projectPath, fileCount, config.LinesPerFile); err != nil {
			return nil, fmt.Errorf("failed to generate %s project: %w", name, err)
		}

		result := runBenchmarkSuite(config, name, projectPath)
		results = append(results, result)
	}

	return results, nil
}

// generateProject writes fileCount synthetic source files and a matching
// generic coverage report into projectPath.
func generateProject(projectPath string, fileCount, linesPerFile int) error {
	srcDir := filepath.Join(projectPath, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(42))

	var report strings.Builder
	report.WriteString(`<coverage version="1">` + "\n")

	fileBody := strings.Repeat("line of code\n", linesPerFile)
	for i := range fileCount {
		relPath := fmt.Sprintf("src/file_%05d.txt", i)
		if err := os.WriteFile(filepath.Join(projectPath, relPath), []byte(fileBody), 0o644); err != nil {
			return err
		}

		fmt.Fprintf(&report, `  <file path=%q>`+"\n", relPath)
		for line := 1; line <= linesPerFile; line++ {
			covered := rng.Intn(2) == 1
			if line%10 == 0 {
				toCover := 2 + rng.Intn(3)
				fmt.Fprintf(&report, `    <lineToCover lineNumber="%d" covered="%t" branchesToCover="%d" coveredBranches="%d"/>`+"\n",
					line, covered, toCover, rng.Intn(toCover+1))
			} else {
				fmt.Fprintf(&report, `    <lineToCover lineNumber="%d" covered="%t"/>`+"\n", line, covered)
			}
		}
		report.WriteString("  </file>\n")
	}
	report.WriteString("</coverage>\n")

	return os.WriteFile(filepath.Join(projectPath, "coverage.xml"), []byte(report.String()), 0o644)
}

// runBenchmarkSuite runs both no-store and store benchmarks for a project
func runBenchmarkSuite(config BenchmarkConfig, name, projectPath string) BenchmarkResult {
	fmt.Printf("Running import on %s\n", name)

	// Helper to run a benchmark phase
	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, projectPath, backend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-store runs
	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")

	// Phase 2: Store runs
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Project:     name,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a covlens import multiple times with the specified measure backend
// and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, projectPath, backend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{"import", "--report-paths", "coverage.xml", "--measure-backend", backend, projectPath}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("covlens", args...)
		cmd.Dir = projectPath

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Import completed in") &&
		strings.Contains(outputStr, "Measure backend")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/covlens_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"project", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Project, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	fmt.Printf("Import times by project size:\n")
	for _, result := range results {
		fmt.Printf("  %-8s: No-store: %s, Cold: %s, Warm: %s\n", result.Project, result.NoStoreTime, result.ColdTime, result.WarmTime)
	}

	fmt.Printf("Benchmark script completed successfully\n")
}
