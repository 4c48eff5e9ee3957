// Package main provides a performance benchmarking tool for the metricsgraph CLI.
// It measures execution times of the chart commands across viewport sizes,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - metricsgraph binary installed and available in PATH
//
// Usage: go run benchmark/main.go [datasets-file]
//
//	datasets-file: Optional YAML datasets file; the built-in datasets are used when omitted
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Viewport    string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// Viewport is one chart size under test.
type Viewport struct {
	Name    string
	Width   string
	Height  string
	Padding string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Datasets    string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Viewports   []Viewport
	Commands    map[string][]string
}

func main() {
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [datasets-file]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Timeout:     time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Viewports: []Viewport{
			{"small", "320", "180", "20"},
			{"default", "500", "280", "40"},
			{"large", "1920", "1080", "80"},
		},
		Commands: map[string][]string{
			"paths":      {"paths", "--output", "json"},
			"render-svg": {"render", "--format", "svg"},
			"render-png": {"render", "--format", "png"},
		},
	}
	if len(os.Args) == 2 {
		config.Datasets = os.Args[1]
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("metricsgraph", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the binary and the datasets file exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("metricsgraph"); err != nil {
		return errors.New("metricsgraph binary not found in PATH")
	}
	if config.Datasets != "" {
		if _, err := os.Stat(config.Datasets); err != nil {
			return fmt.Errorf("datasets file %s: %w", config.Datasets, err)
		}
	}
	return nil
}

// commandOrder keeps the output stable across runs.
var commandOrder = []string{"paths", "render-svg", "render-png"}

// runBenchmarks executes all benchmark tests across configured viewports
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d viewports, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Viewports), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, vp := range config.Viewports {
		fmt.Printf("Benchmarking %s viewport (%sx%s)\n", vp.Name, vp.Width, vp.Height)
		for _, name := range commandOrder {
			args := append([]string{}, config.Commands[name]...)
			args = append(args, "--width", vp.Width, "--height", vp.Height, "--padding", vp.Padding, "--output-file", os.DevNull)
			if config.Datasets != "" {
				args = append(args, "--datasets", config.Datasets)
			}
			results = append(results, runBenchmarkSuite(config, vp.Name, name, args))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, viewport, command string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s viewport\n", command, viewport)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, args, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "N/A"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "FAILED"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Viewport:    viewport,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args = append(append([]string{}, args...), "--cache-backend", cacheBackend)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		err := exec.CommandContext(ctx, "metricsgraph", args...).Run()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return coldTime, warmTimes
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s/metricsgraph_benchmark_%s.csv", os.TempDir(), timestamp)

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

	if err := writer.Write([]string{"viewport", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Viewport, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range commandOrder {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Viewport, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
