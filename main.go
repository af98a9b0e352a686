package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spacemonkeygo/monkit/v3"
	"go.uber.org/zap/zapcore"

	"github.com/ibs-qa/storefront-ui-tests/framework"
	"github.com/ibs-qa/storefront-ui-tests/registration"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args, os.Stderr) {
		return 2
	}

	config, err := params.Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		return 1
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	harness, err := framework.NewTestHarness(
		config.BaseURL,
		params.statusTimeout,
		mainDebugLogger,
		os.Stdout,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Storefront error: %s\n", err)
		return 1
	}

	opener, err := params.Opener(framework.NewZapLogger(mainDebugLogger, zapcore.InfoLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Printf("Running test suite against %s (%s backend, %s)\n", config.RegisterURL(), params.backend, params.browserName)

	testLogger := &ConsoleTestLogger{
		Out:                  color.Output,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	tester := registration.New(config, opener, nil)
	results := registration.RunTestSuite(harness, tester, params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)

	if params.stats {
		printStats()
	}

	if !results.OK() {
		fmt.Println()
		fmt.Println("To re-run only the tests that did not pass:")
		fmt.Println(params.RerunCommand(args[0], results.NotOK()))
		return 1
	}
	return 0
}

func printStats() {
	var lines []string
	monkit.Default.Stats(func(key monkit.SeriesKey, field string, val float64) {
		lines = append(lines, fmt.Sprintf("%s %g", key.WithField(field), val))
	})
	sort.Strings(lines)

	fmt.Println()
	fmt.Println("Statistics:")
	for _, line := range lines {
		fmt.Printf("  %s\n", line)
	}
}
