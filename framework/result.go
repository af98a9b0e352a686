package framework

import (
	"fmt"
	"io"
	"strings"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Errors   []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Aborted bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0 && len(r.Errors) == 0
}

// NotOK returns the failed and aborted tests, in the order they were run.
func (r Results) NotOK() []TestResult {
	var ret []TestResult
	for _, t := range r.Tests {
		if t.Aborted || len(t.Errors) > 0 {
			ret = append(ret, t)
		}
	}
	return ret
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// PrintResults writes a summary of the test run.
func PrintResults(out io.Writer, results Results) {
	if results.OK() {
		fmt.Fprintf(out, "All tests passed (%d)\n", len(results.Tests))
		return
	}
	if len(results.Failures) > 0 {
		fmt.Fprintf(out, "FAILED TESTS (%d):\n", len(results.Failures))
		for _, f := range results.Failures {
			fmt.Fprintf(out, "  * %s\n", f.TestID)
		}
	}
	if len(results.Errors) > 0 {
		fmt.Fprintf(out, "TESTS THAT COULD NOT RUN TO COMPLETION (%d):\n", len(results.Errors))
		for _, f := range results.Errors {
			fmt.Fprintf(out, "  * %s\n", f.TestID)
			for _, err := range f.Errors {
				for _, line := range strings.Split(err.Error(), "\n") {
					fmt.Fprintf(out, "      %s\n", line)
				}
			}
		}
	}
}
