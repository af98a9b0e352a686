package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ibs-qa/storefront-ui-tests/framework"
)

var (
	failedLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorLabel   = color.New(color.FgMagenta, color.Bold).SprintFunc()
	skippedLabel = color.New(color.FgYellow).SprintFunc()
	passedLabel  = color.New(color.FgGreen).SprintFunc()
)

// ConsoleTestLogger prints test progress to Out as the suite runs.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		fmt.Fprintf(c.Out, "  %s: %s\n", failedLabel("FAILED"), id)
	} else if len(id.Path) > 1 {
		fmt.Fprintf(c.Out, "  %s\n", passedLabel("PASSED"))
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

// TestAborted reports a test that could not be carried out, such as one whose browser did not
// start. Its debug output is shown whenever debug output is shown for failures.
func (c *ConsoleTestLogger) TestAborted(id framework.TestID, debugOutput framework.CapturedOutput) {
	fmt.Fprintf(c.Out, "  %s: %s\n", errorLabel("ERROR"), id)
	if len(debugOutput) > 0 && c.DebugOutputOnFailure {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		fmt.Fprintf(c.Out, "  %s: %s\n", skippedLabel("SKIPPED"), id)
	} else {
		fmt.Fprintf(c.Out, "  %s: %s (%s)\n", skippedLabel("SKIPPED"), id, reason)
	}
}
