package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/ibs-qa/storefront-ui-tests/framework"
)

func TestConsoleTestLogger(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	logger := &ConsoleTestLogger{Out: &out, DebugOutputOnFailure: true}
	id := framework.TestID{Path: []string{"registration", "valid inputs"}}

	var debug framework.CapturingLogger
	debug.Printf("opening registration page")

	logger.TestStarted(id)
	logger.TestError(id, errors.New("first line\nsecond line"))
	logger.TestFinished(id, true, debug.Output())
	logger.TestAborted(id, nil)
	logger.TestSkipped(id, "excluded by filter parameters")
	logger.TestFinished(id, false, debug.Output())

	text := out.String()
	assert.Contains(t, text, "[registration/valid inputs]\n")
	assert.Contains(t, text, "  first line\n  second line\n")
	assert.Contains(t, text, "  FAILED: registration/valid inputs\n")
	assert.Contains(t, text, "    DEBUG ")
	assert.Contains(t, text, "opening registration page")
	assert.Contains(t, text, "  ERROR: registration/valid inputs\n")
	assert.Contains(t, text, "  SKIPPED: registration/valid inputs (excluded by filter parameters)\n")
	assert.Contains(t, text, "  PASSED\n")
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("opening registration page")))
}
