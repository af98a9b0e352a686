package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the state of one test or subtest. It plays the role of *testing.T for tests that
// run outside of the Go test runner.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	aborted     bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
}

// Run executes the top-level test action and returns the accumulated results of it and all
// of its subtests.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			c.recordPanic(r)
		}
		c.runCleanups()
		if c.skipped || len(c.id.Path) == 0 {
			return
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Aborted: c.aborted}
		c.env.results.Tests = append(c.env.results.Tests, result)
		switch {
		case c.aborted:
			c.env.results.Errors = append(c.env.results.Errors, result)
		case c.failed:
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) recordPanic(r interface{}) {
	if c.skipped {
		return
	}
	c.failed = true
	var addError error
	if _, ok := r.(*Context); ok {
		if len(c.errors) == 0 {
			addError = errors.New("test failed with no failure message")
		}
	} else {
		c.aborted = true
		addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
	}
	if addError != nil {
		c.errors = append(c.errors, addError)
		c.env.testLogger.TestError(c.id, addError)
	}
}

// runCleanups runs deferred functions in reverse order. A cleanup that fails the test, or
// panics, does not prevent the others from running.
func (c *Context) runCleanups() {
	for len(c.cleanups) > 0 {
		last := len(c.cleanups) - 1
		cleanup := c.cleanups[last]
		c.cleanups = c.cleanups[:last]
		c.runCleanup(cleanup)
	}
}

func (c *Context) runCleanup(cleanup func()) {
	defer func() {
		if r := recover(); r != nil {
			c.recordPanic(r)
		}
	}()
	cleanup()
}

// ID returns the full identifier of the current test.
func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest, unless the filter excludes it.
func (c *Context) Run(name string, action func(*Context)) {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	switch {
	case c1.skipped:
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	case c1.aborted:
		c.env.testLogger.TestAborted(id, c1.debugLogger.Output())
	default:
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records an assertion failure without stopping the test.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

// FailNow stops the test immediately.
func (c *Context) FailNow() {
	panic(c)
}

// Abort records an error in the test infrastructure itself, such as a browser that could not
// be launched or an element that never appeared, and stops the test immediately. Aborted tests
// are reported separately from assertion failures.
func (c *Context) Abort(err error) {
	c.failed = true
	c.aborted = true
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer schedules a function to run when the current test exits, in reverse order of
// registration, whether or not the test passed.
func (c *Context) Defer(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// reformatError strips the leading newline and tab indentation that testify puts in its
// failure messages, so that the console logger can apply its own indentation.
func reformatError(err error) error {
	lines := strings.Split(strings.TrimPrefix(err.Error(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "\t")
	}
	return errors.New(strings.Join(lines, "\n"))
}
