package registration

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ibs-qa/storefront-ui-tests/browser"
	"github.com/ibs-qa/storefront-ui-tests/framework"
)

// Scenario is one submission of the registration form and the result it must have.
type Scenario struct {
	Name          string
	Inputs        Inputs
	ExpectFailure bool
	// Message explains the expectation when the outcome does not meet it.
	Message string
}

// Scenarios are the registration scenarios run by RunTestSuite.
var Scenarios = []Scenario{
	{
		Name: "invalid email without @",
		Inputs: Inputs{
			FirstName: "Иван",
			LastName:  "Иванов",
			Email:     "himail.ru",
			Password:  "Q1w2e3l",
			Subscribe: true,
			Agree:     true,
		},
		ExpectFailure: true,
		Message:       "registration must fail: email has no @",
	},
	{
		Name: "digits in first name",
		Inputs: Inputs{
			FirstName: "1234567890",
			LastName:  "Иванов",
			Email:     "IvanIvan22222@mail.ru",
			Password:  "Q1w2e3l",
			Subscribe: true,
			Agree:     true,
		},
		ExpectFailure: true,
		Message:       "registration must fail: first name contains digits",
	},
	{
		Name: "valid inputs",
		Inputs: Inputs{
			FirstName: "Иван",
			LastName:  "Иванов",
			Email:     "IIIvanIvan33333@mail.ru",
			Password:  "Q1w2e3r4t5y6u7i8o9p0",
			Subscribe: true,
			Agree:     true,
		},
		Message: "registration must succeed with valid inputs",
	},
}

// RunTestSuite runs every registration scenario against the storefront the harness has
// verified, and returns the results.
func RunTestSuite(
	harness *framework.TestHarness,
	tester *Tester,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, harness, tester)

		t.Run("registration", DoRegistrationTests)
	})
}

// DoRegistrationTests runs each of Scenarios as a subtest.
func DoRegistrationTests(t *T) {
	for _, scenario := range Scenarios {
		t.Run(scenario.Name, func(t *T) {
			outcome := t.RunScenario(scenario.Inputs)
			if scenario.ExpectFailure {
				t.RequireRegistrationFailed(outcome, scenario.Message)
			} else {
				t.RequireRegistrationSucceeded(outcome, scenario.Message)
			}
		})
	}
}

// T represents a test or subtest in the registration suite.
//
// It implements the same basic functionality as Go's testing.T, on top of the framework
// package's test context, so the assert and require packages accept a *T as if it were a
// *testing.T. Each T has its own logger, whose output becomes the debug output of that test.
type T struct {
	context *framework.Context
	harness *framework.TestHarness
	tester  *Tester
	log     *zap.Logger
}

func newTestScope(context *framework.Context, harness *framework.TestHarness, tester *Tester) *T {
	log := framework.NewZapLogger(context.DebugLogger(), zapcore.DebugLevel)
	return &T{
		context: context,
		harness: harness,
		tester:  tester.WithLogger(log),
		log:     log,
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
//
// When the subtest exits, it fails if it left a browser session open.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		t1 := newTestScope(c, t.harness, t.tester)
		before := browser.ActiveSessions()
		c.Defer(func() {
			if leaked := browser.ActiveSessions() - before; leaked > 0 {
				c.Errorf("%d browser session(s) still open after the test", leaked)
			}
		})
		action(t1)
	})
}

func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

func (t *T) Log() *zap.Logger {
	return t.log
}

// RunScenario runs one scenario in a new browser session. If the scenario cannot be carried out,
// the test is reported as an error rather than a failure, and exits.
func (t *T) RunScenario(in Inputs) Outcome {
	if t.harness != nil {
		t.Debug("target: %s", t.harness.TargetURL())
	}
	outcome, err := t.tester.RunScenario(context.Background(), in)
	if err != nil {
		t.context.Abort(err)
	}
	t.Debug("%s", outcome)
	return outcome
}

// RequireRegistrationFailed fails the test and exits if the storefront accepted the registration.
func (t *T) RequireRegistrationFailed(outcome Outcome, message string) {
	require.True(t, outcome.Failed(), describe(message, outcome))
}

// RequireRegistrationSucceeded fails the test and exits if the storefront rejected the
// registration.
func (t *T) RequireRegistrationSucceeded(outcome Outcome, message string) {
	require.True(t, outcome.Succeeded(), describe(message, outcome))
}

func describe(message string, outcome Outcome) string {
	return fmt.Sprintf("%s, but %s", message, outcome)
}
