package registration

import (
	"context"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibs-qa/storefront-ui-tests/browser"
	"github.com/ibs-qa/storefront-ui-tests/browser/browsertest"
	"github.com/ibs-qa/storefront-ui-tests/framework"
)

type testOutcome struct {
	id      string
	failed  bool
	aborted bool
	output  framework.CapturedOutput
}

type recordingTestLogger struct {
	outcomes []testOutcome
	skipped  []string
}

func (l *recordingTestLogger) TestStarted(framework.TestID)      {}
func (l *recordingTestLogger) TestError(framework.TestID, error) {}
func (l *recordingTestLogger) TestFinished(id framework.TestID, failed bool, output framework.CapturedOutput) {
	l.outcomes = append(l.outcomes, testOutcome{id: id.String(), failed: failed, output: output})
}
func (l *recordingTestLogger) TestAborted(id framework.TestID, output framework.CapturedOutput) {
	l.outcomes = append(l.outcomes, testOutcome{id: id.String(), aborted: true, output: output})
}
func (l *recordingTestLogger) TestSkipped(id framework.TestID, reason string) {
	l.skipped = append(l.skipped, id.String())
}

func (l *recordingTestLogger) outcome(id string) testOutcome {
	for _, o := range l.outcomes {
		if o.id == id {
			return o
		}
	}
	return testOutcome{}
}

// withSuite runs the suite against a fake storefront whose base URL is a live HTTP server, so
// that the harness can query it.
func withSuite(t *testing.T, configure func(*fakeStorefront), filter framework.Filter, action func(framework.Results, *recordingTestLogger)) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(200), func(server *httptest.Server) {
		harness, err := framework.NewTestHarness(server.URL, time.Second, nil, nil)
		require.NoError(t, err)

		config := testConfig()
		config.BaseURL = harness.TargetURL()
		shop := newFakeStorefront(config)
		if configure != nil {
			configure(shop)
		}

		logger := &recordingTestLogger{}
		results := RunTestSuite(harness, New(config, shop.opener, nil), filter, logger)
		action(results, logger)
	})
}

func TestSuitePasses(t *testing.T) {
	before := browser.ActiveSessions()
	withSuite(t, nil, nil, func(results framework.Results, logger *recordingTestLogger) {
		assert.True(t, results.OK(), "%+v", results)
		require.Len(t, results.Tests, 1+len(Scenarios))
		for _, s := range Scenarios {
			o := logger.outcome("registration/" + s.Name)
			assert.False(t, o.failed, s.Name)
			assert.False(t, o.aborted, s.Name)
			assert.NotEmpty(t, o.output, "step logs are captured for %s", s.Name)
		}
	})
	assert.Equal(t, before, browser.ActiveSessions())
}

func TestSuiteReportsAcceptedInvalidInputsAsFailures(t *testing.T) {
	accept := func(shop *fakeStorefront) { shop.AcceptAll = true }
	withSuite(t, accept, nil, func(results framework.Results, logger *recordingTestLogger) {
		assert.False(t, results.OK())
		assert.Empty(t, results.Errors)
		require.Len(t, results.Failures, 2)

		assert.Equal(t, "registration/invalid email without @", results.Failures[0].TestID.String())
		assert.Contains(t, results.Failures[0].Errors[0].Error(), "registration must fail: email has no @")
		assert.Equal(t, "registration/digits in first name", results.Failures[1].TestID.String())
		assert.Contains(t, results.Failures[1].Errors[0].Error(), "registration must fail: first name contains digits")

		assert.False(t, logger.outcome("registration/valid inputs").failed)
	})
}

func TestSuiteReportsTimeoutsAsErrors(t *testing.T) {
	before := browser.ActiveSessions()
	hide := func(shop *fakeStorefront) { shop.HideField = "input-password" }
	withSuite(t, hide, nil, func(results framework.Results, logger *recordingTestLogger) {
		assert.Empty(t, results.Failures)
		require.Len(t, results.Errors, len(Scenarios))
		for _, r := range results.Errors {
			assert.True(t, r.Aborted)
			require.NotEmpty(t, r.Errors)
			assert.True(t, browser.TimeoutError.Has(r.Errors[0]), r.Errors[0].Error())
		}
		assert.True(t, logger.outcome("registration/valid inputs").aborted)
	})
	assert.Equal(t, before, browser.ActiveSessions())
}

func TestSuiteFilter(t *testing.T) {
	var run framework.RegexList
	require.NoError(t, run.Set(regexp.QuoteMeta("registration/valid inputs")))
	filter := framework.RegexFilters{MustMatch: run}.AsFilter

	var opened int
	count := func(shop *fakeStorefront) {
		inner := shop.opener.New
		shop.opener.New = func() *browsertest.Driver {
			opened++
			return inner()
		}
	}
	withSuite(t, count, filter, func(results framework.Results, logger *recordingTestLogger) {
		assert.True(t, results.OK())
		assert.Equal(t, 1, opened)
		assert.Len(t, logger.skipped, 2)
		for _, id := range logger.skipped {
			assert.True(t, strings.HasPrefix(id, "registration/"))
		}
	})
}

func TestSessionLeakFailsTest(t *testing.T) {
	shop := newFakeStorefront(testConfig())
	tester := New(shop.config, shop.opener, nil)

	var leaked *browser.Session
	results := framework.Run(nil, &recordingTestLogger{}, func(c *framework.Context) {
		scope := newTestScope(c, nil, tester)
		scope.Run("leaky", func(t *T) {
			s, err := browser.Open(context.Background(), shop.opener, shop.config.Wait, t.Log())
			require.NoError(t, err)
			leaked = s
		})
	})
	require.NotNil(t, leaked)
	require.NoError(t, leaked.Close())

	require.Len(t, results.Failures, 1)
	assert.Equal(t, "leaky", results.Failures[0].TestID.String())
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "1 browser session(s) still open")
}
