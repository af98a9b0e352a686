package registration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ibs-qa/storefront-ui-tests/browser"
	"github.com/ibs-qa/storefront-ui-tests/browser/browsertest"
)

func testConfig() Config {
	config := DefaultConfig()
	config.BaseURL = "http://shop.test"
	config.Wait = browser.WaitPolicy{
		Explicit:     200 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	}
	return config
}

func scenario(name string) Scenario {
	for _, s := range Scenarios {
		if s.Name == name {
			return s
		}
	}
	panic("no scenario " + name)
}

func TestScenarioOutcomes(t *testing.T) {
	for _, s := range Scenarios {
		t.Run(s.Name, func(t *testing.T) {
			before := browser.ActiveSessions()
			shop := newFakeStorefront(testConfig())
			tester := New(shop.config, shop.opener, zaptest.NewLogger(t))

			outcome, err := tester.RunScenario(context.Background(), s.Inputs)
			require.NoError(t, err)
			assert.Equal(t, s.ExpectFailure, outcome.Failed(), "%s: %s", s.Message, outcome)

			assert.Equal(t, before, browser.ActiveSessions())
			require.Len(t, shop.opener.Drivers(), 1)
			assert.Equal(t, 1, shop.page(0).Quits)
		})
	}
}

func TestInvalidEmailLeavesUserOnRegistrationPage(t *testing.T) {
	shop := newFakeStorefront(testConfig())
	tester := New(shop.config, shop.opener, zaptest.NewLogger(t))

	outcome, err := tester.RunScenario(context.Background(), scenario("invalid email without @").Inputs)
	require.NoError(t, err)
	assert.True(t, outcome.StillOnRegister)
	assert.Equal(t, 1, outcome.ErrorIndicators)
	assert.Equal(t, shop.config.RegisterURL(), outcome.URL)
}

func TestValidInputsLeaveRegistrationPage(t *testing.T) {
	shop := newFakeStorefront(testConfig())
	tester := New(shop.config, shop.opener, zaptest.NewLogger(t))

	outcome, err := tester.RunScenario(context.Background(), scenario("valid inputs").Inputs)
	require.NoError(t, err)
	assert.False(t, outcome.StillOnRegister)
	assert.Zero(t, outcome.ErrorIndicators)
	assert.Equal(t, shop.SuccessURL, outcome.URL)
}

func TestScenarioFillsFormAndScrolls(t *testing.T) {
	shop := newFakeStorefront(testConfig())
	tester := New(shop.config, shop.opener, zaptest.NewLogger(t))
	in := scenario("digits in first name").Inputs

	_, err := tester.RunScenario(context.Background(), in)
	require.NoError(t, err)

	page := shop.page(0)
	assert.True(t, page.Maximized)
	assert.Equal(t, 200, page.ScrollY)
	assert.Equal(t, in.FirstName, page.Element(browser.ByID("input-firstname")).Value)
	assert.Equal(t, in.LastName, page.Element(browser.ByID("input-lastname")).Value)
	assert.Equal(t, in.Email, page.Element(browser.ByID("input-email")).Value)
	assert.Equal(t, in.Password, page.Element(browser.ByID("input-password")).Value)
	assert.True(t, page.Element(browser.ByID("input-newsletter")).Checked)
	assert.True(t, page.Element(browser.ByCSS("input[name='agree']")).Checked)
}

func TestAlreadyCheckedCheckboxIsNotClicked(t *testing.T) {
	shop := newFakeStorefront(testConfig())
	shop.NewsletterChecked = true
	tester := New(shop.config, shop.opener, zaptest.NewLogger(t))

	outcome, err := tester.RunScenario(context.Background(), scenario("valid inputs").Inputs)
	require.NoError(t, err)
	assert.False(t, outcome.Failed())

	page := shop.page(0)
	newsletter := page.Element(browser.ByID("input-newsletter"))
	assert.Zero(t, newsletter.Clicks)
	assert.True(t, newsletter.Checked)
	assert.Equal(t, 1, page.Element(browser.ByCSS("input[name='agree']")).Clicks)
}

func TestUncheckedInputsLeaveCheckboxesAlone(t *testing.T) {
	shop := newFakeStorefront(testConfig())
	tester := New(shop.config, shop.opener, zaptest.NewLogger(t))
	in := scenario("valid inputs").Inputs
	in.Subscribe = false
	in.Agree = false

	outcome, err := tester.RunScenario(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, outcome.Failed(), "terms were not accepted: %s", outcome)
	assert.Zero(t, shop.page(0).Element(browser.ByID("input-newsletter")).Clicks)
	assert.Zero(t, shop.page(0).Element(browser.ByCSS("input[name='agree']")).Clicks)
}

func TestFieldThatNeverAppearsTimesOut(t *testing.T) {
	before := browser.ActiveSessions()
	shop := newFakeStorefront(testConfig())
	shop.HideField = "input-email"
	tester := New(shop.config, shop.opener, zaptest.NewLogger(t))

	start := time.Now()
	_, err := tester.RunScenario(context.Background(), scenario("valid inputs").Inputs)
	require.Error(t, err)
	assert.True(t, browser.TimeoutError.Has(err))
	assert.Contains(t, err.Error(), `"input-email"`)
	assert.GreaterOrEqual(t, time.Since(start), shop.config.Wait.Explicit)

	assert.Equal(t, before, browser.ActiveSessions())
	assert.Equal(t, 1, shop.page(0).Quits)
	assert.Equal(t, 0, shop.page(0).Element(browser.ByButtonText("Продолжить")).Clicks)
}

func TestBrowserLaunchFailure(t *testing.T) {
	before := browser.ActiveSessions()
	opener := &browsertest.Opener{Err: errors.New("msedgedriver: executable file not found")}
	tester := New(testConfig(), opener, zaptest.NewLogger(t))

	_, err := tester.RunScenario(context.Background(), scenario("valid inputs").Inputs)
	require.Error(t, err)
	assert.True(t, browser.Error.Has(err))
	assert.False(t, browser.TimeoutError.Has(err))
	assert.Equal(t, before, browser.ActiveSessions())
}

func TestCloseErrorIsReported(t *testing.T) {
	shop := newFakeStorefront(testConfig())
	shop.opener.New = func() *browsertest.Driver {
		return &browsertest.Driver{OnNavigate: shop.render, QuitErr: errors.New("browser already gone")}
	}
	tester := New(shop.config, shop.opener, zaptest.NewLogger(t))

	_, err := tester.RunScenario(context.Background(), scenario("valid inputs").Inputs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browser already gone")
}
