package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/spf13/pflag"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/ibs-qa/storefront-ui-tests/browser"
	"github.com/ibs-qa/storefront-ui-tests/browser/cdp"
	"github.com/ibs-qa/storefront-ui-tests/browser/webdriver"
	"github.com/ibs-qa/storefront-ui-tests/framework"
	"github.com/ibs-qa/storefront-ui-tests/registration"
)

const (
	backendWebDriver = "webdriver"
	backendCDP       = "cdp"
)

const defaultStatusQueryTimeout = time.Second * 10

type commandParams struct {
	configPath    string
	url           string
	backend       string
	browserName   string
	driverPath    string
	headless      bool
	noSandbox     bool
	explicitWait  time.Duration
	implicitWait  time.Duration
	statusTimeout time.Duration
	filters       framework.RegexFilters
	debug         bool
	debugAll      bool
	stats         bool

	fs *pflag.FlagSet
}

func (c *commandParams) Read(args []string, stderr io.Writer) bool {
	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.configPath, "config", "", "YAML file with storefront settings")
	fs.StringVar(&c.url, "url", "", "storefront base URL (overrides the config file)")
	fs.StringVar(&c.backend, "backend", backendWebDriver, "browser automation backend: webdriver or cdp")
	fs.StringVar(&c.browserName, "browser", webdriver.Edge, "browser to drive: chrome, edge or firefox")
	fs.StringVar(&c.driverPath, "driver", "", "WebDriver executable (webdriver backend) or browser binary (cdp backend)")
	fs.BoolVar(&c.headless, "headless", false, "run the browser without a window")
	fs.BoolVar(&c.noSandbox, "no-sandbox", false, "disable the browser sandbox (cdp backend)")
	fs.DurationVar(&c.explicitWait, "explicit-wait", browser.DefaultExplicitWait, "how long to wait for an element to become visible or clickable")
	fs.DurationVar(&c.implicitWait, "implicit-wait", browser.DefaultImplicitWait, "how long every element lookup keeps retrying")
	fs.DurationVar(&c.statusTimeout, "status-timeout", defaultStatusQueryTimeout, "how long to wait for the storefront to respond before starting")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run, matched against the slash-separated test path")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.stats, "stats", false, "print timing statistics after the run")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(stderr, err)
		return false
	}
	c.fs = fs

	switch c.backend {
	case backendWebDriver:
		if err := (webdriver.Config{Browser: c.browserName}).Validate(); err != nil {
			fmt.Fprintln(stderr, err)
			return false
		}
	case backendCDP:
		if c.browserName == webdriver.Firefox {
			fmt.Fprintln(stderr, "--backend cdp needs a Chromium based browser")
			return false
		}
	default:
		fmt.Fprintf(stderr, "unknown backend %q\n", c.backend)
		return false
	}
	return true
}

// Config returns the storefront configuration: defaults, then the config file, then flags
// that were given explicitly.
func (c *commandParams) Config() (registration.Config, error) {
	config := registration.DefaultConfig()
	if c.configPath != "" {
		var err error
		if config, err = registration.LoadConfig(c.configPath); err != nil {
			return config, err
		}
	}
	if c.fs.Changed("url") {
		config.BaseURL = c.url
	}
	if c.fs.Changed("explicit-wait") {
		config.Wait.Explicit = c.explicitWait
	}
	if c.fs.Changed("implicit-wait") {
		config.Wait.Implicit = c.implicitWait
	}
	return config, config.Validate()
}

// Opener returns the browser launcher for the chosen backend.
func (c *commandParams) Opener(log *zap.Logger) (browser.Opener, error) {
	switch c.backend {
	case backendWebDriver:
		return webdriver.NewOpener(webdriver.Config{
			Browser:    c.browserName,
			DriverPath: c.driverPath,
			Headless:   c.headless,
		}, log), nil
	case backendCDP:
		return cdp.NewOpener(cdp.Config{
			BrowserPath: c.driverPath,
			Headless:    c.headless,
			NoSandbox:   c.noSandbox,
		}, log), nil
	}
	return nil, errs.New("unknown backend %q", c.backend)
}

// RerunCommand returns a shell command that runs only the given tests, with the same settings
// as this run.
func (c *commandParams) RerunCommand(program string, tests []framework.TestResult) string {
	var cmd commandBuilder
	cmd.add(program)
	c.fs.Visit(func(f *pflag.Flag) {
		if f.Name == "run" || f.Name == "skip" {
			return
		}
		if f.Value.Type() == "bool" {
			cmd.add("--" + f.Name + "=" + f.Value.String())
			return
		}
		cmd.add("--"+f.Name, f.Value.String())
	})
	for _, t := range tests {
		cmd.add("--run", framework.ExactTestPattern(t.TestID))
	}
	return cmd.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
