// Package webdriver drives Chrome, Edge or Firefox through a locally started WebDriver
// executable (chromedriver, msedgedriver or geckodriver).
package webdriver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/ibs-qa/storefront-ui-tests/browser"
)

var mon = monkit.Package()

// Error is the class of errors returned by the WebDriver backend.
var Error = errs.Class("webdriver")

// Browser names accepted in Config.Browser.
const (
	Chrome  = "chrome"
	Edge    = "edge"
	Firefox = "firefox"
)

// Config says which browser to launch and how.
type Config struct {
	Browser string `yaml:"browser"`
	// DriverPath is the WebDriver executable. When empty, a name matching Browser is
	// looked up on PATH.
	DriverPath string `yaml:"driver"`
	// BrowserPath overrides the browser binary the driver starts.
	BrowserPath string   `yaml:"binary"`
	Headless    bool     `yaml:"headless"`
	Args        []string `yaml:"args"`
}

func (c Config) driverPath() string {
	if c.DriverPath != "" {
		return c.DriverPath
	}
	switch c.Browser {
	case Edge:
		return "msedgedriver"
	case Firefox:
		return "geckodriver"
	}
	return "chromedriver"
}

// Validate checks that Browser names a supported browser.
func (c Config) Validate() error {
	switch c.Browser {
	case Chrome, Edge, Firefox:
		return nil
	}
	return Error.New("unsupported browser %q (want %s, %s or %s)", c.Browser, Chrome, Edge, Firefox)
}

// capabilities builds the session capabilities for the configured browser.
func (c Config) capabilities() selenium.Capabilities {
	args := append([]string(nil), c.Args...)
	if c.Headless {
		args = append(args, "--headless")
	}

	switch c.Browser {
	case Firefox:
		caps := selenium.Capabilities{"browserName": "firefox"}
		caps.AddFirefox(firefox.Capabilities{
			Binary: c.BrowserPath,
			Args:   args,
		})
		return caps
	case Edge:
		options := map[string]interface{}{"args": args}
		if c.BrowserPath != "" {
			options["binary"] = c.BrowserPath
		}
		return selenium.Capabilities{
			"browserName":    "MicrosoftEdge",
			"ms:edgeOptions": options,
		}
	}
	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{
		Path: c.BrowserPath,
		Args: args,
	})
	return caps
}

// Opener starts a new driver service and browser for every session.
type Opener struct {
	config Config
	log    *zap.Logger
}

// NewOpener returns an Opener for config. Driver and service output goes to log.
func NewOpener(config Config, log *zap.Logger) *Opener {
	if log == nil {
		log = zap.NewNop()
	}
	return &Opener{config: config, log: log}
}

// Open starts the WebDriver executable on a free local port and creates a browser session on it.
func (o *Opener) Open(ctx context.Context) (_ browser.Driver, err error) {
	defer mon.Task()(&ctx)(&err)

	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	port, err := freePort()
	if err != nil {
		return nil, Error.New("finding a free port: %w", err)
	}

	path := o.config.driverPath()
	output := selenium.Output(browser.LogWriter(o.log.Named("service")))

	var service *selenium.Service
	var prefix string
	switch o.config.Browser {
	case Firefox:
		service, err = selenium.NewGeckoDriverService(path, port, output)
		prefix = fmt.Sprintf("http://localhost:%d", port)
	default:
		// msedgedriver is a chromedriver build and takes the same flags
		service, err = selenium.NewChromeDriverService(path, port, output)
		prefix = fmt.Sprintf("http://localhost:%d/wd/hub", port)
	}
	if err != nil {
		return nil, Error.New("starting %s: %w", path, err)
	}

	o.log.Debug("driver service started", zap.String("driver", path), zap.Int("port", port))

	wd, err := selenium.NewRemote(o.config.capabilities(), prefix)
	if err != nil {
		return nil, errs.Combine(Error.New("creating %s session: %w", o.config.Browser, err), service.Stop())
	}
	return &driver{wd: wd, service: service}, nil
}

func freePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	port := listener.Addr().(*net.TCPAddr).Port
	return port, listener.Close()
}

type driver struct {
	wd      selenium.WebDriver
	service *selenium.Service
}

func (d *driver) Navigate(ctx context.Context, url string) error {
	return Error.Wrap(d.wd.Get(url))
}

func (d *driver) CurrentURL(ctx context.Context) (string, error) {
	url, err := d.wd.CurrentURL()
	return url, Error.Wrap(err)
}

func (d *driver) MaximizeWindow(ctx context.Context) error {
	return Error.Wrap(d.wd.MaximizeWindow(""))
}

func (d *driver) SetImplicitWait(timeout time.Duration) error {
	return Error.Wrap(d.wd.SetImplicitWaitTimeout(timeout))
}

func (d *driver) ScrollBy(ctx context.Context, dx, dy int) error {
	_, err := d.wd.ExecuteScript("window.scrollBy(arguments[0], arguments[1]);", []interface{}{dx, dy})
	return Error.Wrap(err)
}

func (d *driver) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	by, value := selector(loc)
	el, err := d.wd.FindElement(by, value)
	if err != nil {
		return nil, lookupError(loc, err)
	}
	return element{el}, nil
}

func (d *driver) FindAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	by, value := selector(loc)
	found, err := d.wd.FindElements(by, value)
	if err != nil {
		if isNoSuchElement(err) {
			return nil, nil
		}
		return nil, Error.Wrap(err)
	}
	els := make([]browser.Element, len(found))
	for i, el := range found {
		els[i] = element{el}
	}
	return els, nil
}

func (d *driver) Quit() error {
	return errs.Combine(Error.Wrap(d.wd.Quit()), Error.Wrap(d.service.Stop()))
}

// selector maps a locator onto a WebDriver location strategy.
func selector(loc browser.Locator) (by, value string) {
	switch loc.Kind {
	case browser.LocatorID:
		return selenium.ByID, loc.Value
	case browser.LocatorCSS:
		return selenium.ByCSSSelector, loc.Value
	}
	return selenium.ByXPATH, loc.XPath()
}

func isNoSuchElement(err error) bool {
	var serr *selenium.Error
	if errors.As(err, &serr) {
		return serr.Err == "no such element"
	}
	// legacy JSON wire protocol drivers only report the message
	return strings.Contains(err.Error(), "no such element")
}

func lookupError(loc browser.Locator, err error) error {
	if isNoSuchElement(err) {
		return browser.NotFoundError.New("%s", loc)
	}
	return Error.New("looking up %s: %w", loc, err)
}

type element struct {
	el selenium.WebElement
}

func (e element) Displayed() (bool, error) {
	ok, err := e.el.IsDisplayed()
	return ok, Error.Wrap(err)
}

func (e element) Enabled() (bool, error) {
	ok, err := e.el.IsEnabled()
	return ok, Error.Wrap(err)
}

func (e element) Selected() (bool, error) {
	ok, err := e.el.IsSelected()
	return ok, Error.Wrap(err)
}

func (e element) Clear() error              { return Error.Wrap(e.el.Clear()) }
func (e element) SendKeys(text string) error { return Error.Wrap(e.el.SendKeys(text)) }
func (e element) Click() error              { return Error.Wrap(e.el.Click()) }
