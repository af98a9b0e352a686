// Package cdp drives a Chromium based browser over the DevTools protocol, without a separate
// WebDriver executable.
package cdp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/rod/lib/utils"
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/ibs-qa/storefront-ui-tests/browser"
)

var mon = monkit.Package()

// Error is the class of errors returned by the DevTools backend.
var Error = errs.Class("cdp")

// Viewport used when a headless browser has no window to maximize.
const (
	HeadlessWidth  = 1920
	HeadlessHeight = 1080
)

// Config says how to launch the browser.
type Config struct {
	// BrowserPath is the browser binary. When empty, rod looks for an installed Chromium and
	// downloads one if there is none.
	BrowserPath string        `yaml:"binary"`
	Headless    bool          `yaml:"headless"`
	NoSandbox   bool          `yaml:"no-sandbox"`
	SlowMotion  time.Duration `yaml:"slow-motion"`
	// Trace logs every protocol action.
	Trace bool `yaml:"trace"`
}

// Opener launches a new browser process for every session.
type Opener struct {
	config Config
	log    *zap.Logger
}

func NewOpener(config Config, log *zap.Logger) *Opener {
	if log == nil {
		log = zap.NewNop()
	}
	return &Opener{config: config, log: log}
}

// Open launches the browser and opens a blank page in it.
func (o *Opener) Open(ctx context.Context) (_ browser.Driver, err error) {
	defer mon.Task()(&ctx)(&err)

	launch := launcher.New().
		Context(ctx).
		Headless(o.config.Headless).
		Leakless(false).
		NoSandbox(o.config.NoSandbox).
		Logger(browser.LogWriter(o.log.Named("launcher")))
	if o.config.BrowserPath != "" {
		launch = launch.Bin(o.config.BrowserPath)
	}

	controlURL, err := launch.Launch()
	if err != nil {
		// Cleanup waits for the browser process to exit, and there is none.
		_ = os.RemoveAll(launch.Get(flags.UserDataDir))
		return nil, Error.New("launching browser: %w", err)
	}

	logRod := o.log.Named("rod")
	b := rod.New().
		ControlURL(controlURL).
		Context(ctx).
		Trace(o.config.Trace).
		SlowMotion(o.config.SlowMotion).
		Logger(utils.Log(func(msg ...interface{}) {
			logRod.Info(fmt.Sprintln(msg...))
		}))

	d := &driver{launch: launch, browser: b, headless: o.config.Headless}
	if err := b.Connect(); err != nil {
		d.kill()
		return nil, Error.New("connecting to browser: %w", err)
	}
	d.page, err = b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, errs.Combine(Error.New("opening page: %w", err), d.Quit())
	}
	return d, nil
}

type driver struct {
	launch   *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	headless bool
	implicit time.Duration
}

func (d *driver) Navigate(ctx context.Context, url string) error {
	page := d.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return Error.Wrap(err)
	}
	return Error.Wrap(page.WaitLoad())
}

func (d *driver) CurrentURL(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", Error.Wrap(err)
	}
	return info.URL, nil
}

func (d *driver) MaximizeWindow(ctx context.Context) error {
	page := d.page.Context(ctx)
	if d.headless {
		return Error.Wrap(page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:  HeadlessWidth,
			Height: HeadlessHeight,
		}))
	}
	return Error.Wrap(page.SetWindow(&proto.BrowserBounds{
		WindowState: proto.BrowserWindowStateMaximized,
	}))
}

// SetImplicitWait sets how long Find keeps looking for an element that is not there yet.
func (d *driver) SetImplicitWait(timeout time.Duration) error {
	d.implicit = timeout
	return nil
}

func (d *driver) ScrollBy(ctx context.Context, dx, dy int) error {
	return Error.Wrap(d.page.Context(ctx).Mouse.Scroll(float64(dx), float64(dy), 1))
}

func (d *driver) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	page := d.page.Context(ctx)

	if d.implicit <= 0 {
		var has bool
		var el *rod.Element
		var err error
		if css, ok := loc.CSS(); ok {
			has, el, err = page.Has(css)
		} else {
			has, el, err = page.HasX(loc.XPath())
		}
		if err != nil {
			return nil, Error.New("looking up %s: %w", loc, err)
		}
		if !has {
			return nil, browser.NotFoundError.New("%s", loc)
		}
		return element{el}, nil
	}

	limitedCtx, cancel := context.WithTimeout(ctx, d.implicit)
	defer cancel()

	var el *rod.Element
	var err error
	limited := d.page.Context(limitedCtx)
	if css, ok := loc.CSS(); ok {
		el, err = limited.Element(css)
	} else {
		el, err = limited.ElementX(loc.XPath())
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, browser.NotFoundError.New("%s", loc)
		}
		return nil, Error.New("looking up %s: %w", loc, err)
	}
	return element{el.Context(ctx)}, nil
}

// FindAll does not wait for elements to appear.
func (d *driver) FindAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	page := d.page.Context(ctx)

	var found rod.Elements
	var err error
	if css, ok := loc.CSS(); ok {
		found, err = page.Elements(css)
	} else {
		found, err = page.ElementsX(loc.XPath())
	}
	if err != nil {
		return nil, Error.New("looking up %s: %w", loc, err)
	}
	els := make([]browser.Element, len(found))
	for i, el := range found {
		els[i] = element{el}
	}
	return els, nil
}

func (d *driver) Quit() error {
	err := d.browser.Close()
	d.kill()
	return Error.Wrap(err)
}

func (d *driver) kill() {
	d.launch.Kill()
	d.launch.Cleanup()
}

type element struct {
	el *rod.Element
}

func (e element) Displayed() (bool, error) {
	ok, err := e.el.Visible()
	return ok, Error.Wrap(err)
}

func (e element) Enabled() (bool, error) {
	disabled, err := e.el.Property("disabled")
	if err != nil {
		return false, Error.Wrap(err)
	}
	return !disabled.Bool(), nil
}

func (e element) Selected() (bool, error) {
	checked, err := e.el.Property("checked")
	if err != nil {
		return false, Error.Wrap(err)
	}
	return checked.Bool(), nil
}

func (e element) Clear() error {
	_, err := e.el.Eval(`() => {
		this.value = '';
		this.dispatchEvent(new Event('input', { bubbles: true }));
	}`)
	return Error.Wrap(err)
}

func (e element) SendKeys(text string) error {
	return Error.Wrap(e.el.Input(text))
}

func (e element) Click() error {
	return Error.Wrap(e.el.Click(proto.InputMouseButtonLeft, 1))
}
