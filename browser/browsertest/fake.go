// Package browsertest provides an in-memory browser.Driver for testing code that drives pages,
// without launching a browser.
package browsertest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ibs-qa/storefront-ui-tests/browser"
)

// Element is a fake page element. It matches every locator in Locators.
type Element struct {
	Locators []browser.Locator

	Value    string
	Checkbox bool
	Checked  bool
	Hidden   bool
	Disabled bool

	// Clicks counts calls to Click.
	Clicks int
	// OnClick runs after a click has been applied.
	OnClick func()
	// Err, if set, is returned by every method, as a detached element would.
	Err error
}

func (e *Element) matches(loc browser.Locator) bool {
	for _, l := range e.Locators {
		if l == loc {
			return true
		}
	}
	return false
}

func (e *Element) Displayed() (bool, error) { return !e.Hidden, e.Err }
func (e *Element) Enabled() (bool, error)   { return !e.Disabled, e.Err }
func (e *Element) Selected() (bool, error)  { return e.Checked, e.Err }

func (e *Element) Clear() error {
	if e.Err != nil {
		return e.Err
	}
	e.Value = ""
	return nil
}

func (e *Element) SendKeys(text string) error {
	if e.Err != nil {
		return e.Err
	}
	e.Value += text
	return nil
}

func (e *Element) Click() error {
	if e.Err != nil {
		return e.Err
	}
	e.Clicks++
	if e.Checkbox {
		e.Checked = !e.Checked
	}
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

// Driver is a fake browser showing a single page made of Elements.
type Driver struct {
	Elements []*Element
	URL      string

	Maximized    bool
	ImplicitWait time.Duration
	ScrollX      int
	ScrollY      int
	Quits        int

	// OnNavigate, if set, replaces the page contents when Navigate is called.
	OnNavigate func(d *Driver, url string)
	// MaximizeErr and QuitErr are returned by the corresponding methods.
	MaximizeErr error
	QuitErr     error
}

var errQuit = errors.New("browser has quit")

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if d.Quits > 0 {
		return errQuit
	}
	d.URL = url
	if d.OnNavigate != nil {
		d.OnNavigate(d, url)
	}
	return nil
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	if d.Quits > 0 {
		return "", errQuit
	}
	return d.URL, nil
}

func (d *Driver) MaximizeWindow(ctx context.Context) error {
	if d.MaximizeErr != nil {
		return d.MaximizeErr
	}
	d.Maximized = true
	return nil
}

func (d *Driver) SetImplicitWait(timeout time.Duration) error {
	d.ImplicitWait = timeout
	return nil
}

func (d *Driver) ScrollBy(ctx context.Context, dx, dy int) error {
	d.ScrollX += dx
	d.ScrollY += dy
	return nil
}

// Find does not wait: a fake page never changes by itself.
func (d *Driver) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	for _, e := range d.Elements {
		if e.matches(loc) {
			return e, nil
		}
	}
	return nil, browser.NotFoundError.New("%s", loc)
}

func (d *Driver) FindAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	var found []browser.Element
	for _, e := range d.Elements {
		if e.matches(loc) {
			found = append(found, e)
		}
	}
	return found, nil
}

func (d *Driver) Quit() error {
	d.Quits++
	return d.QuitErr
}

// Add appends an element to the page and returns it.
func (d *Driver) Add(e *Element) *Element {
	d.Elements = append(d.Elements, e)
	return e
}

// Element returns the first element matching loc, or nil.
func (d *Driver) Element(loc browser.Locator) *Element {
	for _, e := range d.Elements {
		if e.matches(loc) {
			return e
		}
	}
	return nil
}

// Opener hands out a new Driver built by New on every Open, and remembers them.
type Opener struct {
	New func() *Driver
	Err error

	mu      sync.Mutex
	drivers []*Driver
}

func (o *Opener) Open(ctx context.Context) (browser.Driver, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	d := &Driver{}
	if o.New != nil {
		d = o.New()
	}
	o.mu.Lock()
	o.drivers = append(o.drivers, d)
	o.mu.Unlock()
	return d, nil
}

// Drivers returns every Driver opened so far.
func (o *Opener) Drivers() []*Driver {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*Driver(nil), o.drivers...)
}
