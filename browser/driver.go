package browser

import (
	"context"
	"time"
)

// Driver is one launched browser with a single page, as seen through an automation protocol.
//
// Find honors the implicit wait set with SetImplicitWait: it keeps retrying the lookup for up to
// that long before returning a NotFoundError. FindAll returns whatever matches, possibly nothing.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	MaximizeWindow(ctx context.Context) error
	SetImplicitWait(timeout time.Duration) error
	ScrollBy(ctx context.Context, dx, dy int) error
	Find(ctx context.Context, loc Locator) (Element, error)
	FindAll(ctx context.Context, loc Locator) ([]Element, error)
	// Quit shuts down the browser and any driver process that was started for it.
	Quit() error
}

// Element is a handle to an element on the current page.
type Element interface {
	Displayed() (bool, error)
	Enabled() (bool, error)
	Selected() (bool, error)
	Clear() error
	SendKeys(text string) error
	Click() error
}

// Opener launches a new browser. Each call must produce an independent Driver.
type Opener interface {
	Open(ctx context.Context) (Driver, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context) (Driver, error)

func (f OpenerFunc) Open(ctx context.Context) (Driver, error) { return f(ctx) }
