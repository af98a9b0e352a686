package browser

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/wait"
)

var mon = monkit.Package()

var activeSessions atomic.Int64

// ActiveSessions returns the number of sessions that have been opened and not yet closed.
func ActiveSessions() int64 {
	return activeSessions.Load()
}

// Session is an exclusively owned browser, configured with a wait policy.
type Session struct {
	driver Driver
	policy WaitPolicy
	log    *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// Open launches a browser, maximizes its window and applies the implicit wait. The caller must
// Close the session; if Open fails, nothing is left running.
func Open(ctx context.Context, opener Opener, policy WaitPolicy, log *zap.Logger) (_ *Session, err error) {
	defer mon.Task()(&ctx)(&err)

	if log == nil {
		log = zap.NewNop()
	}
	policy = policy.withDefaults()

	driver, err := opener.Open(ctx)
	if err != nil {
		return nil, Error.New("launching browser: %w", err)
	}
	activeSessions.Add(1)

	s := &Session{
		driver: driver,
		policy: policy,
		log:    log,
	}
	log.Debug("browser launched",
		zap.Duration("implicit wait", policy.Implicit),
		zap.Duration("explicit wait", policy.Explicit))

	if err := driver.MaximizeWindow(ctx); err != nil {
		return nil, errs.Combine(Error.New("maximizing window: %w", err), s.Close())
	}
	if err := driver.SetImplicitWait(policy.Implicit); err != nil {
		return nil, errs.Combine(Error.New("setting implicit wait: %w", err), s.Close())
	}
	return s, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = Error.Wrap(s.driver.Quit())
		activeSessions.Add(-1)
		if s.closeErr != nil {
			s.log.Warn("browser did not shut down cleanly", zap.Error(s.closeErr))
		} else {
			s.log.Debug("browser closed")
		}
	})
	return s.closeErr
}

func (s *Session) Policy() WaitPolicy {
	return s.policy
}

func (s *Session) Navigate(ctx context.Context, url string) (err error) {
	defer mon.Task()(&ctx)(&err)
	s.log.Debug("navigating", zap.String("url", url))
	if err := s.driver.Navigate(ctx, url); err != nil {
		return Error.New("navigating to %s: %w", url, err)
	}
	return nil
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	url, err := s.driver.CurrentURL(ctx)
	if err != nil {
		return "", Error.New("reading current URL: %w", err)
	}
	return url, nil
}

// ScrollBy scrolls the page by the given offset in pixels.
func (s *Session) ScrollBy(ctx context.Context, dx, dy int) error {
	s.log.Debug("scrolling", zap.Int("dx", dx), zap.Int("dy", dy))
	if err := s.driver.ScrollBy(ctx, dx, dy); err != nil {
		return Error.New("scrolling by (%d, %d): %w", dx, dy, err)
	}
	return nil
}

// WaitVisible waits until the first element matching loc is displayed.
func (s *Session) WaitVisible(ctx context.Context, loc Locator) (_ Element, err error) {
	defer mon.Task()(&ctx)(&err)
	return s.waitFor(ctx, loc, "visible", func(el Element) (bool, error) {
		return el.Displayed()
	})
}

// WaitClickable waits until the first element matching loc is displayed and enabled.
func (s *Session) WaitClickable(ctx context.Context, loc Locator) (_ Element, err error) {
	defer mon.Task()(&ctx)(&err)
	return s.waitFor(ctx, loc, "clickable", func(el Element) (bool, error) {
		displayed, err := el.Displayed()
		if err != nil || !displayed {
			return false, err
		}
		return el.Enabled()
	})
}

// waitFor polls until check accepts the element found by loc or the explicit wait expires.
// Lookup and check errors do not end the wait; an element that is not there yet or went stale
// between polls is the normal case while a page is loading. The last such error is reported
// if the wait times out.
func (s *Session) waitFor(ctx context.Context, loc Locator, condition string, check func(Element) (bool, error)) (Element, error) {
	var found Element
	var lastErr error
	err := wait.PollUntilContextTimeout(ctx, s.policy.PollInterval, s.policy.Explicit, true,
		func(ctx context.Context) (bool, error) {
			el, err := s.driver.Find(ctx, loc)
			if err != nil {
				lastErr = err
				return false, nil
			}
			ok, err := check(el)
			if err != nil {
				lastErr = err
				return false, nil
			}
			lastErr = nil
			if ok {
				found = el
			}
			return ok, nil
		})
	if err != nil {
		if ctx.Err() != nil {
			return nil, Error.Wrap(ctx.Err())
		}
		if wait.Interrupted(err) {
			if lastErr != nil {
				return nil, TimeoutError.New("%s was not %s within %s (last error: %v)", loc, condition, s.policy.Explicit, lastErr)
			}
			return nil, TimeoutError.New("%s was not %s within %s", loc, condition, s.policy.Explicit)
		}
		return nil, Error.Wrap(err)
	}
	return found, nil
}

// SetInput waits for the field to be visible, clears it and types value into it.
func (s *Session) SetInput(ctx context.Context, loc Locator, value string) (err error) {
	defer mon.Task()(&ctx)(&err)
	el, err := s.WaitVisible(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Clear(); err != nil {
		return Error.New("clearing %s: %w", loc, err)
	}
	if err := el.SendKeys(value); err != nil {
		return Error.New("typing into %s: %w", loc, err)
	}
	s.log.Debug("field set", zap.Stringer("locator", loc), zap.String("value", value))
	return nil
}

// SetCheckbox waits for the checkbox to be clickable and clicks it only if its checked state
// differs from checked. It reports whether a click was made.
func (s *Session) SetCheckbox(ctx context.Context, loc Locator, checked bool) (clicked bool, err error) {
	defer mon.Task()(&ctx)(&err)
	el, err := s.WaitClickable(ctx, loc)
	if err != nil {
		return false, err
	}
	current, err := el.Selected()
	if err != nil {
		return false, Error.New("reading state of %s: %w", loc, err)
	}
	action := CheckboxAction(current, checked)
	s.log.Debug("checkbox",
		zap.Stringer("locator", loc),
		zap.Bool("checked", current),
		zap.Bool("desired", checked),
		zap.Stringer("action", action))
	if action == ActionNone {
		return false, nil
	}
	if err := el.Click(); err != nil {
		return false, Error.New("clicking %s: %w", loc, err)
	}
	return true, nil
}

// Click waits for the element to be clickable and clicks it.
func (s *Session) Click(ctx context.Context, loc Locator) (err error) {
	defer mon.Task()(&ctx)(&err)
	el, err := s.WaitClickable(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Click(); err != nil {
		return Error.New("clicking %s: %w", loc, err)
	}
	s.log.Debug("clicked", zap.Stringer("locator", loc))
	return nil
}

// Count returns the number of elements currently matching loc.
func (s *Session) Count(ctx context.Context, loc Locator) (int, error) {
	els, err := s.driver.FindAll(ctx, loc)
	if err != nil {
		return 0, Error.New("looking up %s: %w", loc, err)
	}
	return len(els), nil
}
