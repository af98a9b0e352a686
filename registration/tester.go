package registration

import (
	"context"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/ibs-qa/storefront-ui-tests/browser"
)

var mon = monkit.Package()

// Tester submits the registration form with given inputs and classifies the result.
type Tester struct {
	config Config
	opener browser.Opener
	log    *zap.Logger
}

// New returns a Tester for the storefront described by config. Every scenario opens its own
// browser through opener.
func New(config Config, opener browser.Opener, log *zap.Logger) *Tester {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tester{config: config, opener: opener, log: log}
}

// WithLogger returns a copy of the Tester that logs to log.
func (t *Tester) WithLogger(log *zap.Logger) *Tester {
	t2 := *t
	if log != nil {
		t2.log = log
	}
	return &t2
}

func (t *Tester) Config() Config {
	return t.config
}

// RunScenario opens a browser, fills in and submits the registration form, and reports what the
// page looked like afterwards. The browser is closed before RunScenario returns.
//
// An error means the scenario could not be carried out, for example because the browser did
// not start or an element never became visible. A rejected registration is not an error; it is
// reported by the returned Outcome.
func (t *Tester) RunScenario(ctx context.Context, in Inputs) (_ Outcome, err error) {
	defer mon.Task()(&ctx)(&err)

	session, err := browser.Open(ctx, t.opener, t.config.Wait, t.log.Named("browser"))
	if err != nil {
		return Outcome{}, err
	}
	defer func() { err = errs.Combine(err, session.Close()) }()

	if err := t.fill(ctx, session, in); err != nil {
		return Outcome{}, err
	}

	t.log.Info("submitting registration form")
	if err := session.Click(ctx, t.config.submit()); err != nil {
		return Outcome{}, err
	}

	outcome, err := t.observe(ctx, session)
	if err != nil {
		return Outcome{}, err
	}
	t.log.Info("registration outcome",
		zap.String("url", outcome.URL),
		zap.Bool("still on registration page", outcome.StillOnRegister),
		zap.Int("error indicators", outcome.ErrorIndicators),
		zap.Bool("failed", outcome.Failed()))
	return outcome, nil
}

func (t *Tester) fill(ctx context.Context, session *browser.Session, in Inputs) (err error) {
	defer mon.Task()(&ctx)(&err)

	registerURL := t.config.RegisterURL()
	t.log.Info("opening registration page", zap.String("url", registerURL))
	if err := session.Navigate(ctx, registerURL); err != nil {
		return err
	}
	// fields below the fold are not interactable until scrolled into view
	if t.config.ScrollPixels != 0 {
		if err := session.ScrollBy(ctx, 0, t.config.ScrollPixels); err != nil {
			return err
		}
	}

	for _, field := range []struct {
		loc   browser.Locator
		value string
	}{
		{t.config.firstName(), in.FirstName},
		{t.config.lastName(), in.LastName},
		{t.config.email(), in.Email},
		{t.config.password(), in.Password},
	} {
		if err := session.SetInput(ctx, field.loc, field.value); err != nil {
			return err
		}
	}

	if in.Subscribe {
		if _, err := session.SetCheckbox(ctx, t.config.newsletter(), true); err != nil {
			return err
		}
	}
	if in.Agree {
		if _, err := session.SetCheckbox(ctx, t.config.agree(), true); err != nil {
			return err
		}
	}
	return nil
}

// observe reads the signals the outcome is inferred from. WebDriver applies the implicit wait
// to the error indicator lookup, so there a page without errors takes that long to observe.
func (t *Tester) observe(ctx context.Context, session *browser.Session) (_ Outcome, err error) {
	defer mon.Task()(&ctx)(&err)

	url, err := session.CurrentURL(ctx)
	if err != nil {
		return Outcome{}, err
	}
	n, err := session.Count(ctx, t.config.errorIndicators())
	if err != nil {
		return Outcome{}, err
	}
	return Classify(url, t.config.RegisterMarker, n), nil
}
