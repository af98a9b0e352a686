package registration

import (
	"strings"
	"unicode"

	"github.com/ibs-qa/storefront-ui-tests/browser"
	"github.com/ibs-qa/storefront-ui-tests/browser/browsertest"
)

// fakeStorefront is an in-memory registration page that validates the form the way the real
// storefront does: names must not contain digits, the email must contain @, the password must
// be 4 to 20 characters long, and the terms must be accepted.
type fakeStorefront struct {
	config Config

	// NewsletterChecked is the initial state of the newsletter checkbox.
	NewsletterChecked bool
	// HideField names a field that is never displayed.
	HideField string
	// SuccessURL is where an accepted registration leads.
	SuccessURL string
	// AcceptAll turns validation off.
	AcceptAll bool

	opener *browsertest.Opener
}

func newFakeStorefront(config Config) *fakeStorefront {
	f := &fakeStorefront{
		config:     config,
		SuccessURL: strings.TrimSuffix(config.BaseURL, "/") + "/?route=account/success&language=ru-ru",
	}
	f.opener = &browsertest.Opener{New: func() *browsertest.Driver {
		return &browsertest.Driver{OnNavigate: f.render}
	}}
	return f
}

func (f *fakeStorefront) render(d *browsertest.Driver, url string) {
	d.Elements = nil
	if url != f.config.RegisterURL() {
		return
	}

	input := func(id string) *browsertest.Element {
		return d.Add(&browsertest.Element{
			Locators: []browser.Locator{browser.ByID(id)},
			Hidden:   id == f.HideField,
		})
	}
	firstName := input(f.config.Fields.FirstName)
	lastName := input(f.config.Fields.LastName)
	email := input(f.config.Fields.Email)
	password := input(f.config.Fields.Password)
	d.Add(&browsertest.Element{
		Locators: []browser.Locator{browser.ByID(f.config.Fields.Newsletter)},
		Checkbox: true,
		Checked:  f.NewsletterChecked,
	})
	agree := d.Add(&browsertest.Element{
		Locators: []browser.Locator{browser.ByCSS(f.config.Fields.Agree)},
		Checkbox: true,
	})

	submit := d.Add(&browsertest.Element{
		Locators: []browser.Locator{browser.ByButtonText(f.config.SubmitLabel)},
	})
	submit.OnClick = func() {
		valid := !hasDigit(firstName.Value) && firstName.Value != "" &&
			!hasDigit(lastName.Value) && lastName.Value != "" &&
			strings.Contains(email.Value, "@") &&
			len([]rune(password.Value)) >= 4 && len([]rune(password.Value)) <= 20 &&
			agree.Checked
		if valid || f.AcceptAll {
			d.URL = f.SuccessURL
			return
		}
		d.Add(&browsertest.Element{
			Locators: []browser.Locator{browser.ByCSS(f.config.ErrorIndicators)},
		})
	}
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// page returns the page of the i'th browser opened on the storefront.
func (f *fakeStorefront) page(i int) *browsertest.Driver {
	return f.opener.Drivers()[i]
}
