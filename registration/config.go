package registration

import (
	"errors"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ibs-qa/storefront-ui-tests/browser"
)

// Config describes the storefront under test: where the registration page is, how its
// elements are found, and how long to wait for them.
type Config struct {
	BaseURL  string `yaml:"base-url"`
	Route    string `yaml:"route"`
	Language string `yaml:"language"`
	// RegisterMarker is the URL substring that means the browser is still on the registration
	// page after submitting.
	RegisterMarker string `yaml:"register-marker"`

	Fields Fields `yaml:"fields"`
	// SubmitLabel is the visible text of the submit button, in the storefront's language.
	SubmitLabel string `yaml:"submit-label"`
	// ErrorIndicators is a CSS selector matching any validation error shown on the page.
	ErrorIndicators string `yaml:"error-indicators"`
	// ScrollPixels is how far the page is scrolled down before the form is filled in.
	ScrollPixels int `yaml:"scroll-pixels"`

	Wait browser.WaitPolicy `yaml:"wait"`
}

// Fields holds the element ids of the form inputs, and the CSS selector of the terms checkbox,
// which has no id.
type Fields struct {
	FirstName  string `yaml:"first-name"`
	LastName   string `yaml:"last-name"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Newsletter string `yaml:"newsletter"`
	Agree      string `yaml:"agree"`
}

// DefaultConfig returns the configuration of the reference storefront.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://217.74.37.176",
		Route:          "account/register",
		Language:       "ru-ru",
		RegisterMarker: "register",
		Fields: Fields{
			FirstName:  "input-firstname",
			LastName:   "input-lastname",
			Email:      "input-email",
			Password:   "input-password",
			Newsletter: "input-newsletter",
			Agree:      "input[name='agree']",
		},
		SubmitLabel:     "Продолжить",
		ErrorIndicators: ".alert-danger, .text-danger, .has-error",
		ScrollPixels:    200,
		Wait:            browser.DefaultWaitPolicy(),
	}
}

// LoadConfig reads a YAML file and applies it on top of DefaultConfig. Keys missing from the
// file keep their default values; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return config, Error.New("reading config: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, Error.New("parsing config %s: %w", path, err)
	}
	return config, config.Validate()
}

// Validate checks that the configuration can drive a scenario.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return Error.New("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Error.New("base URL %q must be http or https", c.BaseURL)
	}

	var missing []string
	for name, value := range map[string]string{
		"route":             c.Route,
		"register-marker":   c.RegisterMarker,
		"fields.first-name": c.Fields.FirstName,
		"fields.last-name":  c.Fields.LastName,
		"fields.email":      c.Fields.Email,
		"fields.password":   c.Fields.Password,
		"fields.newsletter": c.Fields.Newsletter,
		"fields.agree":      c.Fields.Agree,
		"submit-label":      c.SubmitLabel,
		"error-indicators":  c.ErrorIndicators,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Error.New("missing settings: %s", strings.Join(missing, ", "))
	}
	if c.Wait.Explicit < 0 || c.Wait.PollInterval < 0 {
		return Error.New("waits must not be negative")
	}
	return nil
}

// RegisterURL is the address of the registration page.
func (c Config) RegisterURL() string {
	u := strings.TrimSuffix(c.BaseURL, "/") + "/?route=" + c.Route
	if c.Language != "" {
		u += "&language=" + c.Language
	}
	return u
}

func (c Config) firstName() browser.Locator       { return browser.ByID(c.Fields.FirstName) }
func (c Config) lastName() browser.Locator        { return browser.ByID(c.Fields.LastName) }
func (c Config) email() browser.Locator           { return browser.ByID(c.Fields.Email) }
func (c Config) password() browser.Locator        { return browser.ByID(c.Fields.Password) }
func (c Config) newsletter() browser.Locator      { return browser.ByID(c.Fields.Newsletter) }
func (c Config) agree() browser.Locator           { return browser.ByCSS(c.Fields.Agree) }
func (c Config) submit() browser.Locator          { return browser.ByButtonText(c.SubmitLabel) }
func (c Config) errorIndicators() browser.Locator { return browser.ByCSS(c.ErrorIndicators) }
