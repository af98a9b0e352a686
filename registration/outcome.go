package registration

import (
	"fmt"
	"strings"

	"github.com/zeebo/errs"
)

// Error is the class of registration setup errors, such as an invalid configuration.
var Error = errs.Class("registration")

// Inputs are the values a scenario types into the registration form.
type Inputs struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	// Subscribe and Agree ask for the newsletter and terms checkboxes to be checked. When false,
	// the checkbox is left as the page shows it.
	Subscribe bool
	Agree     bool
}

// Outcome is what the page looked like after the form was submitted.
//
// The storefront does not report the result of a registration in any structured way, so the
// outcome is inferred: a registration is taken to have failed if the browser stayed on the
// registration page or the page shows any error indicator.
type Outcome struct {
	URL             string
	StillOnRegister bool
	ErrorIndicators int
}

// Classify builds an Outcome from the URL shown after submitting and the number of error
// indicators on the page.
func Classify(url, registerMarker string, errorIndicators int) Outcome {
	return Outcome{
		URL:             url,
		StillOnRegister: strings.Contains(url, registerMarker),
		ErrorIndicators: errorIndicators,
	}
}

func (o Outcome) Failed() bool {
	return o.StillOnRegister || o.ErrorIndicators > 0
}

func (o Outcome) Succeeded() bool {
	return !o.Failed()
}

func (o Outcome) String() string {
	result := "succeeded"
	if o.Failed() {
		result = "failed"
	}
	return fmt.Sprintf("registration %s (url %q, still on registration page: %t, error indicators: %d)",
		result, o.URL, o.StillOnRegister, o.ErrorIndicators)
}
