package browser

import "github.com/zeebo/errs"

var (
	// Error is the class of all errors raised while automating the browser. These are
	// infrastructure errors: they mean the scenario could not be carried out, not that the
	// system under test misbehaved.
	Error = errs.Class("browser")

	// TimeoutError is returned when an explicit wait expires before its condition holds.
	TimeoutError = errs.Class("timeout")

	// NotFoundError is returned by drivers when no element matches a locator.
	NotFoundError = errs.Class("no such element")
)
