// Package registration drives the storefront's account registration form and decides whether a
// submission was accepted.
//
// Tester runs one scenario in its own browser session. RunTestSuite runs the registration
// scenarios under the framework package's test runner, which reports registration outcomes that
// differ from the expected ones as failures and browser trouble as errors.
package registration
