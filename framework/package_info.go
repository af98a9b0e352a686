// Package framework contains the low-level implementation of test harness infrastructure
// that is not specific to the storefront being tested.
//
// The general model is:
//
// 1. The test harness checks that the system under test is reachable before any test runs.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Unlike *testing.T, it distinguishes assertion failures from
// errors in the test infrastructure itself (Abort).
//
// 3. Each test has its own debug logger, whose output is reported only when the test
// logger asks for it.
//
// The domain-specific code that knows what is being tested is responsible for providing
// a domain-specific test API on top of the test context.
package framework
