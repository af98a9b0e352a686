// Package browser drives a web browser through a pluggable Driver.
//
// A Session owns one launched browser for the duration of a single scenario. It applies the
// implicit wait to the driver, implements explicit waits by bounded polling, and guarantees
// that the browser is shut down on Close. Backends live in the webdriver (WebDriver protocol
// via a driver executable) and cdp (DevTools protocol via a browser binary) subpackages.
package browser
