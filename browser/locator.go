package browser

import (
	"strconv"
	"strings"
)

// LocatorKind says how a Locator's value identifies an element.
type LocatorKind int

const (
	LocatorID LocatorKind = iota
	LocatorCSS
	LocatorXPath
	LocatorButtonText
)

func (k LocatorKind) String() string {
	switch k {
	case LocatorID:
		return "id"
	case LocatorCSS:
		return "css"
	case LocatorXPath:
		return "xpath"
	case LocatorButtonText:
		return "button text"
	}
	return "unknown"
}

// Locator is a rule identifying an element on the page.
type Locator struct {
	Kind  LocatorKind
	Value string
}

func ByID(id string) Locator            { return Locator{Kind: LocatorID, Value: id} }
func ByCSS(selector string) Locator     { return Locator{Kind: LocatorCSS, Value: selector} }
func ByXPath(expression string) Locator { return Locator{Kind: LocatorXPath, Value: expression} }
func ByButtonText(label string) Locator { return Locator{Kind: LocatorButtonText, Value: label} }

func (l Locator) String() string {
	return l.Kind.String() + " " + strconv.Quote(l.Value)
}

// CSS returns an equivalent CSS selector, if there is one.
func (l Locator) CSS() (string, bool) {
	switch l.Kind {
	case LocatorID:
		return "[id=" + strconv.Quote(l.Value) + "]", true
	case LocatorCSS:
		return l.Value, true
	}
	return "", false
}

// XPath returns an equivalent XPath expression. Every kind has one.
func (l Locator) XPath() string {
	switch l.Kind {
	case LocatorID:
		return "//*[@id=" + xpathLiteral(l.Value) + "]"
	case LocatorButtonText:
		return "//button[text()=" + xpathLiteral(l.Value) + "]"
	case LocatorCSS:
		// not expressible in general; drivers use CSS() for this kind
		return ""
	}
	return l.Value
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape sequences, so a
// value containing both kinds of quote has to be assembled with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, 2*len(parts)-1)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
