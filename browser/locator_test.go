package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocatorCSS(t *testing.T) {
	css, ok := ByID("input-firstname").CSS()
	assert.True(t, ok)
	assert.Equal(t, `[id="input-firstname"]`, css)

	css, ok = ByCSS("input[name='agree']").CSS()
	assert.True(t, ok)
	assert.Equal(t, "input[name='agree']", css)

	_, ok = ByButtonText("Продолжить").CSS()
	assert.False(t, ok)
	_, ok = ByXPath("//button").CSS()
	assert.False(t, ok)
}

func TestLocatorXPath(t *testing.T) {
	assert.Equal(t, "//*[@id='input-email']", ByID("input-email").XPath())
	assert.Equal(t, "//button[text()='Продолжить']", ByButtonText("Продолжить").XPath())
	assert.Equal(t, "//input[@name='agree']", ByXPath("//input[@name='agree']").XPath())
	assert.Equal(t, "", ByCSS(".alert-danger").XPath())
}

func TestXPathLiteralQuoting(t *testing.T) {
	assert.Equal(t, `'plain'`, xpathLiteral("plain"))
	assert.Equal(t, `"it's"`, xpathLiteral("it's"))
	assert.Equal(t, `concat('say "it', "'", 's"')`, xpathLiteral(`say "it's"`))
}

func TestLocatorString(t *testing.T) {
	assert.Equal(t, `id "input-email"`, ByID("input-email").String())
	assert.Equal(t, `button text "Продолжить"`, ByButtonText("Продолжить").String())
}
