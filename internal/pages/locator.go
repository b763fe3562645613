package pages

import (
	"fmt"
	"strconv"
)

// Strategy is how a Locator's value is interpreted
type Strategy string

const (
	ByID              Strategy = "id"
	ByName            Strategy = "name"
	ByCSS             Strategy = "css selector"
	ByLinkText        Strategy = "link text"
	ByPartialLinkText Strategy = "partial link text"
	ByXPath           Strategy = "xpath"
)

// Locator identifies zero or more elements on a page.
type Locator struct {
	By    Strategy
	Value string
}

// ID locates by the id attribute
func ID(id string) Locator { return Locator{By: ByID, Value: id} }

// Name locates by the name attribute
func Name(name string) Locator { return Locator{By: ByName, Value: name} }

// CSS locates by a CSS selector
func CSS(selector string) Locator { return Locator{By: ByCSS, Value: selector} }

// LinkText locates anchors whose visible text equals text
func LinkText(text string) Locator { return Locator{By: ByLinkText, Value: text} }

// PartialLinkText locates anchors whose visible text contains text
func PartialLinkText(text string) Locator { return Locator{By: ByPartialLinkText, Value: text} }

// XPath locates by an XPath expression
func XPath(expr string) Locator { return Locator{By: ByXPath, Value: expr} }

func (l Locator) String() string {
	return fmt.Sprintf("(%s, %q)", l.By, l.Value)
}

// IsXPath reports whether the locator resolves through XPath rather than CSS
func (l Locator) IsXPath() bool {
	switch l.By {
	case ByLinkText, ByPartialLinkText, ByXPath:
		return true
	}
	return false
}

// Selector translates the locator into a CSS selector or an XPath expression,
// see IsXPath.
func (l Locator) Selector() (string, error) {
	if l.Value == "" && l.By != ByLinkText && l.By != ByPartialLinkText {
		return "", fmt.Errorf("empty locator value for strategy %q", l.By)
	}

	switch l.By {
	case ByID:
		return "[id=" + strconv.Quote(l.Value) + "]", nil
	case ByName:
		return "[name=" + strconv.Quote(l.Value) + "]", nil
	case ByCSS:
		return l.Value, nil
	case ByLinkText:
		return "//a[normalize-space(.)=" + xpathLiteral(l.Value) + "]", nil
	case ByPartialLinkText:
		return "//a[contains(normalize-space(.), " + xpathLiteral(l.Value) + ")]", nil
	case ByXPath:
		return l.Value, nil
	default:
		return "", fmt.Errorf("unknown locator strategy %q", l.By)
	}
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	hasDouble := false
	hasSingle := false
	for _, r := range s {
		switch r {
		case '"':
			hasDouble = true
		case '\'':
			hasSingle = true
		}
	}

	switch {
	case !hasDouble:
		return `"` + s + `"`
	case !hasSingle:
		return "'" + s + "'"
	}

	out := "concat("
	part := ""
	for _, r := range s {
		if r == '"' {
			if part != "" {
				out += `"` + part + `", `
				part = ""
			}
			out += `'"', `
			continue
		}
		part += string(r)
	}
	if part != "" {
		out += `"` + part + `", `
	}
	return out[:len(out)-2] + ")"
}
