package scout

import (
	"regexp"
	"strconv"
	"strings"
)

// IDAttribute is the element attribute matched by identifier-shaped
// selectors such as "delete-btn".
const IDAttribute = "data-qa"

// textPrefix marks a text-contains selector ("text=Delete").
const textPrefix = "text="

// SelectorKind tells an executor how to interpret a Selector's value.
type SelectorKind int

const (
	// Raw selectors are passed through verbatim as CSS or XPath.
	Raw SelectorKind = iota
	// TextContains selectors find elements whose text contains the value.
	TextContains
	// AttributeID selectors find elements whose IDAttribute equals the value.
	AttributeID
)

func (k SelectorKind) String() string {
	switch k {
	case TextContains:
		return "text-contains"
	case AttributeID:
		return "attribute-id"
	default:
		return "raw"
	}
}

// Selector is a classified selector string. The zero value is a Raw selector
// with an empty value.
type Selector struct {
	Kind  SelectorKind
	Value string
}

var identifierRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Resolve classifies a raw selector string. It is total: every input,
// including the empty string, maps to exactly one kind.
func Resolve(raw string) Selector {
	if strings.HasPrefix(raw, textPrefix) {
		return Selector{Kind: TextContains, Value: raw[len(textPrefix):]}
	}
	if identifierRe.MatchString(raw) {
		return Selector{Kind: AttributeID, Value: raw}
	}
	return Selector{Kind: Raw, Value: raw}
}

// SubSelector classifies a selector used inside a chain or a matcher
// argument (FilterBy, Matching, Find, elements, filtered). The "text="
// prefix is honored; everything else is CSS or XPath, so "button" means the
// tag and never a data-qa identifier.
func SubSelector(raw string) Selector {
	if strings.HasPrefix(raw, textPrefix) {
		return Selector{Kind: TextContains, Value: raw[len(textPrefix):]}
	}
	return Selector{Kind: Raw, Value: raw}
}

// String returns the selector as it was written.
func (s Selector) String() string {
	if s.Kind == TextContains {
		return textPrefix + s.Value
	}
	return s.Value
}

// IsXPath reports whether a Raw selector should be evaluated as XPath.
func (s Selector) IsXPath() bool {
	if s.Kind != Raw {
		return false
	}
	return strings.HasPrefix(s.Value, "/") ||
		strings.HasPrefix(s.Value, "./") ||
		strings.HasPrefix(s.Value, "(")
}

// CSS returns the CSS form of the selector. TextContains and XPath
// selectors have none.
func (s Selector) CSS() (string, bool) {
	switch {
	case s.Kind == AttributeID:
		return "[" + IDAttribute + "=" + strconv.Quote(s.Value) + "]", true
	case s.Kind == TextContains, s.IsXPath():
		return "", false
	default:
		return s.Value, true
	}
}
