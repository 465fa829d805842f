package scout

// Haves builds Conditions for the built-in matchers. Use the package value
// Have: Have.ExactTexts("a", "b"), Have.No().TextCaseInsensitive("x").
type Haves struct {
	negated bool
}

// Have is the entry point for building conditions.
var Have Haves

// No returns a builder whose conditions are negated.
func (h Haves) No() Haves {
	return Haves{negated: !h.negated}
}

// Matcher builds a condition for any registered matcher, including custom ones.
func (h Haves) Matcher(name string, args ...any) Condition {
	return Condition{Name: name, Args: args, Negated: h.negated}
}

// ExactTexts expects element texts to equal texts, in order. Accepts either
// variadic values or a single slice.
func (h Haves) ExactTexts(texts ...any) Condition {
	return h.Matcher(MatchExactTexts, texts...)
}

// Texts expects element texts to contain texts, in order.
func (h Haves) Texts(texts ...any) Condition {
	return h.Matcher(MatchTexts, texts...)
}

// Elements expects at least one element to have a descendant matching sub.
func (h Haves) Elements(sub string) Condition {
	return h.Matcher(MatchElements, sub)
}

// Filtered expects at least one element to match sub itself.
func (h Haves) Filtered(sub string) Condition {
	return h.Matcher(MatchFiltered, sub)
}

// Length expects exactly n elements.
func (h Haves) Length(n int) Condition {
	return h.Matcher(MatchLength, n)
}

// TextCaseInsensitive expects the element text to contain text, ignoring case.
func (h Haves) TextCaseInsensitive(text string) Condition {
	return h.Matcher(MatchTextCaseInsensitive, text)
}

// ExactTextCaseInsensitive expects the element text to equal text, ignoring case.
func (h Haves) ExactTextCaseInsensitive(text string) Condition {
	return h.Matcher(MatchExactTextCaseInsensitive, text)
}

// Bes builds Conditions for the state matchers. Use the package value Be:
// Be.Visible(), Be.Not().Checked().
type Bes struct {
	negated bool
}

// Be is the entry point for building state conditions.
var Be Bes

// Not returns a builder whose conditions are negated.
func (b Bes) Not() Bes {
	return Bes{negated: !b.negated}
}

func (b Bes) condition(name string) Condition {
	return Condition{Name: name, Negated: b.negated, Namespace: "be"}
}

// Visible expects a non-empty collection whose elements were all rendered.
func (b Bes) Visible() Condition {
	return b.condition(MatchVisible)
}

// Checked expects a non-empty collection of checked inputs.
func (b Bes) Checked() Condition {
	return b.condition(MatchChecked)
}
