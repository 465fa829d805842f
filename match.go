package scout

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Built-in matcher names.
const (
	MatchExactTexts               = "exactTexts"
	MatchTexts                    = "texts"
	MatchElements                 = "elements"
	MatchFiltered                 = "filtered"
	MatchLength                   = "length"
	MatchTextCaseInsensitive      = "textCaseInsensitive"
	MatchExactTextCaseInsensitive = "exactTextCaseInsensitive"
	MatchVisible                  = "visible"
	MatchChecked                  = "checked"
)

var checkedSelector = Selector{Kind: Raw, Value: ":checked"}

func registerBuiltins(r *Registry) {
	r.Register(Definition{
		MatcherName: MatchExactTexts,
		Check:       checkExactTexts,
		Messages:    collectionMessages("exact texts", "texts", quote),
	})
	r.Register(Definition{
		MatcherName: MatchTexts,
		Check:       checkTexts,
		Messages:    collectionMessages("texts", "texts", quote),
	})
	r.Register(Definition{
		MatcherName: MatchElements,
		Check: func(subj Subject, args []any) (bool, string, string) {
			sel := selectorArg(MatchElements, args)
			n := subj.Collection.CountHas(sel)
			return n > 0, sel.String(), strconv.Itoa(n)
		},
		Messages: countMessages("element found by", "elements found by", "found elements length"),
	})
	r.Register(Definition{
		MatcherName: MatchFiltered,
		Check: func(subj Subject, args []any) (bool, string, string) {
			sel := selectorArg(MatchFiltered, args)
			n := subj.Collection.CountIs(sel)
			return n > 0, sel.String(), strconv.Itoa(n)
		},
		Messages: countMessages("matched element by", "matched elements by", "matched elements length"),
	})
	r.Register(Definition{
		MatcherName: MatchLength,
		Check: func(subj Subject, args []any) (bool, string, string) {
			want := intArg(MatchLength, args)
			got := subj.Collection.Len()
			return got == want, strconv.Itoa(want), strconv.Itoa(got)
		},
		Messages: collectionMessages("length", "length", bare),
	})
	r.Register(Definition{
		MatcherName: MatchTextCaseInsensitive,
		Check: func(subj Subject, args []any) (bool, string, string) {
			expected := stringArg(MatchTextCaseInsensitive, args)
			actual := subj.Collection.Text()
			return strings.Contains(strings.ToLower(actual), strings.ToLower(expected)), expected, actual
		},
		Messages: elementMessages("text (case insensitive)", "text"),
	})
	r.Register(Definition{
		MatcherName: MatchExactTextCaseInsensitive,
		Check: func(subj Subject, args []any) (bool, string, string) {
			expected := stringArg(MatchExactTextCaseInsensitive, args)
			actual := subj.Collection.Text()
			return strings.ToLower(actual) == strings.ToLower(expected), expected, actual
		},
		Messages: elementMessages("text (case insensitive)", "text"),
	})
	r.Register(Definition{
		MatcherName: MatchVisible,
		Check: stateCheck(MatchVisible, func(el Element) bool {
			v, ok := el.(Visibility)
			return !ok || v.Visible()
		}),
		Messages: stateMessages("visible"),
	})
	r.Register(Definition{
		MatcherName: MatchChecked,
		Check: stateCheck(MatchChecked, func(el Element) bool {
			return el.Is(checkedSelector)
		}),
		Messages: stateMessages("checked"),
	})
}

// stateCheck passes when the collection is non-empty and every element is in
// the state.
func stateCheck(name string, in func(Element) bool) func(Subject, []any) (bool, string, string) {
	return func(subj Subject, args []any) (bool, string, string) {
		if len(args) != 0 {
			panic(fmt.Sprintf("scout: %s expects no arguments, got %d", name, len(args)))
		}
		n := 0
		for _, el := range subj.Collection {
			if in(el) {
				n++
			}
		}
		total := subj.Collection.Len()
		return total > 0 && n == total, name, fmt.Sprintf("%d of %d", n, total)
	}
}

// checkExactTexts compares element texts by equality. A nil expected entry
// is kept absent and never equals a real text.
func checkExactTexts(subj Subject, args []any) (bool, string, string) {
	raw := expandArgs(args)
	expected := make([]*string, len(raw))
	for i, a := range raw {
		if a != nil {
			s := fmt.Sprint(a)
			expected[i] = &s
		}
	}
	actual := subj.Collection.Texts()

	passed := len(actual) == len(expected)
	for i := 0; passed && i < len(actual); i++ {
		passed = expected[i] != nil && *expected[i] == actual[i]
	}
	return passed, listDisplay(expected), listDisplay(stringPtrs(actual))
}

// checkTexts compares element texts by substring. Every expected entry is
// stringified, nil included.
func checkTexts(subj Subject, args []any) (bool, string, string) {
	raw := expandArgs(args)
	expected := make([]string, len(raw))
	display := make([]*string, len(raw))
	for i, a := range raw {
		if a == nil {
			expected[i] = "undefined"
			continue
		}
		expected[i] = fmt.Sprint(a)
		display[i] = &expected[i]
	}
	actual := subj.Collection.Texts()

	passed := len(actual) == len(expected)
	for i := 0; passed && i < len(actual); i++ {
		passed = strings.Contains(actual[i], expected[i])
	}
	return passed, listDisplay(display), listDisplay(stringPtrs(actual))
}

// expandArgs accepts both f(a, b, c) and f([]T{a, b, c}).
func expandArgs(args []any) []any {
	if len(args) != 1 || args[0] == nil {
		return args
	}
	v := reflect.ValueOf(args[0])
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return args
	}
	out := make([]any, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}
	return out
}

func stringPtrs(ss []string) []*string {
	out := make([]*string, len(ss))
	for i := range ss {
		out[i] = &ss[i]
	}
	return out
}

// listDisplay renders "[a, b, c]"; absent entries render empty.
func listDisplay(items []*string) string {
	parts := make([]string, len(items))
	for i, s := range items {
		if s != nil {
			parts[i] = *s
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func oneArg(name string, args []any) any {
	if len(args) != 1 {
		panic(fmt.Sprintf("scout: %s expects 1 argument, got %d", name, len(args)))
	}
	return args[0]
}

func stringArg(name string, args []any) string {
	return fmt.Sprint(oneArg(name, args))
}

func intArg(name string, args []any) int {
	switch v := oneArg(name, args).(type) {
	case int:
		return v
	default:
		n, err := strconv.Atoi(fmt.Sprint(v))
		if err != nil {
			panic(fmt.Sprintf("scout: %s expects an integer, got %v", name, v))
		}
		return n
	}
}

func selectorArg(name string, args []any) Selector {
	switch v := oneArg(name, args).(type) {
	case Selector:
		return v
	default:
		return SubSelector(fmt.Sprint(v))
	}
}

func quote(s string) string {
	return "'" + s + "'"
}

func bare(s string) string {
	return s
}

func collectionMessages(property, actualProperty string, show func(string) string) func(Subject, string, string) (string, string) {
	return func(subj Subject, expected, actual string) (string, string) {
		tail := fmt.Sprintf("\nactual %s: %s\nactual collection:\n%s", actualProperty, show(actual), subj.Collection)
		return fmt.Sprintf("%s should have %s: %s%s", subj.Description, property, show(expected), tail),
			fmt.Sprintf("%s should not have %s: %s%s", subj.Description, property, show(expected), tail)
	}
}

func countMessages(one, many, actualProperty string) func(Subject, string, string) (string, string) {
	return func(subj Subject, expected, actual string) (string, string) {
		tail := fmt.Sprintf("\nactual %s: %s\nactual collection:\n%s", actualProperty, actual, subj.Collection)
		return fmt.Sprintf("%s should have at least 1 %s %s%s", subj.Description, one, quote(expected), tail),
			fmt.Sprintf("%s should have 0 %s %s%s", subj.Description, many, quote(expected), tail)
	}
}

func stateMessages(state string) func(Subject, string, string) (string, string) {
	return func(subj Subject, _, actual string) (string, string) {
		tail := fmt.Sprintf("\nactual %s elements: %s\nactual collection:\n%s", state, actual, subj.Collection)
		return fmt.Sprintf("%s should be %s%s", subj.Description, state, tail),
			fmt.Sprintf("%s should not be %s%s", subj.Description, state, tail)
	}
}

func elementMessages(property, actualProperty string) func(Subject, string, string) (string, string) {
	return func(subj Subject, expected, actual string) (string, string) {
		tail := fmt.Sprintf("\nactual %s: %s\nactual element:\n%s", actualProperty, quote(actual), subj.Collection)
		return fmt.Sprintf("%s should have %s: %s%s", subj.Description, property, quote(expected), tail),
			fmt.Sprintf("%s should not have %s: %s%s", subj.Description, property, quote(expected), tail)
	}
}
