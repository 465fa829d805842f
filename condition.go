package scout

import (
	"context"
	"fmt"
	"strings"
)

// Subject is what a matcher evaluates: a realized collection and the
// description of the Locator that produced it.
type Subject struct {
	Description string
	Collection  Collection
}

// Outcome is the result of one matcher evaluation.
type Outcome struct {
	Passed   bool
	Negated  bool
	Expected string
	Actual   string
	Positive string
	Negative string
}

// Message returns the failure message for the polarity that was asserted.
func (o Outcome) Message() string {
	if o.Negated {
		return o.Negative
	}
	return o.Positive
}

// Matcher evaluates a subject against expected arguments. A false result is
// reported through Outcome.Passed; matchers panic only on misuse.
type Matcher interface {
	Name() string
	Evaluate(subj Subject, args ...any) Outcome
}

// Definition is a Matcher assembled from a predicate and a message builder.
type Definition struct {
	MatcherName string
	// Check returns the result and the expected/actual displays.
	Check func(subj Subject, args []any) (passed bool, expected, actual string)
	// Messages builds the positive and negative failure messages.
	Messages func(subj Subject, expected, actual string) (positive, negative string)
}

// Name implements Matcher.
func (d Definition) Name() string {
	return d.MatcherName
}

// Evaluate implements Matcher.
func (d Definition) Evaluate(subj Subject, args ...any) Outcome {
	passed, expected, actual := d.Check(subj, args)
	positive, negative := d.Messages(subj, expected, actual)
	return Outcome{
		Passed:   passed,
		Expected: expected,
		Actual:   actual,
		Positive: positive,
		Negative: negative,
	}
}

// Condition is a matcher invocation bound to its expected arguments.
// Namespace only affects String: "have" (the default) or "be".
type Condition struct {
	Name      string
	Args      []any
	Negated   bool
	Namespace string
}

// Not inverts c.
func Not(c Condition) Condition {
	c.Negated = !c.Negated
	return c
}

func (c Condition) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	prefix := "have."
	switch {
	case c.Namespace == "be" && c.Negated:
		prefix = "be.not."
	case c.Namespace == "be":
		prefix = "be."
	case c.Negated:
		prefix = "have.no."
	}
	return prefix + c.Name + "(" + strings.Join(args, ", ") + ")"
}

// Evaluate looks the matcher up in r and evaluates it against subj,
// applying negation.
func (c Condition) Evaluate(r *Registry, subj Subject) (Outcome, error) {
	out, err := r.Evaluate(c.Name, subj, c.Args...)
	if err != nil {
		return Outcome{}, err
	}
	if c.Negated {
		out.Negated = true
		out.Passed = !out.Passed
	}
	return out, nil
}

// Evaluate resolves loc once through ex and evaluates cond with the registry
// carried by ctx. Executor errors are returned unchanged.
func Evaluate(ctx context.Context, ex Executor, loc Locator, cond Condition) (Outcome, error) {
	reg := RegistryFrom(ctx)
	c, err := loc.Resolve(ctx, ex)
	if err != nil {
		return Outcome{}, err
	}
	return cond.Evaluate(reg, Subject{Description: loc.String(), Collection: c})
}
