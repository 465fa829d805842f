package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cboone/scout"
	"github.com/cboone/scout/htmldoc"
	"github.com/cboone/scout/internal/ctxlog"
	"github.com/cboone/scout/internal/poll"
)

var errConditionFailed = errors.New("condition not met")

func newAssertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assert [flags] FILE SELECTOR MATCHER [ARGS...]",
		Short: "Check a condition against the elements a locator finds",
		Long: `Assert evaluates a registered matcher against an HTML file and exits
non-zero when the condition does not hold. With --wait the file is re-read
until the condition passes or the timeout from scout.toml expires.`,
		Args: cobra.MinimumNArgs(3),
		RunE: runAssert,
	}
	addLocatorFlags(cmd)
	cmd.Flags().Bool("not", false, "negate the condition")
	cmd.Flags().Bool("wait", false, "poll until the condition passes")
	cmd.Flags().Duration("timeout", 0, "wait timeout; overrides [wait].timeout")
	return cmd
}

func runAssert(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	loc, err := buildLocator(cmd, args[1])
	if err != nil {
		return err
	}
	negate, err := cmd.Flags().GetBool("not")
	if err != nil {
		return fmt.Errorf("failed to get not flag: %w", err)
	}
	wait, err := cmd.Flags().GetBool("wait")
	if err != nil {
		return fmt.Errorf("failed to get wait flag: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to get timeout flag: %w", err)
	}

	matcherArgs := make([]any, len(args)-3)
	for i, a := range args[3:] {
		matcherArgs[i] = a
	}
	have := scout.Have
	if negate {
		have = have.No()
	}
	cond := have.Matcher(args[2], matcherArgs...)
	if args[2] == scout.MatchVisible || args[2] == scout.MatchChecked {
		cond.Namespace = "be"
	}

	ctx := scout.ContextWithRegistry(commandContext(cmd), scout.NewRegistry())
	ctx = ctxlog.WithLogger(ctx, e.logger)
	doc := htmldoc.NewFile(args[0], htmldoc.WithLogger(e.logger))

	var out scout.Outcome
	attempt := func(ctx context.Context) (bool, error) {
		o, err := evaluate(ctx, doc, loc, cond)
		if err != nil {
			return false, err
		}
		out = o
		return o.Passed, nil
	}
	if wait {
		base := poll.Config{
			Timeout:  time.Duration(e.cfg.Wait.Timeout),
			Interval: time.Duration(e.cfg.Wait.PollInterval),
		}
		cfg, err := base.Override(timeout, 0)
		if err != nil {
			return err
		}
		err = poll.Until(ctx, cfg, attempt)
		if err != nil && !errors.Is(err, poll.ErrTimeout) {
			return err
		}
	} else if _, err := attempt(ctx); err != nil {
		return err
	}

	if !out.Passed {
		fmt.Fprintf(e.out, "%s %s\n%s\n", e.fail("FAIL"), cond, out.Message())
		return errConditionFailed
	}
	fmt.Fprintf(e.out, "%s %s %s\n", e.pass("PASS"), loc, cond)
	return nil
}

// evaluate runs cond once. Matchers panic on malformed arguments; that is
// reported as an error here since the arguments come from the command line.
func evaluate(ctx context.Context, doc scout.Executor, loc scout.Locator, cond scout.Condition) (out scout.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", cond.Name, r)
		}
	}()
	out, err = scout.Evaluate(ctx, doc, loc, cond)
	if err == nil {
		ctxlog.FromContext(ctx).Debug("evaluated",
			zap.Stringer("condition", cond),
			zap.Bool("passed", out.Passed))
	}
	return out, err
}
