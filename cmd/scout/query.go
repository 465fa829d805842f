package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cboone/scout"
	"github.com/cboone/scout/htmldoc"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [flags] FILE SELECTOR",
		Short: "Print the elements a locator finds in an HTML file",
		Long: `Query resolves a locator against an HTML file and prints the matching
elements. Refinements apply in a fixed order: --filter-by, --matching,
--find, then --nth.`,
		Args: cobra.ExactArgs(2),
		RunE: runQuery,
	}
	addLocatorFlags(cmd)
	cmd.Flags().Bool("texts", false, "print element texts instead of HTML")
	return cmd
}

func addLocatorFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("filter-by", nil, "keep elements with a descendant matching the selector (repeatable)")
	cmd.Flags().StringArray("matching", nil, "keep elements that match the selector themselves (repeatable)")
	cmd.Flags().StringArray("find", nil, "replace elements by their descendants matching the selector (repeatable)")
	cmd.Flags().Int("nth", 0, "keep only the element at this index; negative counts from the end")
	cmd.Flags().Bool("visible", false, "drop elements that are hidden")
}

// buildLocator applies the locator flags to the SELECTOR argument.
func buildLocator(cmd *cobra.Command, raw string) (scout.Locator, error) {
	var opts []scout.QueryOption
	visible, err := cmd.Flags().GetBool("visible")
	if err != nil {
		return scout.Locator{}, fmt.Errorf("failed to get visible flag: %w", err)
	}
	if visible {
		opts = append(opts, scout.Visible())
	}
	loc := scout.By(raw, opts...)

	steps := []struct {
		flag  string
		apply func(scout.Locator, string) scout.Locator
	}{
		{"filter-by", scout.Locator.FilterBy},
		{"matching", scout.Locator.Matching},
		{"find", scout.Locator.Find},
	}
	for _, s := range steps {
		subs, err := cmd.Flags().GetStringArray(s.flag)
		if err != nil {
			return scout.Locator{}, fmt.Errorf("failed to get %s flag: %w", s.flag, err)
		}
		for _, sub := range subs {
			loc = s.apply(loc, sub)
		}
	}

	if cmd.Flags().Changed("nth") {
		n, err := cmd.Flags().GetInt("nth")
		if err != nil {
			return scout.Locator{}, fmt.Errorf("failed to get nth flag: %w", err)
		}
		loc = loc.Nth(n)
	}
	return loc, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	loc, err := buildLocator(cmd, args[1])
	if err != nil {
		return err
	}
	texts, err := cmd.Flags().GetBool("texts")
	if err != nil {
		return fmt.Errorf("failed to get texts flag: %w", err)
	}

	doc := htmldoc.NewFile(args[0], htmldoc.WithLogger(e.logger))
	c, err := loc.Resolve(commandContext(cmd), doc)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "%s %s\n", e.dim(loc.String()), e.pass(fmt.Sprintf("(%d)", c.Len())))
	if texts {
		for _, s := range c.Texts() {
			fmt.Fprintln(e.out, s)
		}
		return nil
	}
	if c.Len() > 0 {
		fmt.Fprintln(e.out, c)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
